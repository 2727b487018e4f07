package events

// EventStateChanged é o payload do callback HTTP enviado pelo line-provider
// quando um evento muda de estado. Entrega é best-effort, uma tentativa por
// assinante.
type EventStateChanged struct {
	EventID  string     `json:"event_id"`
	NewState EventState `json:"new_state"`
}

// BetPlaced é publicado no Kafka quando uma aposta é aceita (auditoria).
type BetPlaced struct {
	BetID    int64   `json:"bet_id"`
	EventID  string  `json:"event_id"`
	Amount   float64 `json:"amount"`
	TsUnixMs int64   `json:"ts_unix_ms"`
}

// BetSettled é publicado no Kafka quando apostas são liquidadas por uma
// notificação de resolução (auditoria).
type BetSettled struct {
	EventID  string     `json:"event_id"`
	NewState EventState `json:"new_state"`
	Settled  int64      `json:"settled"`
	TsUnixMs int64      `json:"ts_unix_ms"`
}
