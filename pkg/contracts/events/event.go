package events

// EventState representa o estado de resolução de um evento da linha.
// O enum é usado de ponta a ponta: armazenamento, wire e validação de aposta.
type EventState string

const (
	StateOpen         EventState = "OPEN"
	StateFinishedWin  EventState = "FINISHED_WIN"
	StateFinishedLose EventState = "FINISHED_LOSE"
)

// Valid indica se o valor é um dos estados conhecidos.
func (s EventState) Valid() bool {
	switch s {
	case StateOpen, StateFinishedWin, StateFinishedLose:
		return true
	}
	return false
}

// Resolved indica se o evento já saiu do estado aberto.
func (s EventState) Resolved() bool {
	return s == StateFinishedWin || s == StateFinishedLose
}

// Event é o contrato de evento trocado entre line-provider e bet-maker.
// Deadline é unix timestamp em segundos; após o deadline o evento não aceita
// novas apostas nem aparece na listagem.
type Event struct {
	EventID     string     `json:"event_id"`
	Coefficient float64    `json:"coefficient"`
	Deadline    int64      `json:"deadline"`
	State       EventState `json:"state"`
}
