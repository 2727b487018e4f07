package repo

import "time"

// Status possíveis de uma aposta. PENDING só transiciona uma vez, para WON ou
// LOST, via notificação de resolução do evento.
const (
	StatusPending = "PENDING"
	StatusWon     = "WON"
	StatusLost    = "LOST"
)

// Bet é o modelo persistido no Postgres. ID é sequencial, atribuído pelo banco.
type Bet struct {
	ID        int64     `json:"id"`
	EventID   string    `json:"event_id"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
