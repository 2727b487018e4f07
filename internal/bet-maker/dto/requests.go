package dto

import "github.com/radieske/line-bet-platform-poc/pkg/contracts/events"

// PlaceBetRequest é o corpo do POST /bet.
type PlaceBetRequest struct {
	EventID string  `json:"event_id"`
	Amount  float64 `json:"amount"`
}

// EventUpdateRequest é o corpo do POST /event-update (notificação inbound do
// line-provider).
type EventUpdateRequest struct {
	EventID  string            `json:"event_id"`
	NewState events.EventState `json:"new_state"`
}
