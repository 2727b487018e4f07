package dto

import "github.com/radieske/line-bet-platform-poc/pkg/contracts/events"

// UpsertEventRequest é o corpo do PUT /event. Campos opcionais são ponteiros:
// campo ausente no JSON não é aplicado no merge.
type UpsertEventRequest struct {
	EventID     string             `json:"event_id"`
	Coefficient *float64           `json:"coefficient,omitempty"`
	Deadline    *int64             `json:"deadline,omitempty"`
	State       *events.EventState `json:"state,omitempty"`
}

// RegisterCallbackRequest é o corpo do POST /register-callback.
type RegisterCallbackRequest struct {
	URL string `json:"url"`
}

// StateUpdateRequest é o corpo do POST /change-event-state/{eventID}.
type StateUpdateRequest struct {
	State events.EventState `json:"state"`
}
