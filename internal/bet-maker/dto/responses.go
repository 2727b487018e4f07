package dto

// EventUpdateResponse é o ack do handler de notificação.
type EventUpdateResponse struct {
	Status  string `json:"status"`
	Settled int64  `json:"settled"`
}

// ErrorResponse é o corpo padrão de erro.
type ErrorResponse struct {
	Error string `json:"error"`
}
