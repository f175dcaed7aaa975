package calendar

// CreateEventRequest is the payload sent to the external calendar service.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartAt     string `json:"start_at"` // RFC3339
}

// CreateEventResponse is the external calendar service's answer.
type CreateEventResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}
