package models

// AssistantRequest is the payload coming into /api/assistant/chat. Text is
// already transcribed; the core is agnostic to whether it came from voice
// or a text channel.
type AssistantRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
	Timestamp string `json:"timestamp,omitempty"` // RFC3339; defaults to server time
}

// AssistantResponse is what the chat handler returns to the frontend.
type AssistantResponse struct {
	SessionID string     `json:"session_id"`
	Response  string     `json:"response"` // natural-language reply
	Action    ActionType `json:"action"`
	Success   bool       `json:"success"`
	BookingID string     `json:"booking_id,omitempty"` // artifact reference when a booking was created
}
