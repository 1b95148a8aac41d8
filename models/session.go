package models

import "time"

// DialogState is the planner's per-session state machine position.
type DialogState string

const (
	StateIdle                 DialogState = "idle"
	StateCollecting           DialogState = "collecting"
	StateAwaitingConfirmation DialogState = "awaiting_confirmation"
)

// Required booking slot names, in clarification precedence order.
const (
	SlotDate     = "date"
	SlotTime     = "time"
	SlotDuration = "duration"
)

// HistoryEntry records one completed (utterance, action) turn.
type HistoryEntry struct {
	Text      string     `json:"text"`
	Action    ActionType `json:"action"`
	Timestamp time.Time  `json:"timestamp"`
}

// DialogContext holds per-session mutable dialogue state between turns.
type DialogContext struct {
	SessionID       string            `json:"sessionId"`
	State           DialogState       `json:"state"`
	PendingIntent   *Intent           `json:"pendingIntent,omitempty"`
	CollectedSlots  map[string]string `json:"collectedSlots,omitempty"`
	AwaitingConfirm *Action           `json:"awaitingConfirm,omitempty"`
	ClarifyAttempts int               `json:"clarifyAttempts,omitempty"`
	ConfirmAttempts int               `json:"confirmAttempts,omitempty"`
	History         []HistoryEntry    `json:"history,omitempty"`
	LastActive      time.Time         `json:"lastActive"`
}

// NewDialogContext returns an empty context in the Idle state.
func NewDialogContext(sessionID string) *DialogContext {
	return &DialogContext{
		SessionID:      sessionID,
		State:          StateIdle,
		CollectedSlots: make(map[string]string),
	}
}

// Reset returns the context to Idle, dropping any in-flight booking turn.
func (c *DialogContext) Reset() {
	c.State = StateIdle
	c.PendingIntent = nil
	c.CollectedSlots = make(map[string]string)
	c.AwaitingConfirm = nil
	c.ClarifyAttempts = 0
	c.ConfirmAttempts = 0
}

// Record appends a completed turn to history, keeping the last ten.
func (c *DialogContext) Record(text string, action ActionType, at time.Time) {
	c.History = append(c.History, HistoryEntry{Text: text, Action: action, Timestamp: at})
	if len(c.History) > 10 {
		c.History = c.History[len(c.History)-10:]
	}
}
