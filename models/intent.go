package models

// IntentLabel names the classified purpose of an utterance.
type IntentLabel string

const (
	IntentBook             IntentLabel = "book"
	IntentCancel           IntentLabel = "cancel"
	IntentShowAvailability IntentLabel = "show_availability"
	IntentShowBookings     IntentLabel = "show_bookings"
	IntentSystem           IntentLabel = "system"
	IntentGreet            IntentLabel = "greet"
	IntentUnknown          IntentLabel = "unknown"
)

// Intent is a scored classification of one utterance.
type Intent struct {
	Label      IntentLabel `json:"label"`
	Confidence float64     `json:"confidence"` // in [0,1]
	Entities   []Entity    `json:"entities,omitempty"`
}

// Entity returns the first entity of the given kind, if present.
func (in Intent) Entity(kind EntityKind) (Entity, bool) {
	for _, e := range in.Entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return Entity{}, false
}
