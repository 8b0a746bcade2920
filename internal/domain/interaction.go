package domain

// InteractionType tags one logged touchpoint with a contact.
type InteractionType string

const (
	TypeCall    InteractionType = "call"
	TypeEmail   InteractionType = "email"
	TypeMeeting InteractionType = "meeting"
	TypeNote    InteractionType = "note"
)

// InteractionTypes lists the valid types in display order.
var InteractionTypes = []InteractionType{TypeCall, TypeEmail, TypeMeeting, TypeNote}

// Valid reports whether t is one of the enumerated interaction types.
func (t InteractionType) Valid() bool {
	switch t {
	case TypeCall, TypeEmail, TypeMeeting, TypeNote:
		return true
	default:
		return false
	}
}

// Interaction belongs to exactly one contact; the backend cascades deletes
// when the owning contact is removed.
type Interaction struct {
	ID             string          `json:"id"`
	ContactID      string          `json:"contact_id"`
	Type           InteractionType `json:"type"`
	Summary        string          `json:"summary"`
	NextAction     string          `json:"next_action,omitempty"`
	NextActionDate string          `json:"next_action_date,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}
