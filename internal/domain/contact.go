// Package domain contains the core data model shared by the CRM client.
package domain

// ContactStatus is the fixed set of pipeline states a contact can be in.
type ContactStatus string

const (
	StatusActive   ContactStatus = "active"
	StatusLead     ContactStatus = "lead"
	StatusInactive ContactStatus = "inactive"
)

// ContactStatuses lists the valid statuses in display order.
var ContactStatuses = []ContactStatus{StatusActive, StatusLead, StatusInactive}

// Valid reports whether s is one of the enumerated statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case StatusActive, StatusLead, StatusInactive:
		return true
	default:
		return false
	}
}

// Contact is one roster entry as served by the backend. The roster snapshot
// is replaced wholesale on reload and never mutated in place. Dates are kept
// as the wire strings: created_at is RFC3339, next_action_date is date-only
// (YYYY-MM-DD, empty when absent).
type Contact struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Status    ContactStatus `json:"status"`
	CreatedAt string        `json:"created_at,omitempty"`

	// Enrichment from the contact's most recent interaction, supplied by
	// the roster endpoint. All empty when the contact has no interactions.
	LatestInteractionSummary string          `json:"latest_interaction_summary,omitempty"`
	LatestInteractionType    InteractionType `json:"latest_interaction_type,omitempty"`
	LatestInteractionDate    string          `json:"latest_interaction_date,omitempty"`
	NextAction               string          `json:"next_action,omitempty"`
	NextActionDate           string          `json:"next_action_date,omitempty"`
}

// DashboardStats summarizes the roster for the header strip.
type DashboardStats struct {
	TotalContacts int                   `json:"total_contacts"`
	ByStatus      map[ContactStatus]int `json:"by_status"`
	FollowUpCount int                   `json:"follow_up_count"`
}
