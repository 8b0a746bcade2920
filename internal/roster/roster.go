// Package roster derives the visible contact list from the loaded snapshot.
//
// Apply is a pure function of its inputs: the caller re-runs it on every
// change to the snapshot, the status filter, or the search query, and equal
// inputs always produce an element-wise equal output.
package roster

import (
	"sort"
	"strings"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

// FilterState holds the two independently settable list inputs. A zero
// Status means "all statuses"; an empty Search matches everything.
type FilterState struct {
	Status domain.ContactStatus
	Search string
}

// Apply filters then sorts the snapshot: exact status match, case-insensitive
// substring search over name and company, ascending next-action date with
// dateless contacts last. The sort is stable so ties keep the relative order
// the filters produced. The snapshot itself is never modified.
func Apply(snapshot []domain.Contact, filter FilterState) []domain.Contact {
	out := make([]domain.Contact, 0, len(snapshot))
	query := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, contact := range snapshot {
		if filter.Status != "" && contact.Status != filter.Status {
			continue
		}
		if query != "" && !matchesSearch(contact, query) {
			continue
		}
		out = append(out, contact)
	}
	// Date-only ISO strings order lexicographically, so no parsing is needed.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].NextActionDate, out[j].NextActionDate
		if a == "" {
			return false
		}
		if b == "" {
			return true
		}
		return a < b
	})
	return out
}

func matchesSearch(contact domain.Contact, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(contact.Name), loweredQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(contact.Company), loweredQuery)
}

// Overdue reports whether a next-action date (YYYY-MM-DD) is on or before
// today (also YYYY-MM-DD). Absent dates are never overdue.
func Overdue(nextActionDate, today string) bool {
	if nextActionDate == "" {
		return false
	}
	return nextActionDate <= today
}
