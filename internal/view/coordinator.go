// Package view owns navigation between the contact list and the detail
// screen. All view changes go through the coordinator's named transitions;
// nothing else mutates the active screen.
package view

// Screen names the two top-level screens.
type Screen int

const (
	ScreenList Screen = iota
	ScreenDetail
)

func (s Screen) String() string {
	if s == ScreenDetail {
		return "detail"
	}
	return "list"
}

// Coordinator is the view-navigation state machine. It starts on the list
// screen and lives for the whole program run. The rendering collaborator
// reacts to transitions by issuing the matching loads (detail fetch on
// Select, roster and stats reload on Back).
type Coordinator struct {
	screen    Screen
	contactID string
}

// New returns a coordinator on the list screen.
func New() *Coordinator {
	return &Coordinator{screen: ScreenList}
}

// Screen returns the active screen.
func (c *Coordinator) Screen() Screen { return c.screen }

// ContactID returns the contact shown on the detail screen, or "" on the
// list screen.
func (c *Coordinator) ContactID() string { return c.contactID }

// Select moves to Detail(id). Selecting the already-active contact is
// idempotent and reports false so the caller does not issue a second load.
// Selecting from the detail screen (a linkified chat mention) is allowed and
// replaces the active contact.
func (c *Coordinator) Select(id string) bool {
	if id == "" {
		return false
	}
	if c.screen == ScreenDetail && c.contactID == id {
		return false
	}
	c.screen = ScreenDetail
	c.contactID = id
	return true
}

// Back returns to the list screen. On the list screen it is a no-op and
// reports false.
func (c *Coordinator) Back() bool {
	if c.screen == ScreenList {
		return false
	}
	c.screen = ScreenList
	c.contactID = ""
	return true
}

// AcceptDetail reports whether a detail response for id is still relevant.
// A response for a contact the user has since navigated away from must be
// discarded rather than rendered into the visible panel.
func (c *Coordinator) AcceptDetail(id string) bool {
	return c.screen == ScreenDetail && c.contactID == id
}
