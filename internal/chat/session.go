// Package chat maintains the assistant conversation for one program run.
//
// The transcript is append-only and in-memory; it goes away with the
// session, together with the access credential. Send appends the user
// message and a pending placeholder immediately; the caller performs the
// backend exchange and reports back with Resolve or Fail, which first
// removes that placeholder and then appends exactly one assistant entry.
// Replies therefore land in completion order, which may differ from send
// order when more than one exchange is outstanding.
package chat

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
	"github.com/elishevaschwarz-hash/CRM2/internal/linkify"
)

// Role is the author of a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Backend answers one user message. Implementations fail with an error
// carrying a human-readable cause.
type Backend interface {
	Ask(ctx context.Context, message, credential string) (string, error)
}

// Entry is one transcript item. Content is the literal text; Segments is the
// safe, linkified rendering of resolved assistant replies.
type Entry struct {
	ID       string
	Role     Role
	Content  string
	Segments []linkify.Segment
	Pending  bool
	Failed   bool
}

// Session holds the transcript and the session-scoped credential.
type Session struct {
	credential string
	entries    []Entry
	pending    int
}

// NewSession returns an empty session. The credential may be empty when the
// backend is not credential-gated.
func NewSession(credential string) *Session {
	return &Session{credential: credential}
}

// Credential returns the session's access credential.
func (s *Session) Credential() string { return s.credential }

// Send appends the user message and a pending placeholder, returning the
// placeholder id for later Resolve/Fail correlation. Input that is empty
// after trimming is a silent no-op. A second Send while one is outstanding
// is permitted and produces an independent placeholder.
func (s *Session) Send(text string) (pendingID string, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}
	s.entries = append(s.entries, Entry{
		ID:      uuid.NewString(),
		Role:    RoleUser,
		Content: trimmed,
	})
	pendingID = uuid.NewString()
	s.entries = append(s.entries, Entry{
		ID:      pendingID,
		Role:    RoleAssistant,
		Pending: true,
	})
	s.pending++
	return pendingID, true
}

// Resolve removes the placeholder and appends the assistant reply, linkified
// against the given roster.
func (s *Session) Resolve(pendingID, reply string, roster []domain.Contact) {
	if !s.removePending(pendingID) {
		return
	}
	s.entries = append(s.entries, Entry{
		ID:       uuid.NewString(),
		Role:     RoleAssistant,
		Content:  reply,
		Segments: linkify.Annotate(reply, roster),
	})
}

// Fail removes the placeholder and appends an assistant-role error entry
// carrying the cause.
func (s *Session) Fail(pendingID string, cause error) {
	if !s.removePending(pendingID) {
		return
	}
	text := "the assistant is unavailable, try again"
	if cause != nil && strings.TrimSpace(cause.Error()) != "" {
		text = cause.Error()
	}
	s.entries = append(s.entries, Entry{
		ID:      uuid.NewString(),
		Role:    RoleAssistant,
		Content: text,
		Failed:  true,
	})
}

func (s *Session) removePending(pendingID string) bool {
	for i, entry := range s.entries {
		if entry.ID == pendingID && entry.Pending {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			s.pending--
			return true
		}
	}
	return false
}

// Entries returns a copy of the transcript in order.
func (s *Session) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Outstanding returns the number of unresolved placeholders.
func (s *Session) Outstanding() int { return s.pending }
