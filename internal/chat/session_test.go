package chat

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

func TestSendAppendsUserEntryAndPlaceholder(t *testing.T) {
	s := NewSession("tok")

	pendingID, ok := s.Send("  hello  ")
	require.True(t, ok)
	require.NotEmpty(t, pendingID)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, RoleUser, entries[0].Role)
	assert.Equal(t, "hello", entries[0].Content, "input is trimmed")
	assert.Equal(t, RoleAssistant, entries[1].Role)
	assert.True(t, entries[1].Pending)
	assert.Equal(t, pendingID, entries[1].ID)
	assert.Equal(t, 1, s.Outstanding())
}

func TestSendEmptyIsNoOp(t *testing.T) {
	s := NewSession("")

	_, ok := s.Send("   \t\n ")
	assert.False(t, ok)
	assert.Empty(t, s.Entries())
	assert.Zero(t, s.Outstanding())
}

func TestResolveReplacesPlaceholderWithLinkifiedReply(t *testing.T) {
	s := NewSession("tok")
	roster := []domain.Contact{{ID: "c1", Name: "Dana Cohen"}}

	pendingID, _ := s.Send("who is overdue?")
	s.Resolve(pendingID, "Call Dana Cohen today", roster)

	entries := s.Entries()
	require.Len(t, entries, 2)
	reply := entries[1]
	assert.Equal(t, RoleAssistant, reply.Role)
	assert.False(t, reply.Pending)
	assert.False(t, reply.Failed)
	assert.Equal(t, "Call Dana Cohen today", reply.Content)
	require.NotEmpty(t, reply.Segments)
	assert.Equal(t, "c1", reply.Segments[1].ContactID)
	assert.Zero(t, s.Outstanding())
}

func TestFailReplacesPlaceholderWithErrorEntry(t *testing.T) {
	s := NewSession("tok")

	pendingID, _ := s.Send("hi")
	s.Fail(pendingID, errors.New("connection refused"))

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[1].Failed)
	assert.Equal(t, "connection refused", entries[1].Content)
	assert.Zero(t, s.Outstanding())
}

func TestFailWithoutCauseUsesFallbackText(t *testing.T) {
	s := NewSession("")

	pendingID, _ := s.Send("hi")
	s.Fail(pendingID, nil)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "the assistant is unavailable, try again", entries[1].Content)
}

func TestConcurrentSendsResolveInCompletionOrder(t *testing.T) {
	s := NewSession("tok")

	first, _ := s.Send("first question")
	second, _ := s.Send("second question")
	assert.Equal(t, 2, s.Outstanding())

	// The second exchange finishes before the first.
	s.Resolve(second, "second answer", nil)
	s.Resolve(first, "first answer", nil)

	entries := s.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, "first question", entries[0].Content)
	assert.Equal(t, "second question", entries[1].Content)
	assert.Equal(t, "second answer", entries[2].Content)
	assert.Equal(t, "first answer", entries[3].Content)
	assert.Zero(t, s.Outstanding())
}

func TestResolveUnknownPlaceholderIsIgnored(t *testing.T) {
	s := NewSession("tok")
	pendingID, _ := s.Send("hi")

	s.Resolve("no-such-id", "reply", nil)
	require.Len(t, s.Entries(), 2)
	assert.Equal(t, 1, s.Outstanding())

	// Resolving twice only lands once.
	s.Resolve(pendingID, "reply", nil)
	s.Resolve(pendingID, "reply again", nil)
	assert.Len(t, s.Entries(), 2)
}

func TestEntriesReturnsCopy(t *testing.T) {
	s := NewSession("tok")
	s.Send("hi")

	entries := s.Entries()
	entries[0].Content = "mutated"

	assert.Equal(t, "hi", s.Entries()[0].Content)
}

func TestCredential(t *testing.T) {
	assert.Equal(t, "tok", NewSession("tok").Credential())
	assert.Empty(t, NewSession("").Credential())
}
