// Package linkify turns contact-name mentions inside assistant replies into
// addressable references, without ever letting reply text inject markup.
//
// The reply is escaped in full before any matching happens, and names are
// matched against that escaped text, so a mention is wrapped exactly once
// and the output never contains an unescaped '&', '<' or '>' outside the
// inserted link tags. Matching is literal substring; when names overlap the
// policy is longest-name-first, and a region claimed by one name is never
// re-wrapped by another.
package linkify

import (
	"sort"
	"strings"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

// Segment is one run of already-escaped text. ContactID is non-empty when
// the run is a wrapped mention of that contact.
type Segment struct {
	Text      string
	ContactID string
}

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeText escapes text for safe embedding in markup, both as element
// content and inside double-quoted attributes.
func EscapeText(text string) string {
	return escaper.Replace(text)
}

// Annotate escapes the reply and splits it into segments, wrapping every
// occurrence of every roster contact's name. An empty roster degenerates to
// a single unlinked segment. Contacts without a name are skipped.
func Annotate(reply string, contacts []domain.Contact) []Segment {
	escaped := EscapeText(reply)
	if escaped == "" {
		return nil
	}

	type candidate struct {
		name string
		id   string
	}
	candidates := make([]candidate, 0, len(contacts))
	for _, contact := range contacts {
		name := EscapeText(contact.Name)
		if strings.TrimSpace(name) == "" {
			continue
		}
		if !strings.Contains(escaped, name) {
			continue
		}
		candidates = append(candidates, candidate{name: name, id: contact.ID})
	}
	// Longest name first; the stable sort keeps roster order between names
	// of equal length.
	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].name) > len(candidates[j].name)
	})

	type match struct {
		start, end int
		id         string
	}
	var matches []match
	overlaps := func(start, end int) bool {
		for _, m := range matches {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}
	for _, cand := range candidates {
		for at := 0; at < len(escaped); {
			idx := strings.Index(escaped[at:], cand.name)
			if idx < 0 {
				break
			}
			start := at + idx
			end := start + len(cand.name)
			if !overlaps(start, end) {
				matches = append(matches, match{start: start, end: end, id: cand.id})
			}
			at = end
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	segments := make([]Segment, 0, 2*len(matches)+1)
	prev := 0
	for _, m := range matches {
		if m.start > prev {
			segments = append(segments, Segment{Text: escaped[prev:m.start]})
		}
		segments = append(segments, Segment{Text: escaped[m.start:m.end], ContactID: m.id})
		prev = m.end
	}
	if prev < len(escaped) {
		segments = append(segments, Segment{Text: escaped[prev:]})
	}
	return segments
}

// Markup renders segments as markup that is safe to insert without further
// sanitization. Mentions become anchors carrying the contact id.
func Markup(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		if seg.ContactID == "" {
			b.WriteString(seg.Text)
			continue
		}
		b.WriteString(`<a href="#" class="chat-contact-link" data-contact-id="`)
		b.WriteString(EscapeText(seg.ContactID))
		b.WriteString(`">`)
		b.WriteString(seg.Text)
		b.WriteString("</a>")
	}
	return b.String()
}

// Render is the one-shot form: escape, annotate, and emit safe markup.
func Render(reply string, contacts []domain.Contact) string {
	return Markup(Annotate(reply, contacts))
}

// Mentions returns the distinct contact ids referenced by the segments, in
// first-occurrence order.
func Mentions(segments []Segment) []string {
	seen := make(map[string]bool, 4)
	out := make([]string, 0, 4)
	for _, seg := range segments {
		if seg.ContactID == "" || seen[seg.ContactID] {
			continue
		}
		seen[seg.ContactID] = true
		out = append(out, seg.ContactID)
	}
	return out
}
