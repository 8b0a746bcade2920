package linkify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

func TestEscapeText(t *testing.T) {
	got := EscapeText(`<b>"Tom & Jerry's"</b>`)
	assert.Equal(t, "&lt;b&gt;&quot;Tom &amp; Jerry&#39;s&quot;&lt;/b&gt;", got)
}

func TestRenderEscapesBeforeLinking(t *testing.T) {
	contacts := []domain.Contact{{ID: "c1", Name: "Dana Cohen"}}
	got := Render(`<script>alert(1)</script> ping Dana Cohen`, contacts)

	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.Contains(t, got, `<a href="#" class="chat-contact-link" data-contact-id="c1">Dana Cohen</a>`)
}

func TestRenderWrapsEveryOccurrence(t *testing.T) {
	contacts := []domain.Contact{{ID: "c1", Name: "Dana Cohen"}}
	got := Render("Dana Cohen met Dana Cohen's team. Call Dana Cohen.", contacts)

	assert.Equal(t, 3, strings.Count(got, `data-contact-id="c1"`))
}

func TestRenderMixedScriptText(t *testing.T) {
	// Mentions embedded in non-Latin text still link.
	contacts := []domain.Contact{{ID: "c1", Name: "Dana Cohen"}}
	got := Render("פנה ל-Dana Cohen בהקדם", contacts)

	assert.Contains(t, got, `data-contact-id="c1">Dana Cohen</a>`)
	assert.Contains(t, got, "פנה ל-")
	assert.Contains(t, got, "בהקדם")
}

func TestRenderLongestNameWinsOverlap(t *testing.T) {
	contacts := []domain.Contact{
		{ID: "short", Name: "Dana"},
		{ID: "long", Name: "Dana Cohen"},
	}
	got := Render("Ask Dana Cohen, then ask Dana.", contacts)

	// The full-name region is claimed once and never re-wrapped by the
	// shorter name; the standalone "Dana" still links.
	assert.Equal(t, 1, strings.Count(got, `data-contact-id="long"`))
	assert.Equal(t, 1, strings.Count(got, `data-contact-id="short"`))
	assert.NotContains(t, got, "<a href=\"#\" class=\"chat-contact-link\" data-contact-id=\"short\">Dana</a> Cohen")
}

func TestRenderEmptyRosterIsPlainEscapedText(t *testing.T) {
	got := Render("A & B", nil)
	assert.Equal(t, "A &amp; B", got)
}

func TestRenderNameWithMarkupCharacters(t *testing.T) {
	// A name containing '&' only matches after both sides are escaped.
	contacts := []domain.Contact{{ID: "c1", Name: "R&D GmbH"}}
	got := Render("Invoice for R&D GmbH is due.", contacts)

	assert.Contains(t, got, `data-contact-id="c1">R&amp;D GmbH</a>`)
}

func TestAnnotateSegmentsRoundTrip(t *testing.T) {
	contacts := []domain.Contact{{ID: "c1", Name: "Avi Levi"}}
	segments := Annotate("Talk to Avi Levi today", contacts)

	require.Len(t, segments, 3)
	assert.Equal(t, Segment{Text: "Talk to "}, segments[0])
	assert.Equal(t, Segment{Text: "Avi Levi", ContactID: "c1"}, segments[1])
	assert.Equal(t, Segment{Text: " today"}, segments[2])

	var joined strings.Builder
	for _, seg := range segments {
		joined.WriteString(seg.Text)
	}
	assert.Equal(t, "Talk to Avi Levi today", joined.String())
}

func TestAnnotateEmptyReply(t *testing.T) {
	assert.Nil(t, Annotate("", []domain.Contact{{ID: "c1", Name: "Dana"}}))
}

func TestAnnotateSkipsBlankNames(t *testing.T) {
	contacts := []domain.Contact{{ID: "c1", Name: "  "}, {ID: "c2", Name: ""}}
	segments := Annotate("anything at all", contacts)

	require.Len(t, segments, 1)
	assert.Empty(t, segments[0].ContactID)
}

func TestMentionsFirstOccurrenceOrderDeduped(t *testing.T) {
	contacts := []domain.Contact{
		{ID: "c1", Name: "Dana Cohen"},
		{ID: "c2", Name: "Avi Levi"},
	}
	segments := Annotate("Avi Levi, Dana Cohen and Avi Levi again", contacts)

	assert.Equal(t, []string{"c2", "c1"}, Mentions(segments))
}
