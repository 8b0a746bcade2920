package main

import (
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/elishevaschwarz-hash/CRM2/internal/chat"
	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
	"github.com/elishevaschwarz-hash/CRM2/internal/roster"
	"github.com/elishevaschwarz-hash/CRM2/internal/view"
)

type uiTheme struct {
	root        lipgloss.Style
	header      lipgloss.Style
	panel       lipgloss.Style
	panelTitle  lipgloss.Style
	footer      lipgloss.Style
	status      lipgloss.Style
	errorStatus lipgloss.Style
	muted       lipgloss.Style

	pillActive   lipgloss.Style
	pillInactive lipgloss.Style

	rowCursor   lipgloss.Style
	colHeader   lipgloss.Style
	overdue     lipgloss.Style
	badgeActive lipgloss.Style
	badgeLead   lipgloss.Style
	badgeIdle   lipgloss.Style

	chatUser      lipgloss.Style
	chatAssistant lipgloss.Style
	chatError     lipgloss.Style
	chatMention   lipgloss.Style

	modalFrame lipgloss.Style
	formLabel  lipgloss.Style
	formError  lipgloss.Style
}

func newTheme() uiTheme {
	accent := lipgloss.Color("#e86c2a")
	blue := lipgloss.Color("#3b82f6")
	green := lipgloss.Color("#10b981")
	red := lipgloss.Color("#ef4444")
	text := lipgloss.Color("#f5f5f4")
	muted := lipgloss.Color("#a8a29e")
	panelBg := lipgloss.Color("#1c1917")

	return uiTheme{
		root: lipgloss.NewStyle().Foreground(text),
		header: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
		panel: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(blue).
			Padding(0, 1),
		panelTitle:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		footer:      lipgloss.NewStyle().Foreground(muted),
		status:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		errorStatus: lipgloss.NewStyle().Foreground(red).Bold(true),
		muted:       lipgloss.NewStyle().Foreground(muted),

		pillActive: lipgloss.NewStyle().
			Background(accent).
			Foreground(lipgloss.Color("#1c1917")).
			Bold(true).
			Padding(0, 1),
		pillInactive: lipgloss.NewStyle().
			Background(lipgloss.Color("#292524")).
			Foreground(muted).
			Padding(0, 1),

		rowCursor:   lipgloss.NewStyle().Background(lipgloss.Color("#292524")).Bold(true),
		colHeader:   lipgloss.NewStyle().Foreground(muted).Bold(true),
		overdue:     lipgloss.NewStyle().Foreground(red).Bold(true),
		badgeActive: lipgloss.NewStyle().Foreground(green).Bold(true),
		badgeLead:   lipgloss.NewStyle().Foreground(blue).Bold(true),
		badgeIdle:   lipgloss.NewStyle().Foreground(muted),

		chatUser:      lipgloss.NewStyle().Foreground(green).Bold(true),
		chatAssistant: lipgloss.NewStyle().Foreground(text),
		chatError:     lipgloss.NewStyle().Foreground(red),
		chatMention:   lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),

		modalFrame: lipgloss.NewStyle().
			Background(panelBg).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		formLabel: lipgloss.NewStyle().Foreground(blue),
		formError: lipgloss.NewStyle().Foreground(red),
	}
}

func (m *model) chatWidth() int {
	return clampInt(m.width/3, 30, 46)
}

func (m *model) mainWidth() int {
	return maxInt(40, m.width-m.chatWidth()-2)
}

func (m *model) contentHeight() int {
	// Header and footer each take a few rows; keep panes inside the rest.
	return maxInt(8, m.height-8)
}

func (m *model) resize() {
	m.chatView.Width = maxInt(20, m.chatWidth()-4)
	m.chatView.Height = maxInt(4, m.contentHeight()-4)
	m.timeline.Width = maxInt(30, m.mainWidth()-4)
	m.timeline.Height = maxInt(4, m.contentHeight()-9)
	m.searchInput.Width = minInt(40, m.mainWidth()-10)
	m.chatInput.Width = maxInt(16, m.chatWidth()-8)
	m.renderChatPane()
	m.renderTimelinePane()
}

func (m model) View() string {
	if m.startupErr != nil {
		panel := m.theme.panel.
			Width(maxInt(30, m.width-4)).
			Render(
				m.theme.panelTitle.Render("CRM backend unreachable") + "\n\n" +
					m.theme.errorStatus.Render(m.startupErr.Error()) + "\n\n" +
					m.theme.muted.Render("Press q or Ctrl+C to exit."),
			)
		return m.theme.root.Render(panel)
	}

	switch m.modal {
	case modalQuit:
		return m.renderConfirm("Quit?", "Leave the CRM client? The chat transcript is discarded.")
	case modalDeleteContact:
		return m.renderConfirm("Delete contact?", "The contact and all of its interactions will be deleted.")
	case modalDeleteInteraction:
		return m.renderConfirm("Delete interaction?", "This timeline entry will be deleted.")
	case modalAddContact:
		return m.renderContactForm()
	case modalAddInteraction:
		return m.renderInteractionForm()
	}

	var main string
	if m.coord.Screen() == view.ScreenDetail {
		main = m.renderDetail()
	} else {
		main = m.renderList()
	}
	content := lipgloss.JoinHorizontal(lipgloss.Top, main, m.renderChatPanel())
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		m.renderFooter(),
	))
}

func (m model) renderHeader() string {
	title := m.theme.panelTitle.Render("CRM")
	stats := m.theme.muted.Render(fmt.Sprintf(
		"active %d · leads %d · follow-ups due %d",
		m.stats.ByStatus[domain.StatusActive],
		m.stats.ByStatus[domain.StatusLead],
		m.stats.FollowUpCount,
	))

	pills := make([]string, 0, len(domain.ContactStatuses)+1)
	renderPill := func(label string, status domain.ContactStatus) string {
		if m.filter.Status == status {
			return m.theme.pillActive.Render(label)
		}
		return m.theme.pillInactive.Render(label)
	}
	pills = append(pills, renderPill("all", ""))
	for _, status := range domain.ContactStatuses {
		pills = append(pills, renderPill(string(status), status))
	}

	line := title + "  " + stats + "  " + strings.Join(pills, " ") + "  " + m.searchInput.View()
	return m.theme.header.Width(maxInt(20, m.width-2)).Render(line)
}

func (m model) renderList() string {
	width := m.mainWidth()
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("Contacts") + "\n")

	switch {
	case m.loadingList:
		b.WriteString(m.spinner.View() + " loading contacts...")
	case len(m.visible) == 0:
		// Distinct from the loading state: the pipeline ran and produced
		// nothing.
		b.WriteString(m.theme.muted.Render("no contacts match the current filters"))
	default:
		nameW := clampInt(width/5, 12, 26)
		compW := clampInt(width/6, 10, 20)
		latestW := clampInt(width/4, 14, 30)
		actW := clampInt(width/5, 10, 24)

		header := fmt.Sprintf("%-*s %-*s %-10s %-*s %-*s %s",
			nameW, "NAME", compW, "COMPANY", "STATUS", latestW, "LAST TOUCH", actW, "NEXT ACTION", "DUE")
		b.WriteString(m.theme.colHeader.Render(truncate(header, width-4)) + "\n")

		rows := m.visibleWindow()
		for _, idx := range rows {
			contact := m.visible[idx]
			latest := "—"
			if contact.LatestInteractionType != "" {
				latest = typeIcon(contact.LatestInteractionType) + " " + compactSingleLine(contact.LatestInteractionSummary, latestW-3)
			}
			due := formatDate(contact.NextActionDate)
			line := fmt.Sprintf("%-*s %-*s %-10s %-*s %-*s %s",
				nameW, truncate(contact.Name, nameW),
				compW, truncate(ternary(contact.Company == "", "—", contact.Company), compW),
				string(contact.Status),
				latestW, truncate(latest, latestW),
				actW, truncate(ternary(contact.NextAction == "", "—", contact.NextAction), actW),
				due)
			line = truncate(line, width-4)
			if roster.Overdue(contact.NextActionDate, m.today) {
				line = m.theme.overdue.Render(line)
			}
			if idx == m.cursor {
				line = m.theme.rowCursor.Render("▸ " + line)
			} else {
				line = "  " + line
			}
			b.WriteString(line + "\n")
		}
	}

	return m.theme.panel.
		Width(width).
		Height(m.contentHeight()).
		Render(b.String())
}

// visibleWindow slices the row indexes around the cursor so the table fits
// the pane height.
func (m model) visibleWindow() []int {
	capacity := maxInt(3, m.contentHeight()-5)
	start := 0
	if m.cursor >= capacity {
		start = m.cursor - capacity + 1
	}
	end := minInt(len(m.visible), start+capacity)
	rows := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, i)
	}
	return rows
}

func (m model) renderDetail() string {
	width := m.mainWidth()
	var b strings.Builder

	if m.loadingDetail {
		b.WriteString(m.spinner.View() + " loading contact...")
	} else {
		badge := m.statusBadge(m.detail.Status)
		b.WriteString(m.theme.panelTitle.Render(m.detail.Name) + "  " + badge + "\n")
		b.WriteString(m.theme.muted.Render(ternary(m.detail.Company == "", "—", m.detail.Company)) + "\n")
		b.WriteString(fmt.Sprintf("email %s · phone %s\n",
			ternary(m.detail.Email == "", "—", m.detail.Email),
			ternary(m.detail.Phone == "", "—", m.detail.Phone)))
		b.WriteString(m.theme.muted.Render("since "+formatDate(m.detail.CreatedAt)) + "\n\n")
		b.WriteString(m.theme.panelTitle.Render("Timeline") + "\n")
		if len(m.interactions) == 0 {
			b.WriteString(m.theme.muted.Render("no interactions yet — press n to add one"))
		} else {
			b.WriteString(m.timeline.View())
		}
	}

	return m.theme.panel.
		Width(width).
		Height(m.contentHeight()).
		Render(b.String())
}

func (m *model) renderTimelinePane() {
	width := maxInt(30, m.mainWidth()-4)
	var b strings.Builder
	for i, interaction := range m.interactions {
		marker := "  "
		if i == m.timelineCursor {
			marker = "▸ "
		}
		head := fmt.Sprintf("%s%s %s · %s", marker, typeIcon(interaction.Type), interaction.Type, formatDate(interaction.CreatedAt))
		b.WriteString(m.theme.colHeader.Render(truncate(head, width)) + "\n")
		b.WriteString(wrapText(interaction.Summary, width-4) + "\n")
		if interaction.NextAction != "" {
			next := "next: " + interaction.NextAction
			if interaction.NextActionDate != "" {
				next += " (" + formatDate(interaction.NextActionDate) + ")"
			}
			style := m.theme.muted
			if roster.Overdue(interaction.NextActionDate, m.today) {
				style = m.theme.overdue
			}
			b.WriteString(style.Render(truncate(next, width-4)) + "\n")
		}
		b.WriteString("\n")
	}
	m.timeline.SetContent(b.String())
}

func (m model) statusBadge(status domain.ContactStatus) string {
	switch status {
	case domain.StatusActive:
		return m.theme.badgeActive.Render("● " + string(status))
	case domain.StatusLead:
		return m.theme.badgeLead.Render("● " + string(status))
	default:
		return m.theme.badgeIdle.Render("● " + string(status))
	}
}

func (m model) renderChatPanel() string {
	var b strings.Builder
	title := "Assistant"
	if n := m.session.Outstanding(); n > 0 {
		title = fmt.Sprintf("Assistant %s %d pending", m.spinner.View(), n)
	}
	b.WriteString(m.theme.panelTitle.Render(title) + "\n")
	b.WriteString(m.chatView.View() + "\n")
	if len(m.lastMentions) > 0 {
		hints := make([]string, 0, len(m.lastMentions))
		for i, mentioned := range m.lastMentions {
			hints = append(hints, fmt.Sprintf("[%d] %s", i+1, mentioned.name))
		}
		b.WriteString(m.theme.muted.Render(truncate("/open "+strings.Join(hints, " "), m.chatWidth()-4)) + "\n")
	}
	b.WriteString(m.chatInput.View())
	return m.theme.panel.
		Width(m.chatWidth()).
		Height(m.contentHeight()).
		Render(b.String())
}

func (m *model) renderChatPane() {
	width := maxInt(20, m.chatWidth()-6)
	var b strings.Builder
	for _, entry := range m.session.Entries() {
		switch {
		case entry.Pending:
			b.WriteString(m.theme.muted.Render(m.spinner.View()+" thinking...") + "\n\n")
		case entry.Role == chat.RoleUser:
			b.WriteString(m.theme.chatUser.Render("you") + "\n")
			b.WriteString(wrapText(entry.Content, width) + "\n\n")
		case entry.Failed:
			b.WriteString(m.theme.chatError.Render("assistant ⚠") + "\n")
			b.WriteString(m.theme.chatError.Render(wrapText(entry.Content, width)) + "\n\n")
		default:
			b.WriteString(m.theme.status.Render("assistant") + "\n")
			b.WriteString(wrapText(m.renderSegments(entry), width) + "\n\n")
		}
	}
	m.chatView.SetContent(b.String())
}

// renderSegments flattens a linkified reply for the terminal. The segments
// carry markup-escaped text, so entities are folded back for display; the
// safe-markup path in internal/linkify never does this.
func (m *model) renderSegments(entry chat.Entry) string {
	if len(entry.Segments) == 0 {
		return entry.Content
	}
	mentionIdx := map[string]int{}
	for i, mentioned := range m.lastMentions {
		mentionIdx[mentioned.id] = i + 1
	}
	var b strings.Builder
	for _, seg := range entry.Segments {
		text := html.UnescapeString(seg.Text)
		if seg.ContactID == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(m.theme.chatMention.Render(text))
		if idx, ok := mentionIdx[seg.ContactID]; ok {
			b.WriteString(m.theme.muted.Render(fmt.Sprintf("[%d]", idx)))
		}
	}
	return b.String()
}

func (m model) renderFooter() string {
	var hints string
	switch {
	case m.chatFocused:
		hints = "enter send · /open <n> mention · esc back to list · ctrl+c quit"
	case m.coord.Screen() == view.ScreenDetail:
		hints = "esc back · s cycle status · n add interaction · x delete interaction · d delete contact · tab chat"
	case m.searchFocused:
		hints = "type to search · enter/esc done"
	default:
		hints = "↑/↓ move · enter open · / search · f filter · n new contact · r reload · tab chat · q quit"
	}
	status := m.theme.status.Render(compactSingleLine(m.statusLine, maxInt(20, m.width/2)))
	return m.theme.footer.Render(" " + status + "  " + hints)
}

func (m model) renderConfirm(title, body string) string {
	panel := m.theme.modalFrame.Render(
		m.theme.panelTitle.Render(title) + "\n\n" +
			wrapText(body, 46) + "\n\n" +
			m.theme.muted.Render("y confirm · n cancel"),
	)
	return lipgloss.Place(maxInt(20, m.width), maxInt(10, m.height), lipgloss.Center, lipgloss.Center, panel)
}

func (m model) renderContactForm() string {
	f := m.contactModal
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("New contact") + "\n\n")
	for i, input := range f.inputs {
		label := f.labels[i]
		if i == f.focus {
			label = "▸ " + label
		} else {
			label = "  " + label
		}
		b.WriteString(m.theme.formLabel.Render(fmt.Sprintf("%-10s", label)) + input.View() + "\n")
	}
	statusLabel := ternary(f.focus == f.statusRow(), "▸ status", "  status")
	b.WriteString(m.theme.formLabel.Render(fmt.Sprintf("%-10s", statusLabel)) + "◀ " + string(f.status) + " ▶\n")
	if f.errText != "" {
		b.WriteString("\n" + m.theme.formError.Render(f.errText))
	}
	b.WriteString("\n\n" + m.theme.muted.Render("enter save · tab next field · esc cancel"))
	panel := m.theme.modalFrame.Render(b.String())
	return lipgloss.Place(maxInt(20, m.width), maxInt(10, m.height), lipgloss.Center, lipgloss.Center, panel)
}

func (m model) renderInteractionForm() string {
	f := m.interactionModal
	if f == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.theme.panelTitle.Render("Log interaction") + "\n\n")
	typeLabel := ternary(f.focus == 0, "▸ type", "  type")
	b.WriteString(m.theme.formLabel.Render(fmt.Sprintf("%-10s", typeLabel)) + "◀ " + typeIcon(f.itype) + " " + string(f.itype) + " ▶\n")
	for i, input := range f.inputs {
		label := f.labels[i]
		if f.focus == i+1 {
			label = "▸ " + label
		} else {
			label = "  " + label
		}
		b.WriteString(m.theme.formLabel.Render(fmt.Sprintf("%-10s", truncate(label, 10))) + input.View() + "\n")
	}
	if f.errText != "" {
		b.WriteString("\n" + m.theme.formError.Render(f.errText))
	}
	b.WriteString("\n\n" + m.theme.muted.Render("enter save · tab next field · esc cancel"))
	panel := m.theme.modalFrame.Render(b.String())
	return lipgloss.Place(maxInt(20, m.width), maxInt(10, m.height), lipgloss.Center, lipgloss.Center, panel)
}
