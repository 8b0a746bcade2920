package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/elishevaschwarz-hash/CRM2/internal/api"
	"github.com/elishevaschwarz-hash/CRM2/internal/chat"
	"github.com/elishevaschwarz-hash/CRM2/internal/config"
	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
	"github.com/elishevaschwarz-hash/CRM2/internal/linkify"
	"github.com/elishevaschwarz-hash/CRM2/internal/roster"
	"github.com/elishevaschwarz-hash/CRM2/internal/view"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddContact
	modalAddInteraction
	modalDeleteContact
	modalDeleteInteraction
	modalQuit
)

type mention struct {
	id   string
	name string
}

type model struct {
	cfg     *config.Config
	logger  *zap.Logger
	client  *api.Client
	backend chat.Backend
	coord   *view.Coordinator
	session *chat.Session

	// Roster snapshot plus the two list inputs. visible is recomputed in
	// full from these on every change.
	snapshot []domain.Contact
	filter   roster.FilterState
	visible  []domain.Contact
	cursor   int
	stats    domain.DashboardStats
	today    string

	detail         domain.Contact
	interactions   []domain.Interaction
	timelineCursor int

	loadingList   bool
	loadingDetail bool
	mutating      bool

	lastMentions []mention

	modal            modalKind
	confirmTargetID  string
	contactModal     *contactForm
	interactionModal *interactionForm

	chatFocused   bool
	searchFocused bool

	searchInput textinput.Model
	chatInput   textinput.Model
	spinner     spinner.Model
	chatView    viewport.Model
	timeline    viewport.Model

	theme      uiTheme
	statusLine string
	logs       []string
	startupErr error
	width      int
	height     int
}

func newModel(cfg *config.Config, logger *zap.Logger, client *api.Client) model {
	search := textinput.New()
	search.Prompt = "🔎 "
	search.Placeholder = "search name or company"
	search.CharLimit = 120

	chatIn := textinput.New()
	chatIn.Prompt = "❯ "
	chatIn.Placeholder = "ask the assistant, or /open <n>"
	chatIn.CharLimit = 2000

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#e86c2a"))

	chatView := viewport.New(0, 0)
	chatView.MouseWheelEnabled = true
	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true

	return model{
		cfg:         cfg,
		logger:      logger,
		client:      client,
		backend:     client,
		coord:       view.New(),
		session:     chat.NewSession(cfg.ChatToken),
		today:       time.Now().Format("2006-01-02"),
		loadingList: true,
		searchInput: search,
		chatInput:   chatIn,
		spinner:     sp,
		chatView:    chatView,
		timeline:    timeline,
		theme:       newTheme(),
		statusLine:  "starting...",
		logs:        []string{},
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.healthCmd(),
		m.loadRosterCmd(),
		m.loadStatsCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case healthDoneMsg:
		if msg.err != nil {
			m.startupErr = msg.err
			m.statusLine = "startup failed"
			m.logError(msg.err)
			return m, nil
		}
		m.statusLine = "connected"

	case rosterLoadedMsg:
		// The loading indicator terminates even when the reload failed.
		m.loadingList = false
		if msg.err != nil {
			// Last-good snapshot stays on screen.
			m.notifyError("failed to load contacts", msg.err)
			break
		}
		m.snapshot = msg.contacts
		m.refreshVisible()
		m.statusLine = fmt.Sprintf("%d contacts", len(m.snapshot))

	case statsLoadedMsg:
		if msg.err != nil {
			m.notifyError("failed to load dashboard", msg.err)
			break
		}
		m.stats = msg.stats

	case detailLoadedMsg:
		// Discard responses for a contact the user already navigated away
		// from, otherwise they would land in the wrong panel.
		if !m.coord.AcceptDetail(msg.id) {
			m.logger.Debug("stale detail response discarded", zap.String("contact_id", msg.id))
			break
		}
		m.loadingDetail = false
		if msg.err != nil {
			m.notifyError("failed to load contact", msg.err)
			break
		}
		m.detail = msg.contact
		m.interactions = msg.interactions
		m.timelineCursor = 0
		m.renderTimelinePane()

	case chatDoneMsg:
		if msg.err != nil {
			m.session.Fail(msg.pendingID, msg.err)
			m.logger.Warn("chat exchange failed", zap.Error(msg.err))
		} else {
			m.session.Resolve(msg.pendingID, msg.reply, m.snapshot)
			m.collectMentions()
		}
		m.renderChatPane()
		m.chatView.GotoBottom()

	case mutationDoneMsg:
		m.mutating = false
		if msg.err != nil {
			if m.handleFormError(msg.err) {
				break
			}
			m.notifyError("action failed", msg.err)
			break
		}
		if msg.fromForm {
			m.closeModal()
		}
		if msg.statusContactID != "" && m.coord.AcceptDetail(msg.statusContactID) {
			m.detail.Status = msg.newStatus
		}
		m.notifyInfo(msg.status)
		if msg.backToList {
			cmds = append(cmds, m.goBack()...)
		}
		if msg.reloadList {
			m.loadingList = true
			cmds = append(cmds, m.loadRosterCmd())
		}
		if msg.reloadStats {
			cmds = append(cmds, m.loadStatsCmd())
		}
		if msg.reloadDetail && m.coord.Screen() == view.ScreenDetail {
			m.loadingDetail = true
			cmds = append(cmds, m.loadDetailCmd(m.coord.ContactID()))
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.MouseMsg:
		if m.chatFocused {
			var cmd tea.Cmd
			m.chatView, cmd = m.chatView.Update(msg)
			cmds = append(cmds, cmd)
		} else if m.coord.Screen() == view.ScreenDetail {
			var cmd tea.Cmd
			m.timeline, cmd = m.timeline.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		return m.handleKey(msg, cmds)
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.startupErr != nil {
		if key := msg.String(); key == "q" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.modal {
	case modalQuit:
		switch msg.String() {
		case "y", "Y", "enter":
			return m, tea.Quit
		case "n", "N", "esc":
			m.modal = modalNone
			m.statusLine = "quit canceled"
		}
		return m, tea.Batch(cmds...)
	case modalDeleteContact, modalDeleteInteraction:
		return m.handleConfirmKey(msg, cmds)
	case modalAddContact, modalAddInteraction:
		return m.handleFormKey(msg, cmds)
	}

	if m.chatFocused {
		return m.handleChatKey(msg, cmds)
	}

	switch msg.String() {
	case "tab":
		m.chatFocused = true
		m.searchInput.Blur()
		m.searchFocused = false
		m.chatInput.Focus()
		return m, tea.Batch(cmds...)
	}

	if m.coord.Screen() == view.ScreenDetail {
		return m.handleDetailKey(msg, cmds)
	}
	return m.handleListKey(msg, cmds)
}

func (m model) handleListKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if m.searchFocused {
		switch msg.String() {
		case "esc", "enter":
			m.searchFocused = false
			m.searchInput.Blur()
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
		// Search and status filter are independent inputs; typing only
		// touches the query.
		m.filter.Search = m.searchInput.Value()
		m.refreshVisible()
		return m, tea.Batch(cmds...)
	}

	switch msg.String() {
	case "q", "esc":
		m.modal = modalQuit
	case "up", "k":
		m.cursor = maxInt(0, m.cursor-1)
	case "down", "j":
		m.cursor = minInt(maxInt(0, len(m.visible)-1), m.cursor+1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = maxInt(0, len(m.visible)-1)
	case "enter":
		if m.cursor < len(m.visible) {
			cmds = append(cmds, m.selectContact(m.visible[m.cursor].ID)...)
		}
	case "/":
		m.searchFocused = true
		m.searchInput.Focus()
	case "f":
		m.filter.Status = nextStatusFilter(m.filter.Status, 1)
		m.refreshVisible()
	case "F":
		m.filter.Status = ""
		m.refreshVisible()
	case "n":
		m.contactModal = newContactForm()
		m.modal = modalAddContact
	case "r":
		m.loadingList = true
		cmds = append(cmds, m.loadRosterCmd(), m.loadStatsCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleDetailKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace", "b":
		cmds = append(cmds, m.goBack()...)
	case "up", "k":
		m.timelineCursor = maxInt(0, m.timelineCursor-1)
		m.renderTimelinePane()
	case "down", "j":
		m.timelineCursor = minInt(maxInt(0, len(m.interactions)-1), m.timelineCursor+1)
		m.renderTimelinePane()
	case "pgup":
		m.timeline.LineUp(6)
	case "pgdown":
		m.timeline.LineDown(6)
	case "s":
		if !m.mutating && m.detail.ID != "" {
			next := nextStatus(m.detail.Status, 1)
			m.mutating = true
			cmds = append(cmds, m.updateStatusCmd(m.detail.ID, next))
		}
	case "n":
		m.interactionModal = newInteractionForm(m.detail.ID)
		m.modal = modalAddInteraction
	case "d":
		if m.detail.ID != "" {
			m.confirmTargetID = m.detail.ID
			m.modal = modalDeleteContact
		}
	case "x":
		if m.timelineCursor < len(m.interactions) {
			m.confirmTargetID = m.interactions[m.timelineCursor].ID
			m.modal = modalDeleteInteraction
		}
	case "r":
		m.loadingDetail = true
		cmds = append(cmds, m.loadDetailCmd(m.coord.ContactID()))
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleChatKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "tab":
		m.chatFocused = false
		m.chatInput.Blur()
		return m, tea.Batch(cmds...)
	case "pgup":
		m.chatView.LineUp(6)
		return m, tea.Batch(cmds...)
	case "pgdown":
		m.chatView.LineDown(6)
		return m, tea.Batch(cmds...)
	case "enter":
		raw := strings.TrimSpace(m.chatInput.Value())
		m.chatInput.SetValue("")
		if raw == "" {
			return m, tea.Batch(cmds...)
		}
		if strings.HasPrefix(raw, "/") {
			return m.handleChatSlash(raw, cmds)
		}
		pendingID, ok := m.session.Send(raw)
		if ok {
			cmds = append(cmds, m.askCmd(pendingID, raw))
			m.renderChatPane()
			m.chatView.GotoBottom()
		}
		return m, tea.Batch(cmds...)
	}
	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleChatSlash handles the chat box commands. /open <n> follows the n-th
// contact mentioned in the latest assistant reply, like clicking a linkified
// name.
func (m model) handleChatSlash(raw string, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	parts := strings.Fields(raw)
	switch strings.ToLower(parts[0]) {
	case "/open":
		if len(parts) < 2 || len(m.lastMentions) == 0 {
			m.statusLine = "usage: /open <n> — n-th mentioned contact"
			return m, tea.Batch(cmds...)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || n > len(m.lastMentions) {
			m.statusLine = fmt.Sprintf("mention index out of range (1-%d)", len(m.lastMentions))
			return m, tea.Batch(cmds...)
		}
		picked := m.lastMentions[n-1]
		m.chatFocused = false
		m.chatInput.Blur()
		cmds = append(cmds, m.selectContact(picked.id)...)
	case "/clearfilter":
		m.filter = roster.FilterState{}
		m.searchInput.SetValue("")
		m.refreshVisible()
		m.statusLine = "filters cleared"
	default:
		m.statusLine = "unknown command: " + parts[0]
	}
	return m, tea.Batch(cmds...)
}

func (m model) handleConfirmKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		target := m.confirmTargetID
		kind := m.modal
		m.closeModal()
		m.mutating = true
		if kind == modalDeleteContact {
			cmds = append(cmds, m.deleteContactCmd(target))
		} else {
			cmds = append(cmds, m.deleteInteractionCmd(target))
		}
	case "n", "N", "esc":
		// Declining leaves everything exactly as it was.
		m.closeModal()
		m.statusLine = "delete canceled"
	}
	return m, tea.Batch(cmds...)
}

// selectContact is the select(id) command handler: transition, then load
// detail for the now-active contact.
func (m *model) selectContact(id string) []tea.Cmd {
	if !m.coord.Select(id) {
		return nil
	}
	m.loadingDetail = true
	m.detail = domain.Contact{}
	m.interactions = nil
	m.timelineCursor = 0
	return []tea.Cmd{m.loadDetailCmd(id)}
}

// goBack is the back() command handler: transition to the list, then reload
// the roster and the dashboard stats.
func (m *model) goBack() []tea.Cmd {
	if !m.coord.Back() {
		return nil
	}
	m.loadingList = true
	return []tea.Cmd{m.loadRosterCmd(), m.loadStatsCmd()}
}

func (m *model) refreshVisible() {
	m.visible = roster.Apply(m.snapshot, m.filter)
	m.cursor = clampInt(m.cursor, 0, maxInt(0, len(m.visible)-1))
}

func (m *model) collectMentions() {
	entries := m.session.Entries()
	m.lastMentions = nil
	if len(entries) == 0 {
		return
	}
	last := entries[len(entries)-1]
	if last.Role != chat.RoleAssistant || last.Failed {
		return
	}
	byID := make(map[string]string, len(m.snapshot))
	for _, contact := range m.snapshot {
		byID[contact.ID] = contact.Name
	}
	for _, id := range linkify.Mentions(last.Segments) {
		m.lastMentions = append(m.lastMentions, mention{id: id, name: byID[id]})
	}
}

// handleFormError routes validation failures back into the open form; other
// errors fall through to the notification sink.
func (m *model) handleFormError(err error) bool {
	validation, ok := asValidationError(err)
	if !ok {
		return false
	}
	switch m.modal {
	case modalAddContact:
		if m.contactModal != nil {
			m.contactModal.errText = validation.Message
			return true
		}
	case modalAddInteraction:
		if m.interactionModal != nil {
			m.interactionModal.errText = validation.Message
			return true
		}
	}
	return false
}

func (m *model) closeModal() {
	m.modal = modalNone
	m.confirmTargetID = ""
	m.contactModal = nil
	m.interactionModal = nil
}

func (m *model) notifyInfo(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	m.statusLine = text
	m.appendLog(text)
}

func (m *model) notifyError(text string, err error) {
	line := text
	if err != nil {
		line = text + ": " + compactSingleLine(err.Error(), 160)
	}
	m.statusLine = line
	m.appendLog(line)
	if err != nil {
		m.logger.Warn(text, zap.Error(err))
	}
}

func (m *model) appendLog(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	m.logs = append(m.logs, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), compactSingleLine(trimmed, 200)))
	if len(m.logs) > 50 {
		m.logs = m.logs[len(m.logs)-50:]
	}
}

func (m *model) logError(err error) {
	if err == nil {
		return
	}
	m.appendLog("error: " + err.Error())
	m.logger.Error("fatal", zap.Error(err))
}

func nextStatusFilter(current domain.ContactStatus, delta int) domain.ContactStatus {
	// The filter cycles through "" (all) plus each status pill.
	options := append([]domain.ContactStatus{""}, domain.ContactStatuses...)
	idx := 0
	for i, option := range options {
		if option == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(options)) % len(options)
	return options[idx]
}

func nextStatus(current domain.ContactStatus, delta int) domain.ContactStatus {
	idx := 0
	for i, option := range domain.ContactStatuses {
		if option == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(domain.ContactStatuses)) % len(domain.ContactStatuses)
	return domain.ContactStatuses[idx]
}
