package main

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/elishevaschwarz-hash/CRM2/internal/api"
	"github.com/elishevaschwarz-hash/CRM2/internal/chat"
	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

// The HTTP client is the production assistant backend.
var _ chat.Backend = (*api.Client)(nil)

type healthDoneMsg struct {
	err error
}

type rosterLoadedMsg struct {
	contacts []domain.Contact
	err      error
}

type statsLoadedMsg struct {
	stats domain.DashboardStats
	err   error
}

type detailLoadedMsg struct {
	id           string
	contact      domain.Contact
	interactions []domain.Interaction
	err          error
}

type chatDoneMsg struct {
	pendingID string
	reply     string
	err       error
}

type mutationDoneMsg struct {
	status          string
	err             error
	reloadList      bool
	reloadStats     bool
	reloadDetail    bool
	backToList      bool
	fromForm        bool
	statusContactID string
	newStatus       domain.ContactStatus
}

func (m model) healthCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		return healthDoneMsg{err: client.Health(context.Background())}
	}
}

func (m model) loadRosterCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		contacts, err := client.FetchContacts(context.Background())
		return rosterLoadedMsg{contacts: contacts, err: err}
	}
}

func (m model) loadStatsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		stats, err := client.FetchDashboard(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m model) loadDetailCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		contact, interactions, err := client.FetchContactDetail(context.Background(), id)
		return detailLoadedMsg{id: id, contact: contact, interactions: interactions, err: err}
	}
}

func (m model) askCmd(pendingID, text string) tea.Cmd {
	backend := m.backend
	credential := m.session.Credential()
	return func() tea.Msg {
		reply, err := backend.Ask(context.Background(), text, credential)
		return chatDoneMsg{pendingID: pendingID, reply: reply, err: err}
	}
}

func (m model) updateStatusCmd(id string, status domain.ContactStatus) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.UpdateContactStatus(context.Background(), id, status); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{
			status:          "status updated to " + string(status),
			statusContactID: id,
			newStatus:       status,
			reloadStats:     true,
		}
	}
}

func (m model) deleteContactCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteContact(context.Background(), id); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{status: "contact deleted", backToList: true}
	}
}

func (m model) deleteInteractionCmd(id string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if err := client.DeleteInteraction(context.Background(), id); err != nil {
			return mutationDoneMsg{err: err}
		}
		return mutationDoneMsg{status: "interaction deleted", reloadDetail: true, reloadStats: true}
	}
}

func (m model) createContactCmd(fields api.ContactFields) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if _, err := client.CreateContact(context.Background(), fields); err != nil {
			return mutationDoneMsg{err: err, fromForm: true}
		}
		return mutationDoneMsg{status: "contact created", fromForm: true, reloadList: true, reloadStats: true}
	}
}

func (m model) createInteractionCmd(fields api.InteractionFields) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		if _, err := client.CreateInteraction(context.Background(), fields); err != nil {
			return mutationDoneMsg{err: err, fromForm: true}
		}
		return mutationDoneMsg{status: "interaction added", fromForm: true, reloadDetail: true, reloadStats: true}
	}
}

func asValidationError(err error) (*api.ValidationError, bool) {
	var validation *api.ValidationError
	if errors.As(err, &validation) {
		return validation, true
	}
	return nil, false
}
