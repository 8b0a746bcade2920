package main

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elishevaschwarz-hash/CRM2/internal/api"
	"github.com/elishevaschwarz-hash/CRM2/internal/domain"
)

// contactForm is the add-contact modal. The status row sits after the text
// inputs and is cycled with left/right.
type contactForm struct {
	inputs  []textinput.Model // name, email, phone, company
	labels  []string
	focus   int
	status  domain.ContactStatus
	errText string
}

func newContactForm() *contactForm {
	labels := []string{"name", "email", "phone", "company"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = label
		in.CharLimit = 200
		inputs[i] = in
	}
	inputs[0].Focus()
	return &contactForm{inputs: inputs, labels: labels, status: domain.StatusLead}
}

// statusRow is the focus index of the status cycler.
func (f *contactForm) statusRow() int { return len(f.inputs) }

func (f *contactForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "shift+tab":
		f.setFocus((f.focus + f.statusRow()) % (f.statusRow() + 1))
		return nil
	case "down", "tab":
		f.setFocus((f.focus + 1) % (f.statusRow() + 1))
		return nil
	case "left":
		if f.focus == f.statusRow() {
			f.status = nextStatus(f.status, -1)
			return nil
		}
	case "right":
		if f.focus == f.statusRow() {
			f.status = nextStatus(f.status, 1)
			return nil
		}
	}
	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return cmd
	}
	return nil
}

func (f *contactForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// validate checks required fields locally; the backend may still reject the
// payload, which lands back in errText.
func (f *contactForm) validate() bool {
	if strings.TrimSpace(f.inputs[0].Value()) == "" {
		f.errText = "name is required"
		return false
	}
	f.errText = ""
	return true
}

func (f *contactForm) fields() api.ContactFields {
	return api.ContactFields{
		Name:    strings.TrimSpace(f.inputs[0].Value()),
		Email:   strings.TrimSpace(f.inputs[1].Value()),
		Phone:   strings.TrimSpace(f.inputs[2].Value()),
		Company: strings.TrimSpace(f.inputs[3].Value()),
		Status:  f.status,
	}
}

// interactionForm is the add-interaction modal for the detail view. The type
// row comes first, cycled with left/right.
type interactionForm struct {
	contactID string
	inputs    []textinput.Model // summary, next action, next action date
	labels    []string
	focus     int // 0 = type row, 1.. = inputs
	itype     domain.InteractionType
	errText   string
}

func newInteractionForm(contactID string) *interactionForm {
	labels := []string{"summary", "next action", "next action date (YYYY-MM-DD)"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = label
		in.CharLimit = 500
		inputs[i] = in
	}
	return &interactionForm{
		contactID: contactID,
		inputs:    inputs,
		labels:    labels,
		itype:     domain.TypeCall,
	}
}

func (f *interactionForm) rows() int { return len(f.inputs) + 1 }

func (f *interactionForm) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "shift+tab":
		f.setFocus((f.focus + f.rows() - 1) % f.rows())
		return nil
	case "down", "tab":
		f.setFocus((f.focus + 1) % f.rows())
		return nil
	case "left":
		if f.focus == 0 {
			f.itype = nextInteractionType(f.itype, -1)
			return nil
		}
	case "right":
		if f.focus == 0 {
			f.itype = nextInteractionType(f.itype, 1)
			return nil
		}
	}
	if f.focus > 0 {
		var cmd tea.Cmd
		f.inputs[f.focus-1], cmd = f.inputs[f.focus-1].Update(msg)
		return cmd
	}
	return nil
}

func (f *interactionForm) setFocus(idx int) {
	f.focus = idx
	for i := range f.inputs {
		if i == idx-1 {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *interactionForm) validate() bool {
	if strings.TrimSpace(f.inputs[0].Value()) == "" {
		f.errText = "summary is required"
		return false
	}
	date := strings.TrimSpace(f.inputs[2].Value())
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			f.errText = "date must be YYYY-MM-DD"
			return false
		}
	}
	f.errText = ""
	return true
}

func (f *interactionForm) fields() api.InteractionFields {
	return api.InteractionFields{
		ContactID:      f.contactID,
		Type:           f.itype,
		Summary:        strings.TrimSpace(f.inputs[0].Value()),
		NextAction:     strings.TrimSpace(f.inputs[1].Value()),
		NextActionDate: strings.TrimSpace(f.inputs[2].Value()),
	}
}

func nextInteractionType(current domain.InteractionType, delta int) domain.InteractionType {
	idx := 0
	for i, option := range domain.InteractionTypes {
		if option == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(domain.InteractionTypes)) % len(domain.InteractionTypes)
	return domain.InteractionTypes[idx]
}

// handleFormKey routes keys into whichever form modal is open; enter submits,
// esc closes without a request.
func (m model) handleFormKey(msg tea.KeyMsg, cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, tea.Batch(cmds...)
	case "enter":
		switch m.modal {
		case modalAddContact:
			if m.contactModal != nil && m.contactModal.validate() {
				m.mutating = true
				cmds = append(cmds, m.createContactCmd(m.contactModal.fields()))
			}
		case modalAddInteraction:
			if m.interactionModal != nil && m.interactionModal.validate() {
				m.mutating = true
				cmds = append(cmds, m.createInteractionCmd(m.interactionModal.fields()))
			}
		}
		return m, tea.Batch(cmds...)
	}
	switch m.modal {
	case modalAddContact:
		if m.contactModal != nil {
			cmds = append(cmds, m.contactModal.update(msg))
		}
	case modalAddInteraction:
		if m.interactionModal != nil {
			cmds = append(cmds, m.interactionModal.update(msg))
		}
	}
	return m, tea.Batch(cmds...)
}
