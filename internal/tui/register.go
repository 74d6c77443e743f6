package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/internal/session"
	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

type registerField int

const (
	fieldRegEmail registerField = iota
	fieldRegUsername
	fieldRegPassword
	fieldRegConfirm
	numRegFields
)

type registerResultMsg struct {
	seq int
	res *client.AuthResult
	err error
}

type registerModel struct {
	client *client.Client
	store  *session.Store
	fields [numRegFields]string
	focus  registerField
	state  flowState
	errMsg string
	seq    int
	width  int
	height int
}

func newRegisterModel(c *client.Client, store *session.Store) registerModel {
	return registerModel{client: c, store: store}
}

func (m registerModel) Init() tea.Cmd {
	return nil
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case registerResultMsg:
		if msg.seq != m.seq || m.state != flowSubmitting {
			return m, nil
		}
		m.fields[fieldRegPassword] = ""
		m.fields[fieldRegConfirm] = ""
		if msg.err != nil {
			m.state = flowFailed
			m.errMsg = client.UserMessage(msg.err)
			return m, nil
		}
		m.state = flowSucceeded
		m.errMsg = ""
		m.store.Login(msg.res.Token, msg.res.User)
		return m, nil

	case tea.KeyMsg:
		if m.state == flowSubmitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m registerModel) updateKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numRegFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numRegFields) % numRegFields
	case "enter":
		if m.focus == fieldRegConfirm {
			return m.submit()
		}
		m.focus = (m.focus + 1) % numRegFields
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		key := msg.String()
		if len(key) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

// submit validates locally first: a weak password or mismatched
// confirmation never reaches the network.
func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.state == flowSubmitting {
		return m, nil
	}
	email := strings.TrimSpace(m.fields[fieldRegEmail])
	username := strings.TrimSpace(m.fields[fieldRegUsername])
	password := m.fields[fieldRegPassword]
	confirm := m.fields[fieldRegConfirm]

	if email == "" {
		m.state = flowFailed
		m.errMsg = "email is required"
		return m, nil
	}
	if err := domain.ValidatePasswordConfirm(password, confirm); err != nil {
		m.state = flowFailed
		m.errMsg = err.Error()
		return m, nil
	}

	m.state = flowSubmitting
	m.errMsg = ""
	m.seq++
	seq := m.seq
	c := m.client

	return m, func() tea.Msg {
		res, err := c.Register(context.Background(), client.RegisterRequest{
			Email:    email,
			Password: password,
			Username: username,
		})
		return registerResultMsg{seq: seq, res: res, err: err}
	}
}

func (m registerModel) View() string {
	var b strings.Builder

	b.WriteString(selectedStyle.Render("Create account") + "\n\n")

	labels := [numRegFields]string{"email", "username (optional)", "password", "confirm password"}
	for i := registerField(0); i < numRegFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == fieldRegPassword || i == fieldRegConfirm {
			value = maskInput(value)
		}
		if i == m.focus && m.state != flowSubmitting {
			value += "█"
		}
		fmt.Fprintf(&b, "%s %s: %s\n", cursor, style.Render(labels[i]), value)
	}

	b.WriteString("\n")
	switch {
	case m.state == flowSubmitting:
		b.WriteString(dimStyle.Render(submittingLabel))
	case m.state == flowFailed && m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	default:
		b.WriteString(metaStyle.Render("enter to create your account"))
	}

	b.WriteString("\n\n" + dimStyle.Render("esc back to sign in"))
	return b.String()
}
