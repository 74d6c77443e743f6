package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/pkg/client"
)

type forgotResultMsg struct {
	seq     int
	message string
	err     error
}

// forgotModel asks for an email and forwards it to the reset-link
// endpoint. The server's success message is shown verbatim; whether it
// reveals that the address is registered is the server's call.
type forgotModel struct {
	client    *client.Client
	email     string
	state     flowState
	errMsg    string
	statusMsg string
	seq       int
	width     int
	height    int
}

func newForgotModel(c *client.Client) forgotModel {
	return forgotModel{client: c}
}

func (m forgotModel) Init() tea.Cmd {
	return nil
}

func (m forgotModel) Update(msg tea.Msg) (forgotModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case forgotResultMsg:
		if msg.seq != m.seq || m.state != flowSubmitting {
			return m, nil
		}
		if msg.err != nil {
			m.state = flowFailed
			m.errMsg = client.UserMessage(msg.err)
			// Keep the email so the user can retry.
			return m, nil
		}
		m.state = flowSucceeded
		m.statusMsg = msg.message
		m.email = ""
		return m, nil

	case tea.KeyMsg:
		if m.state == flowSubmitting {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "backspace":
			m.email = editRune(m.email, "backspace")
		default:
			if key := msg.String(); len(key) == 1 {
				m.email = editRune(m.email, key)
			}
		}
	}
	return m, nil
}

func (m forgotModel) submit() (forgotModel, tea.Cmd) {
	if m.state == flowSubmitting {
		return m, nil
	}
	email := strings.TrimSpace(m.email)
	if email == "" {
		m.state = flowFailed
		m.errMsg = "email is required"
		return m, nil
	}

	m.state = flowSubmitting
	m.errMsg = ""
	m.statusMsg = ""
	m.seq++
	seq := m.seq
	c := m.client

	return m, func() tea.Msg {
		message, err := c.ForgotPassword(context.Background(), email)
		return forgotResultMsg{seq: seq, message: message, err: err}
	}
}

func (m forgotModel) View() string {
	var b strings.Builder

	b.WriteString(selectedStyle.Render("Forgot password") + "\n\n")
	b.WriteString(normalStyle.Render("Enter your account email and we'll send a reset link.") + "\n\n")

	value := m.email
	if m.state != flowSubmitting {
		value += "█"
	}
	fmt.Fprintf(&b, "> %s: %s\n\n", selectedStyle.Render("email"), value)

	switch {
	case m.state == flowSubmitting:
		b.WriteString(dimStyle.Render(submittingLabel))
	case m.state == flowFailed && m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg))
	case m.state == flowSucceeded && m.statusMsg != "":
		b.WriteString(successStyle.Render(m.statusMsg))
	default:
		b.WriteString(metaStyle.Render("enter to request a reset link"))
	}

	b.WriteString("\n\n" + dimStyle.Render("esc back to sign in"))
	return b.String()
}
