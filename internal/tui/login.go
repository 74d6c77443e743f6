package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/internal/session"
	"github.com/aribellam/lumina/pkg/client"
)

type loginField int

const (
	fieldLoginEmail loginField = iota
	fieldLoginPassword
	numLoginFields
)

// loginResultMsg carries the outcome of a login request. seq ties it to
// the submission that produced it; stale results are dropped.
type loginResultMsg struct {
	seq int
	res *client.AuthResult
	err error
}

type loginModel struct {
	client *client.Client
	store  *session.Store
	fields [numLoginFields]string
	focus  loginField
	state  flowState
	errMsg string
	seq    int
	width  int
	height int
}

func newLoginModel(c *client.Client, store *session.Store) loginModel {
	return loginModel{client: c, store: store}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loginResultMsg:
		if msg.seq != m.seq || m.state != flowSubmitting {
			// Result from a superseded form instance.
			return m, nil
		}
		// The password is transient either way.
		m.fields[fieldLoginPassword] = ""
		if msg.err != nil {
			m.state = flowFailed
			m.errMsg = client.UserMessage(msg.err)
			return m, nil
		}
		m.state = flowSucceeded
		m.errMsg = ""
		// The store change is what moves the app off this screen.
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

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == fieldLoginPassword {
			return m.submit()
		}
		m.focus = (m.focus + 1) % numLoginFields
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

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.state == flowSubmitting {
		return m, nil
	}
	email := strings.TrimSpace(m.fields[fieldLoginEmail])
	password := m.fields[fieldLoginPassword]
	if email == "" || password == "" {
		m.state = flowFailed
		m.errMsg = "email and password are required"
		return m, nil
	}

	m.state = flowSubmitting
	m.errMsg = ""
	m.seq++
	seq := m.seq
	c := m.client

	return m, func() tea.Msg {
		res, err := c.Login(context.Background(), client.LoginRequest{Email: email, Password: password})
		return loginResultMsg{seq: seq, res: res, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder

	b.WriteString(selectedStyle.Render("Sign in") + "\n\n")

	labels := [numLoginFields]string{"email", "password"}
	for i := loginField(0); i < numLoginFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := m.fields[i]
		if i == fieldLoginPassword {
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
		b.WriteString(metaStyle.Render("enter to sign in"))
	}

	b.WriteString("\n\n" + dimStyle.Render("ctrl+r create account · ctrl+f forgot password"))
	return b.String()
}
