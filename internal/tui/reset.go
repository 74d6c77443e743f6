package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

// resetRedirectDelay is how long the success message stays on screen
// before the app switches back to the sign-in view. Not cancelable.
const resetRedirectDelay = 3 * time.Second

type resetField int

const (
	fieldResetPassword resetField = iota
	fieldResetConfirm
	numResetFields
)

type resetResultMsg struct {
	seq     int
	message string
	err     error
}

// resetRedirectMsg fires after resetRedirectDelay; the app reacts by
// switching to the sign-in view.
type resetRedirectMsg struct{}

// resetModel redeems a reset token for a new password. The token comes
// from the invocation context (the emailed link's token pasted into
// `lumina reset-password <token>`); without one the flow starts failed
// and offers no submit path, only the way back to the forgot flow.
type resetModel struct {
	client    *client.Client
	token     string
	fields    [numResetFields]string
	focus     resetField
	state     flowState
	errMsg    string
	statusMsg string
	seq       int
	width     int
	height    int
}

func newResetModel(c *client.Client, token string) resetModel {
	m := resetModel{client: c, token: strings.TrimSpace(token)}
	if m.token == "" {
		m.state = flowFailed
		m.errMsg = "missing reset token"
	}
	return m
}

// missingToken reports whether the flow has no token and therefore no
// submit path.
func (m resetModel) missingToken() bool {
	return m.token == ""
}

func (m resetModel) Init() tea.Cmd {
	return nil
}

func (m resetModel) Update(msg tea.Msg) (resetModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resetResultMsg:
		if msg.seq != m.seq || m.state != flowSubmitting {
			return m, nil
		}
		m.fields[fieldResetPassword] = ""
		m.fields[fieldResetConfirm] = ""
		if msg.err != nil {
			// Stay on the form; retry is a fresh submission.
			m.state = flowFailed
			m.errMsg = client.UserMessage(msg.err)
			return m, nil
		}
		m.state = flowSucceeded
		m.statusMsg = msg.message
		return m, tea.Tick(resetRedirectDelay, func(time.Time) tea.Msg {
			return resetRedirectMsg{}
		})

	case tea.KeyMsg:
		if m.missingToken() || m.state == flowSubmitting || m.state == flowSucceeded {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m resetModel) updateKeys(msg tea.KeyMsg) (resetModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numResetFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numResetFields) % numResetFields
	case "enter":
		if m.focus == fieldResetConfirm {
			return m.submit()
		}
		m.focus = (m.focus + 1) % numResetFields
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		if key := msg.String(); len(key) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

func (m resetModel) submit() (resetModel, tea.Cmd) {
	if m.missingToken() || m.state == flowSubmitting {
		return m, nil
	}
	if err := domain.ValidatePasswordConfirm(m.fields[fieldResetPassword], m.fields[fieldResetConfirm]); err != nil {
		m.state = flowFailed
		m.errMsg = err.Error()
		return m, nil
	}

	m.state = flowSubmitting
	m.errMsg = ""
	m.seq++
	seq := m.seq
	c := m.client
	token := m.token
	password := m.fields[fieldResetPassword]

	return m, func() tea.Msg {
		message, err := c.ResetPassword(context.Background(), token, password)
		return resetResultMsg{seq: seq, message: message, err: err}
	}
}

func (m resetModel) View() string {
	var b strings.Builder

	b.WriteString(selectedStyle.Render("Reset password") + "\n\n")

	if m.missingToken() {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n\n")
		b.WriteString(normalStyle.Render("This screen needs the token from your reset email.") + "\n")
		b.WriteString(normalStyle.Render("Run 'lumina reset-password <token>' or request a new link.") + "\n\n")
		b.WriteString(dimStyle.Render("f request new link · esc back to sign in"))
		return b.String()
	}

	if m.state == flowSucceeded {
		b.WriteString(successStyle.Render(m.statusMsg) + "\n\n")
		b.WriteString(dimStyle.Render("returning to sign in..."))
		return b.String()
	}

	labels := [numResetFields]string{"new password", "confirm password"}
	for i := resetField(0); i < numResetFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}
		value := maskInput(m.fields[i])
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
		b.WriteString(metaStyle.Render("enter to set your new password"))
	}

	b.WriteString("\n\n" + dimStyle.Render("esc back to sign in"))
	return b.String()
}
