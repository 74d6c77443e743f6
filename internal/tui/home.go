package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

// ideaCount is how many ideas one generation request asks for.
const ideaCount = 5

type ideasGeneratedMsg struct {
	seq   int
	ideas []domain.Idea
	err   error
}

func (m ideasGeneratedMsg) authError() error { return m.err }

type ideaCopyMsg struct{ err error }

// homeModel is the main protected screen: a prompt box plus the ideas the
// service generated for it.
type homeModel struct {
	client       *client.Client
	prompt       string
	inputFocused bool
	ideas        []domain.Idea
	cursor       int
	state        flowState
	errMsg       string
	statusMsg    string
	seq          int
	width        int
	height       int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, inputFocused: true}
}

func (m homeModel) Init() tea.Cmd {
	return nil
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ideasGeneratedMsg:
		if msg.seq != m.seq || m.state != flowSubmitting {
			return m, nil
		}
		if msg.err != nil {
			m.state = flowFailed
			m.errMsg = client.UserMessage(msg.err)
			return m, nil
		}
		m.state = flowSucceeded
		m.errMsg = ""
		m.ideas = msg.ideas
		m.cursor = 0
		m.prompt = ""
		return m, nil

	case ideaCopyMsg:
		if msg.err != nil {
			m.statusMsg = "copy failed"
		} else {
			m.statusMsg = "copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.inputFocused {
			return m.updateInputKeys(msg)
		}
		return m.updateListKeys(msg)
	}
	return m, nil
}

func (m homeModel) updateInputKeys(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.generate()
	case "esc":
		m.inputFocused = false
	case "backspace":
		m.prompt = editRune(m.prompt, "backspace")
	default:
		if key := msg.String(); len(key) == 1 {
			m.prompt = editRune(m.prompt, key)
		}
	}
	return m, nil
}

func (m homeModel) updateListKeys(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	switch msg.String() {
	case "i", "enter", "/":
		m.inputFocused = true
	case "j", "down":
		if m.cursor < len(m.ideas)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "c":
		if m.cursor < len(m.ideas) {
			idea := m.ideas[m.cursor]
			text := idea.Title
			if idea.Description != "" {
				text += "\n\n" + idea.Description
			}
			return m, func() tea.Msg {
				return ideaCopyMsg{err: clipboard.WriteAll(text)}
			}
		}
	}
	return m, nil
}

func (m homeModel) generate() (homeModel, tea.Cmd) {
	if m.state == flowSubmitting {
		return m, nil
	}
	prompt := strings.TrimSpace(m.prompt)
	if prompt == "" {
		m.errMsg = "describe what you need ideas for"
		m.state = flowFailed
		return m, nil
	}

	m.state = flowSubmitting
	m.errMsg = ""
	m.seq++
	seq := m.seq
	c := m.client

	return m, func() tea.Msg {
		ideas, err := c.GenerateIdeas(context.Background(), client.GenerateIdeasRequest{
			Prompt: prompt,
			Count:  ideaCount,
		})
		return ideasGeneratedMsg{seq: seq, ideas: ideas, err: err}
	}
}

func (m homeModel) View() string {
	var b strings.Builder

	prompt := m.prompt
	if m.inputFocused {
		prompt += "█"
	}
	if m.prompt == "" && !m.inputFocused {
		prompt = inputPlaceholderStyle.Render("what do you need ideas for?")
	}
	b.WriteString(" " + inputPromptStyle.Render("> ") + prompt + "\n\n")

	switch {
	case m.state == flowSubmitting:
		b.WriteString(dimStyle.Render("generating...") + "\n")
	case m.state == flowFailed && m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	case len(m.ideas) == 0:
		b.WriteString(metaStyle.Render("no ideas yet. type a prompt and press enter") + "\n")
	}

	for i, idea := range m.ideas {
		cursor := "  "
		if i == m.cursor && !m.inputFocused {
			cursor = accentStyle.Render("> ")
		}
		title := truncStr(cleanTitle(idea.Title), 70)
		line := cursor + ideaTitleStyle.Render(title)
		if idea.Category != "" {
			line += "  " + ideaCategoryStyle.Render(idea.Category)
		}
		line += "  " + metaStyle.Render(formatTime(idea.CreatedAt))
		b.WriteString(line + "\n")
		if i == m.cursor && !m.inputFocused && idea.Description != "" {
			descWidth := m.width - 8
			if descWidth < 10 {
				descWidth = 10
			}
			b.WriteString("    " + normalStyle.Render(truncStr(idea.Description, descWidth)) + "\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n" + successStyle.Render(m.statusMsg))
	}

	return truncateToHeight(b.String(), m.height)
}
