package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/internal/browser"
	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

// upgradeURL is the pricing page opened from the account screen.
const upgradeURL = "https://lumina.app/pricing"

type accountLoadedMsg struct {
	profile *domain.User
	sub     *domain.Subscription
	err     error
}

func (m accountLoadedMsg) authError() error { return m.err }

// signOutRequestMsg asks the app to clear the session.
type signOutRequestMsg struct{}

// accountModel shows the profile plus the read-only plan/usage snapshot.
// Both are refetched on entry; the snapshot is display-only here.
type accountModel struct {
	client  *client.Client
	profile *domain.User
	sub     *domain.Subscription
	loading bool
	errMsg  string
	width   int
	height  int
}

func newAccountModel(c *client.Client) accountModel {
	return accountModel{client: c}
}

func (m accountModel) Init() tea.Cmd {
	return m.load()
}

func (m accountModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		profile, err := c.GetProfile(context.Background())
		if err != nil {
			return accountLoadedMsg{err: err}
		}
		// Plan/usage is best-effort; the profile alone is still useful.
		sub, err := c.GetSubscription(context.Background())
		if err != nil {
			sub = nil
		}
		return accountLoadedMsg{profile: profile, sub: sub}
	}
}

func (m accountModel) Update(msg tea.Msg) (accountModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case accountLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = client.UserMessage(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.profile = msg.profile
		m.sub = msg.sub
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "u":
			url := upgradeURL
			return m, func() tea.Msg {
				browser.Open(url) //nolint:errcheck // best-effort browser open
				return nil
			}
		case "x":
			return m, func() tea.Msg { return signOutRequestMsg{} }
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m accountModel) View() string {
	var b strings.Builder

	b.WriteString(selectedStyle.Render("Account") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(dimStyle.Render("loading...") + "\n")
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	case m.profile != nil:
		p := m.profile
		fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("email"), normalStyle.Render(p.Email))
		if p.Username != "" {
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("username"), normalStyle.Render(p.Username))
		}
		verified := "no"
		if p.EmailVerified {
			verified = "yes"
		}
		fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("verified"), normalStyle.Render(verified))
		fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("tier"), planStyle.Render(p.SubscriptionTier))

		if m.sub != nil {
			b.WriteString("\n" + selectedStyle.Render("Plan") + "\n\n")
			fmt.Fprintf(&b, "  %s %s\n", metaStyle.Render("plan"), planStyle.Render(m.sub.Plan.DisplayName))
			fmt.Fprintf(&b, "  %s %d used, %d remaining this month\n",
				metaStyle.Render("usage"), m.sub.Usage.IdeasGenerated, m.sub.Usage.IdeasRemaining)
		}
	}

	b.WriteString("\n" + dimStyle.Render("u upgrade · r refresh · x sign out"))
	return truncateToHeight(b.String(), m.height)
}
