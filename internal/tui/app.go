package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aribellam/lumina/internal/session"
	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

// sessionHydratedMsg carries the session restored from durable storage.
type sessionHydratedMsg struct {
	state domain.Session
}

// errCarrier is implemented by result messages from protected API calls
// so the app can spot an expired token wherever it surfaces.
type errCarrier interface {
	authError() error
}

// App is the root Bubbletea model. It owns routing: every view switch and
// every session transition goes through the route guard.
type App struct {
	client  *client.Client
	store   *session.Store
	version string

	view      view
	hydrating bool

	login    loginModel
	register registerModel
	forgot   forgotModel
	reset    resetModel
	home     homeModel
	account  accountModel

	width  int
	height int
	frame  int // logo shimmer animation frame
}

// NewApp creates the TUI application. The store subscription keeps the
// transport's bearer token in step with the session for its whole life.
func NewApp(c *client.Client, store *session.Store, version string) App {
	store.Subscribe(func(s domain.Session) {
		if s.Authenticated() {
			c.SetToken(s.Token)
		} else {
			c.ClearToken()
		}
	})
	return App{
		client:    c,
		store:     store,
		version:   version,
		view:      viewHome,
		hydrating: true,
		login:     newLoginModel(c, store),
		register:  newRegisterModel(c, store),
		forgot:    newForgotModel(c),
		reset:     newResetModel(c, ""),
		home:      newHomeModel(c),
		account:   newAccountModel(c),
	}
}

// WithResetToken aims the app at the reset-password flow, carrying the
// token from the emailed link. The guard still applies: with a live
// session the app lands on Home instead.
func (a App) WithResetToken(token string) App {
	a.view = viewReset
	a.reset = newResetModel(a.client, token)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.hydrateCmd())
}

func (a App) hydrateCmd() tea.Cmd {
	store := a.store
	return func() tea.Msg {
		return sessionHydratedMsg{state: store.Hydrate()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.forgot, _ = a.forgot.Update(bodyMsg)
		a.reset, _ = a.reset.Update(bodyMsg)
		a.home, _ = a.home.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionHydratedMsg:
		a.hydrating = false
		target := a.view
		if d := decideRoute(msg.state, false, a.view); !d.allow {
			target = d.redirectTo
		}
		return a.switchTo(target)

	case signOutRequestMsg:
		a.store.Logout()
		return a.switchTo(viewLogin)

	case resetRedirectMsg:
		return a.switchTo(viewLogin)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.hydrating {
			return a, nil
		}
		if next, cmd, handled := a.handleNavKey(msg); handled {
			return next, cmd
		}
	}

	// An expired or revoked token anywhere is a logout: the only state
	// mutation not driven by an explicit user action.
	if ec, ok := msg.(errCarrier); ok && client.IsStatus(ec.authError(), 401) {
		a.store.Logout()
		return a.switchTo(viewLogin)
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loginResultMsg:
		a.login, cmd = a.login.Update(msg)
	case registerResultMsg:
		a.register, cmd = a.register.Update(msg)
	case forgotResultMsg:
		a.forgot, cmd = a.forgot.Update(msg)
	case resetResultMsg:
		a.reset, cmd = a.reset.Update(msg)
	case ideasGeneratedMsg, ideaCopyMsg:
		a.home, cmd = a.home.Update(msg)
	case accountLoadedMsg:
		a.account, cmd = a.account.Update(msg)
	default:
		switch a.view {
		case viewLogin:
			a.login, cmd = a.login.Update(msg)
		case viewRegister:
			a.register, cmd = a.register.Update(msg)
		case viewForgot:
			a.forgot, cmd = a.forgot.Update(msg)
		case viewReset:
			a.reset, cmd = a.reset.Update(msg)
		case viewHome:
			a.home, cmd = a.home.Update(msg)
		case viewAccount:
			a.account, cmd = a.account.Update(msg)
		}
	}

	// The guard reacts to whatever the update did to the session.
	next, gcmd := a.applyGuard()
	return next, tea.Batch(cmd, gcmd)
}

// handleNavKey processes app-level navigation. Auth flows use ctrl/esc
// combinations so plain characters stay available to the form fields.
func (a App) handleNavKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	key := msg.String()
	switch a.view {
	case viewLogin:
		switch key {
		case "ctrl+r":
			next, cmd := a.switchTo(viewRegister)
			return next, cmd, true
		case "ctrl+f":
			next, cmd := a.switchTo(viewForgot)
			return next, cmd, true
		}
	case viewRegister, viewForgot:
		if key == "esc" {
			next, cmd := a.switchTo(viewLogin)
			return next, cmd, true
		}
	case viewReset:
		if key == "esc" {
			next, cmd := a.switchTo(viewLogin)
			return next, cmd, true
		}
		if key == "f" && a.reset.missingToken() {
			next, cmd := a.switchTo(viewForgot)
			return next, cmd, true
		}
	default:
		if a.isEditing() {
			return a, nil, false
		}
		switch key {
		case "q":
			return a, tea.Quit, true
		case "1":
			if a.view != viewHome {
				next, cmd := a.switchTo(viewHome)
				return next, cmd, true
			}
			return a, nil, true
		case "2":
			if a.view != viewAccount {
				next, cmd := a.switchTo(viewAccount)
				return next, cmd, true
			}
			return a, nil, true
		}
	}
	return a, nil, false
}

// applyGuard redirects away from the current view if the session state no
// longer permits it.
func (a App) applyGuard() (App, tea.Cmd) {
	d := decideRoute(a.store.Current(), a.hydrating, a.view)
	if d.loading || d.allow {
		return a, nil
	}
	return a.switchTo(d.redirectTo)
}

// switchTo changes the active view and resets the models whose transient
// state must not survive the move: form credentials when leaving the auth
// flows, session-scoped data when entering them.
func (a App) switchTo(v view) (App, tea.Cmd) {
	if d := decideRoute(a.store.Current(), a.hydrating, v); !d.allow && !d.loading {
		v = d.redirectTo
	}

	// Leaving an auth flow unmounts it. A fresh model means a result still
	// in flight arrives with a stale seq and is dropped instead of mutating
	// a screen the user already left.
	if a.view != v {
		switch a.view {
		case viewLogin:
			a.login = newLoginModel(a.client, a.store)
		case viewRegister:
			a.register = newRegisterModel(a.client, a.store)
		case viewForgot:
			a.forgot = newForgotModel(a.client)
		case viewReset:
			a.reset = newResetModel(a.client, a.reset.token)
		}
	}
	a.view = v

	var cmd tea.Cmd
	switch v {
	case viewHome:
		a.login = newLoginModel(a.client, a.store)
		a.register = newRegisterModel(a.client, a.store)
		a.forgot = newForgotModel(a.client)
		a.reset = newResetModel(a.client, "")
		cmd = a.home.Init()
	case viewAccount:
		a.account = newAccountModel(a.client)
		cmd = a.account.Init()
	case viewLogin:
		a.home = newHomeModel(a.client)
		a.account = newAccountModel(a.client)
		a.login = newLoginModel(a.client, a.store)
		cmd = a.login.Init()
	case viewRegister:
		a.register = newRegisterModel(a.client, a.store)
		cmd = a.register.Init()
	case viewForgot:
		a.forgot = newForgotModel(a.client)
		cmd = a.forgot.Init()
	case viewReset:
		// Keep the token the model was built with.
		cmd = a.reset.Init()
	}

	if a.width > 0 {
		bodyMsg := tea.WindowSizeMsg{Width: a.width, Height: a.height - 4}
		a.login, _ = a.login.Update(bodyMsg)
		a.register, _ = a.register.Update(bodyMsg)
		a.forgot, _ = a.forgot.Update(bodyMsg)
		a.reset, _ = a.reset.Update(bodyMsg)
		a.home, _ = a.home.Update(bodyMsg)
		a.account, _ = a.account.Update(bodyMsg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	return a.view == viewHome && a.home.inputFocused
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	cur := a.store.Current()
	if !a.hydrating && cur.Authenticated() {
		who := metaStyle.Render(cur.User.DisplayName() + " · " + cur.User.SubscriptionTier)
		whoPad := (a.width - lipgloss.Width(who)) / 2
		if whoPad < 0 {
			whoPad = 0
		}
		header += "\n" + strings.Repeat(" ", whoPad) + who
	} else {
		header += "\n"
	}

	if a.hydrating {
		// Neutral frame while the stored session is restored; never a
		// flash through the sign-in screen on reload.
		loading := dimStyle.Render("restoring session...")
		pad := (a.width - lipgloss.Width(loading)) / 2
		if pad < 0 {
			pad = 0
		}
		return header + "\n\n" + strings.Repeat(" ", pad) + loading + "\n"
	}

	// Tab bar only makes sense with a session.
	tabBar := ""
	if cur.Authenticated() {
		type tabEntry struct {
			key  string
			name string
			v    view
		}
		tabs := []tabEntry{
			{"1", "Ideas", viewHome},
			{"2", "Account", viewAccount},
		}
		colWidth := a.width / len(tabs)
		var tb strings.Builder
		for _, t := range tabs {
			var label string
			if t.v == a.view {
				label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
			} else {
				label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
			}
			labelWidth := lipgloss.Width(label)
			leftPad := (colWidth - labelWidth) / 2
			if leftPad < 0 {
				leftPad = 0
			}
			rightPad := colWidth - labelWidth - leftPad
			if rightPad < 0 {
				rightPad = 0
			}
			tb.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
		}
		tabBar = tb.String()
	}

	var body string
	var help string
	switch a.view {
	case viewLogin:
		body = a.login.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "sign in") + "  " + helpEntry("ctrl+r", "register") + "  " + helpEntry("ctrl+f", "forgot") + "  " + helpEntry("ctrl+c", "quit")
	case viewRegister:
		body = a.register.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "sign in") + "  " + helpEntry("ctrl+c", "quit")
	case viewForgot:
		body = a.forgot.View()
		help = " " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "sign in") + "  " + helpEntry("ctrl+c", "quit")
	case viewReset:
		body = a.reset.View()
		if a.reset.missingToken() {
			help = " " + helpEntry("f", "request link") + "  " + helpEntry("esc", "sign in") + "  " + helpEntry("ctrl+c", "quit")
		} else {
			help = " " + helpEntry("tab", "next field") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "sign in")
		}
	case viewHome:
		body = a.home.View()
		if a.home.inputFocused {
			help = " " + helpEntry("enter", "generate") + "  " + helpEntry("esc", "browse")
		} else {
			help = " " + helpEntry("1-2", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("c", "copy") + "  " + helpEntry("i", "prompt") + "  " + helpEntry("q", "quit")
		}
	case viewAccount:
		body = a.account.View()
		help = " " + helpEntry("1-2", "tabs") + "  " + helpEntry("u", "upgrade") + "  " + helpEntry("r", "refresh") + "  " + helpEntry("x", "sign out") + "  " + helpEntry("q", "quit")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}
