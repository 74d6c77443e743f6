package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aribellam/lumina/internal/session"
	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

func testUser() domain.User {
	return domain.User{ID: "u1", Email: "ada@example.com", Username: "ada", SubscriptionTier: "free"}
}

// hydrate drives the app past its startup phase with whatever session the
// store currently holds.
func hydrate(t *testing.T, a App) App {
	t.Helper()
	model, _ := a.Update(sessionHydratedMsg{state: a.store.Current()})
	return model.(App)
}

func TestAppShowsNeutralFrameWhileHydrating(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test")
	a.width, a.height = 80, 24

	view := a.View()
	if !strings.Contains(view, "restoring session...") {
		t.Errorf("hydrating view is not the neutral frame:\n%s", view)
	}
	if strings.Contains(view, "email") || strings.Contains(view, "Ideas") {
		t.Error("hydrating view leaked a real screen")
	}
}

func TestAppAnonymousStartLandsOnLogin(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test")
	a = hydrate(t, a)

	if a.view != viewLogin {
		t.Errorf("view = %d, want viewLogin", a.view)
	}
	if a.hydrating {
		t.Error("still hydrating after the session message")
	}
}

func TestAppRestoredSessionStaysOnHome(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", ""), store, "test")
	a = hydrate(t, a)

	if a.view != viewHome {
		t.Errorf("view = %d, want viewHome", a.view)
	}
}

func TestAppTokenSyncFollowsSession(t *testing.T) {
	store, _ := newTestStore(t)
	c := client.New("http://unused", "")

	NewApp(c, store, "test")

	store.Login("T", testUser())
	if c.Token() != "T" {
		t.Errorf("client token = %q after login, want %q", c.Token(), "T")
	}
	store.Logout()
	if c.Token() != "" {
		t.Errorf("client token = %q after logout, want empty", c.Token())
	}
}

func TestAppExpiredTokenAnywhereSignsOut(t *testing.T) {
	store, dir := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)
	if a.view != viewHome {
		t.Fatalf("view = %d, want viewHome", a.view)
	}

	model, _ := a.Update(ideasGeneratedMsg{seq: 1, err: &client.HTTPError{StatusCode: 401, Message: "expired"}})
	a = model.(App)

	if a.view != viewLogin {
		t.Errorf("view = %d, want viewLogin after expired token", a.view)
	}
	if a.store.Current().Authenticated() {
		t.Error("session survived the expired token")
	}
	// Durable copy gone too: a fresh store sees nothing.
	fresh := session.NewStore(session.NewFileStorage(dir), nil)
	if fresh.Hydrate().Authenticated() {
		t.Error("durable session survived the expired token")
	}
}

func TestAppNonAuthFailureKeepsSession(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)

	model, _ := a.Update(ideasGeneratedMsg{seq: 1, err: &client.HTTPError{StatusCode: 500, Message: "oops"}})
	a = model.(App)

	if a.view != viewHome {
		t.Errorf("view = %d, want viewHome after a server error", a.view)
	}
	if !a.store.Current().Authenticated() {
		t.Error("a non-auth failure cleared the session")
	}
}

func TestAppSignOutRequest(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)

	model, _ := a.Update(signOutRequestMsg{})
	a = model.(App)

	if a.view != viewLogin {
		t.Errorf("view = %d, want viewLogin", a.view)
	}
	if a.store.Current().Authenticated() {
		t.Error("sign-out left the session in place")
	}
}

func TestAppLateLoginResultAfterLeavingLoginDiscarded(t *testing.T) {
	store, _ := newTestStore(t)
	calls := 0
	srv := loginServer(t, &calls)
	defer srv.Close()

	a := NewApp(client.New(srv.URL, ""), store, "test")
	a = hydrate(t, a)
	if a.view != viewLogin {
		t.Fatalf("view = %d, want viewLogin", a.view)
	}

	a.login.fields[fieldLoginEmail] = "a@b.com"
	a.login.fields[fieldLoginPassword] = "Abcdef12"
	a.login.focus = fieldLoginPassword

	model, cmd := a.Update(tea.KeyMsg{Type: tea.KeyEnter})
	a = model.(App)
	if cmd == nil {
		t.Fatal("submit produced no command")
	}

	// The user leaves for the register form while the request is in
	// flight; the login screen is unmounted.
	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	a = model.(App)
	if a.view != viewRegister {
		t.Fatalf("view = %d, want viewRegister", a.view)
	}

	// The late result must be dropped: no session, no redirect.
	model, _ = a.Update(cmd())
	a = model.(App)
	if a.store.Current().Authenticated() {
		t.Error("late login result mutated the session store")
	}
	if a.view != viewRegister {
		t.Errorf("view = %d, want to stay on viewRegister", a.view)
	}
}

func TestAppLateForgotResultAfterLeavingDiscarded(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test")
	a = hydrate(t, a)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	a = model.(App)
	if a.view != viewForgot {
		t.Fatalf("view = %d, want viewForgot", a.view)
	}
	a.forgot.state = flowSubmitting
	a.forgot.seq = 1

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)

	model, _ = a.Update(forgotResultMsg{seq: 1, message: "Check your email."})
	a = model.(App)
	if a.forgot.state == flowSucceeded || a.forgot.statusMsg != "" {
		t.Error("late forgot result reached the unmounted form")
	}
}

func TestAppNavBetweenAuthViews(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test")
	a = hydrate(t, a)

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	a = model.(App)
	if a.view != viewRegister {
		t.Fatalf("view = %d, want viewRegister", a.view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.view != viewLogin {
		t.Fatalf("view = %d, want viewLogin", a.view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	a = model.(App)
	if a.view != viewForgot {
		t.Fatalf("view = %d, want viewForgot", a.view)
	}
}

func TestAppAuthViewsRedirectWhenSignedIn(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)

	a, _ = a.switchTo(viewLogin)
	if a.view != viewHome {
		t.Errorf("view = %d, want viewHome (signed-in users skip the auth screens)", a.view)
	}
}

func TestAppResetTokenSurvivesUntilRedirect(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test").WithResetToken("tok-123")
	a = hydrate(t, a)

	if a.view != viewReset {
		t.Fatalf("view = %d, want viewReset", a.view)
	}
	if a.reset.missingToken() {
		t.Fatal("reset model lost its token")
	}

	model, _ := a.Update(resetRedirectMsg{})
	a = model.(App)
	if a.view != viewLogin {
		t.Errorf("view = %d, want viewLogin after the redirect", a.view)
	}
}

func TestAppResetWithSessionLandsOnHome(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test").WithResetToken("tok-123")
	a = hydrate(t, a)

	if a.view != viewHome {
		t.Errorf("view = %d, want viewHome when a session already exists", a.view)
	}
}

func TestAppMissingTokenOffersForgotShortcut(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test").WithResetToken("")
	a = hydrate(t, a)
	if a.view != viewReset {
		t.Fatalf("view = %d, want viewReset", a.view)
	}

	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})
	a = model.(App)
	if a.view != viewForgot {
		t.Errorf("view = %d, want viewForgot via 'f'", a.view)
	}
}

func TestAppTabsOnlyWhenAuthed(t *testing.T) {
	store, _ := newTestStore(t)
	a := NewApp(client.New("http://unused", ""), store, "test")
	a.width, a.height = 80, 24
	a = hydrate(t, a)

	if strings.Contains(a.View(), "Account") {
		t.Error("tab bar rendered without a session")
	}

	store.Login("T", testUser())
	a, _ = a.switchTo(viewHome)
	view := a.View()
	if !strings.Contains(view, "Ideas") || !strings.Contains(view, "Account") {
		t.Errorf("tab bar missing for a signed-in user:\n%s", view)
	}
	if !strings.Contains(view, "ada") {
		t.Errorf("header missing the display name:\n%s", view)
	}
}

func TestAppNumberKeysSwitchTabs(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)

	a.home.inputFocused = false
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	a = model.(App)
	if a.view != viewAccount {
		t.Fatalf("view = %d, want viewAccount", a.view)
	}

	model, _ = a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	a = model.(App)
	if a.view != viewHome {
		t.Fatalf("view = %d, want viewHome", a.view)
	}
}

func TestAppTypingNeverTriggersNav(t *testing.T) {
	store, _ := newTestStore(t)
	store.Login("T", testUser())
	a := NewApp(client.New("http://unused", "T"), store, "test")
	a = hydrate(t, a)

	// The prompt has focus; "2" is text, not a tab switch.
	model, _ := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	a = model.(App)
	if a.view != viewHome {
		t.Errorf("view = %d, want viewHome while editing", a.view)
	}
	if a.home.prompt != "2" {
		t.Errorf("prompt = %q, want the typed character", a.home.prompt)
	}
}
