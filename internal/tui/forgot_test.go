package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aribellam/lumina/pkg/client"
)

const forgotServerMsg = "If that email is registered, a reset link is on its way."

func forgotServer(t *testing.T, calls *int, fail bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		*calls++
		if fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"error": "mail service unavailable"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": forgotServerMsg}) //nolint:errcheck
	}))
}

func TestForgotSuccessShowsServerMessageAndClearsInput(t *testing.T) {
	calls := 0
	srv := forgotServer(t, &calls, false)
	defer srv.Close()

	m := newForgotModel(client.New(srv.URL, ""))
	m.email = "a@b.com"

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	m, _ = m.Update(cmd())

	if m.state != flowSucceeded {
		t.Fatalf("state = %d, want flowSucceeded", m.state)
	}
	// The server's wording is shown verbatim: whether it reveals account
	// existence is the server's policy.
	if m.statusMsg != forgotServerMsg {
		t.Errorf("statusMsg = %q, want server message verbatim", m.statusMsg)
	}
	if m.email != "" {
		t.Errorf("email input = %q, want cleared on success", m.email)
	}
	if !strings.Contains(m.View(), forgotServerMsg) {
		t.Errorf("view does not show the message:\n%s", m.View())
	}
}

func TestForgotFailureKeepsInputForRetry(t *testing.T) {
	calls := 0
	srv := forgotServer(t, &calls, true)
	defer srv.Close()

	m := newForgotModel(client.New(srv.URL, ""))
	m.email = "a@b.com"

	m, cmd := m.submit()
	m, _ = m.Update(cmd())

	if m.state != flowFailed {
		t.Fatalf("state = %d, want flowFailed", m.state)
	}
	if m.errMsg != "mail service unavailable" {
		t.Errorf("errMsg = %q, want server message", m.errMsg)
	}
	if m.email != "a@b.com" {
		t.Errorf("email input = %q, want kept for retry", m.email)
	}

	// Retry is a fresh explicit submission, not automatic.
	m, cmd = m.submit()
	if cmd == nil {
		t.Fatal("retry submit returned no command")
	}
	cmd()
	if calls != 2 {
		t.Errorf("server saw %d calls, want 2", calls)
	}
}

func TestForgotEmptyEmailNeverReachesNetwork(t *testing.T) {
	calls := 0
	srv := forgotServer(t, &calls, false)
	defer srv.Close()

	m := newForgotModel(client.New(srv.URL, ""))
	m, cmd := m.submit()
	if cmd != nil || calls != 0 {
		t.Error("empty email produced a network call")
	}
	if m.state != flowFailed {
		t.Errorf("state = %d, want flowFailed", m.state)
	}
}

func TestForgotAtMostOneInFlight(t *testing.T) {
	calls := 0
	srv := forgotServer(t, &calls, false)
	defer srv.Close()

	m := newForgotModel(client.New(srv.URL, ""))
	m.email = "a@b.com"

	m, cmd1 := m.submit()
	_, cmd2 := m.submit()
	if cmd2 != nil {
		t.Error("second submit produced a command while Submitting")
	}
	cmd1()
	if calls != 1 {
		t.Errorf("server saw %d calls, want 1", calls)
	}
}
