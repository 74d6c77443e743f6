package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aribellam/lumina/pkg/client"
	"github.com/aribellam/lumina/pkg/domain"
)

func registerServer(t *testing.T, calls *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		var req client.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Email == "taken@b.com" {
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": "email already registered"}) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"access_token": "R",
			"user":         domain.User{ID: "9", Email: req.Email, Username: req.Username, IsActive: true},
		})
	}))
}

func TestRegisterSuccessSignsIn(t *testing.T) {
	calls := 0
	srv := registerServer(t, &calls)
	defer srv.Close()

	store, _ := newTestStore(t)
	m := newRegisterModel(client.New(srv.URL, ""), store)
	m.fields[fieldRegEmail] = "new@b.com"
	m.fields[fieldRegUsername] = "newbie"
	m.fields[fieldRegPassword] = "Abcdef12"
	m.fields[fieldRegConfirm] = "Abcdef12"

	m, cmd := m.submit()
	if cmd == nil {
		t.Fatal("submit returned no command")
	}
	m, _ = m.Update(cmd())

	if m.state != flowSucceeded {
		t.Fatalf("state = %d, want flowSucceeded (err %q)", m.state, m.errMsg)
	}
	cur := store.Current()
	if cur.Token != "R" || cur.User.ID != "9" {
		t.Errorf("store = %+v, want register result", cur)
	}
}

func TestRegisterWeakPasswordFailsFast(t *testing.T) {
	calls := 0
	srv := registerServer(t, &calls)
	defer srv.Close()

	store, _ := newTestStore(t)
	m := newRegisterModel(client.New(srv.URL, ""), store)
	m.fields[fieldRegEmail] = "new@b.com"
	m.fields[fieldRegPassword] = "short"
	m.fields[fieldRegConfirm] = "short"

	m, cmd := m.submit()
	if cmd != nil {
		t.Error("weak password reached the network")
	}
	if calls != 0 {
		t.Errorf("server saw %d calls, want 0", calls)
	}
	if m.state != flowFailed {
		t.Fatalf("state = %d, want flowFailed", m.state)
	}
	if !strings.Contains(m.errMsg, "8 characters") {
		t.Errorf("errMsg = %q, want the first failing policy reason", m.errMsg)
	}
}

func TestRegisterMismatchFailsFast(t *testing.T) {
	calls := 0
	srv := registerServer(t, &calls)
	defer srv.Close()

	store, _ := newTestStore(t)
	m := newRegisterModel(client.New(srv.URL, ""), store)
	m.fields[fieldRegEmail] = "new@b.com"
	m.fields[fieldRegPassword] = "Abcdef12"
	m.fields[fieldRegConfirm] = "Abcdef13"

	m, cmd := m.submit()
	if cmd != nil || calls != 0 {
		t.Error("mismatched confirmation reached the network")
	}
	if m.errMsg != domain.ErrPasswordsDontMatch.Error() {
		t.Errorf("errMsg = %q, want mismatch reason", m.errMsg)
	}
}

func TestRegisterServerRejectionSurfacesMessage(t *testing.T) {
	calls := 0
	srv := registerServer(t, &calls)
	defer srv.Close()

	store, _ := newTestStore(t)
	m := newRegisterModel(client.New(srv.URL, ""), store)
	m.fields[fieldRegEmail] = "taken@b.com"
	m.fields[fieldRegPassword] = "Abcdef12"
	m.fields[fieldRegConfirm] = "Abcdef12"

	m, cmd := m.submit()
	m, _ = m.Update(cmd())

	if m.state != flowFailed {
		t.Fatalf("state = %d, want flowFailed", m.state)
	}
	if m.errMsg != "email already registered" {
		t.Errorf("errMsg = %q, want server message verbatim", m.errMsg)
	}
	if store.Current().Authenticated() {
		t.Error("failed register mutated the store")
	}
	if m.fields[fieldRegPassword] != "" || m.fields[fieldRegConfirm] != "" {
		t.Error("passwords survived a failed submission")
	}
}

func TestRegisterAtMostOneInFlight(t *testing.T) {
	calls := 0
	srv := registerServer(t, &calls)
	defer srv.Close()

	store, _ := newTestStore(t)
	m := newRegisterModel(client.New(srv.URL, ""), store)
	m.fields[fieldRegEmail] = "new@b.com"
	m.fields[fieldRegPassword] = "Abcdef12"
	m.fields[fieldRegConfirm] = "Abcdef12"

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
