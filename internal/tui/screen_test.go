package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

type fakeSession struct {
	authed     bool
	superadmin bool
	user       *domain.User
	perms      map[domain.Permission]bool

	loginResult    session.Result
	registerResult session.Result
	logouts        int
}

func (f *fakeSession) IsAuthenticated() bool { return f.authed }
func (f *fakeSession) IsSuperadmin() bool    { return f.superadmin }

func (f *fakeSession) Login(context.Context, domain.Credentials) session.Result {
	if f.loginResult.Success {
		f.authed = true
	}
	return f.loginResult
}

func (f *fakeSession) Register(context.Context, domain.Registration) session.Result {
	if f.registerResult.Success {
		f.authed = true
	}
	return f.registerResult
}

func (f *fakeSession) Logout(context.Context) {
	f.logouts++
	f.authed = false
	f.superadmin = false
	f.user = nil
}

func (f *fakeSession) FetchUserProfile(context.Context) session.Result {
	return session.Result{Success: f.user != nil, User: f.user}
}

func (f *fakeSession) User() *domain.User { return f.user }

func (f *fakeSession) UserRole() string { return f.user.RoleName() }

func (f *fakeSession) HasPermission(p domain.Permission) bool { return f.perms[p] }

func signedIn(perms ...domain.Permission) *fakeSession {
	s := &fakeSession{
		authed: true,
		user:   &domain.User{ID: 7, Email: "pm@example.com", FirstName: "Pat", LastName: "Manager", IsActive: true},
		perms:  make(map[domain.Permission]bool),
	}
	for _, p := range perms {
		s.perms[p] = true
	}
	return s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return runes(s)
}

// typeText feeds s to a screen one rune at a time.
func typeText(s screen, text string) screen {
	for _, r := range text {
		s, _ = s.Update(runes(string(r)))
	}
	return s
}

// run executes cmd and returns its message, or nil.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestAllowed(t *testing.T) {
	if allowed(nil, domain.CanViewAnalytics) {
		t.Error("nil session should not be allowed anything")
	}
	s := signedIn(domain.CanViewAnalytics)
	if !allowed(s, domain.CanViewAnalytics) {
		t.Error("granted permission refused")
	}
	if allowed(s, domain.CanManageUsers) {
		t.Error("missing permission allowed")
	}
	s.superadmin = true
	if !allowed(s, domain.CanManageUsers) {
		t.Error("superadmin refused")
	}
}

func TestNavigateCmd(t *testing.T) {
	msg := run(navigate("/tenants"))
	nav, ok := msg.(navigateMsg)
	if !ok || nav.path != "/tenants" {
		t.Errorf("navigate produced %#v", msg)
	}
}

func TestEmptyScreen(t *testing.T) {
	var s screen = emptyScreen{}
	if s.Editing() {
		t.Error("empty screen should not capture keys")
	}
	if !strings.Contains(s.Help(), "quit") {
		t.Errorf("help = %q", s.Help())
	}
}

func TestFailure(t *testing.T) {
	httpErr := &client.HTTPError{StatusCode: 400, Message: "email: taken", Body: json.RawMessage(`{"email":["taken"]}`)}
	res := failure(fmt.Errorf("client.Register: %w", httpErr))
	if res.Success {
		t.Fatal("failure reported success")
	}
	if res.Error != "email: taken" {
		t.Errorf("Error = %q, want server message", res.Error)
	}
	if string(res.Details) != `{"email":["taken"]}` {
		t.Errorf("Details = %s", res.Details)
	}

	res = failure(errors.New("dial tcp: refused"))
	if res.Error != "dial tcp: refused" || res.Details != nil {
		t.Errorf("network failure = %+v", res)
	}
}

func TestAllowedTable(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"no session", nil, false},
		{"missing permission", &fakeSession{authed: true}, false},
		{"granted", &fakeSession{authed: true, perms: map[domain.Permission]bool{domain.CanManageUsers: true}}, true},
		{"superadmin without role", &fakeSession{authed: true, superadmin: true}, true},
	}
	for _, tt := range tests {
		if got := allowed(tt.s, domain.CanManageUsers); got != tt.want {
			t.Errorf("%s: allowed = %v, want %v", tt.name, got, tt.want)
		}
	}
}
