package tui

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/domain"
)

// loadedAdmin returns the admin screen for user 7 with itself listed first.
func loadedAdmin() screen {
	sess := signedIn()
	sess.superadmin = true
	var s screen = newAdminModel(nil, sess)
	s, _ = s.Update(adminUsersMsg{page: 1, data: &domain.Page[domain.User]{
		Count: 2,
		Next:  "http://localhost:8000/api/auth/admin/users/?page=2",
		Results: []domain.User{
			*sess.user,
			{ID: 9, Email: "tenant@example.com", FirstName: "Terry", IsActive: false},
		},
	}})
	s, _ = s.Update(adminStatsMsg{stats: &domain.AdminUserStats{
		ActiveUsers: 1, InactiveUsers: 1, SuperadminCount: 1,
		UsersByRole: map[string]int{"view_only": 1, "admin": 1},
	}})
	return s
}

func TestAdminView(t *testing.T) {
	view := loadedAdmin().View()
	for _, want := range []string{"User management", "2 users", "pm@example.com", "tenant@example.com", "(you)", "inactive", "admin 1, view_only 1"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAdminStalePageIgnored(t *testing.T) {
	s := loadedAdmin()
	s, _ = s.Update(adminUsersMsg{page: 3, err: errors.New("late")})
	if strings.Contains(s.View(), "late") {
		t.Error("response for another page was applied")
	}
}

func TestAdminCannotChangeSelf(t *testing.T) {
	tests := map[string]string{
		"s": "you cannot change your own superadmin status",
		"a": "you cannot deactivate yourself",
		"x": "you cannot delete yourself",
	}
	for k, want := range tests {
		s, cmd := loadedAdmin().Update(runes(k))
		if cmd != nil {
			t.Errorf("%s on self issued a request", k)
		}
		if s.Editing() {
			t.Errorf("%s on self changed mode", k)
		}
		if !strings.Contains(s.View(), want) {
			t.Errorf("%s: view missing %q", k, want)
		}
	}
}

func TestAdminActionsOnOthers(t *testing.T) {
	for _, k := range []string{"s", "a"} {
		s := loadedAdmin()
		s, _ = s.Update(runes("j"))
		if _, cmd := s.Update(runes(k)); cmd == nil {
			t.Errorf("%s should issue a request", k)
		}
	}
}

func TestAdminConfirmDelete(t *testing.T) {
	s := loadedAdmin()
	s, _ = s.Update(runes("j"))
	s, _ = s.Update(runes("x"))
	if !s.Editing() || !strings.Contains(s.View(), "delete tenant@example.com? y to confirm") {
		t.Fatalf("expected confirmation:\n%s", s.View())
	}
	s, cmd := s.Update(runes("n"))
	if cmd != nil || !strings.Contains(s.View(), "delete cancelled") {
		t.Error("anything but y should cancel")
	}
	s, _ = s.Update(runes("x"))
	if _, cmd := s.Update(runes("y")); cmd == nil {
		t.Error("y should delete")
	}
}

func TestAdminChanged(t *testing.T) {
	s := loadedAdmin()
	updated := domain.User{ID: 9, Email: "tenant@example.com", IsActive: true, IsSuperadmin: true}
	s, cmd := s.Update(adminChangedMsg{id: 9, user: &updated, action: "superadmin toggled for tenant@example.com"})
	if cmd == nil {
		t.Error("a change should reload stats")
	}
	m := s.(adminModel)
	if !m.users[1].IsSuperadmin {
		t.Error("row not replaced")
	}
	if !strings.Contains(s.View(), "superadmin toggled") {
		t.Errorf("status missing:\n%s", s.View())
	}

	s, _ = s.Update(adminChangedMsg{id: 9, action: "deleted tenant@example.com"})
	if !s.(adminModel).loading {
		t.Error("delete should reload the list")
	}

	s, _ = s.Update(adminChangedMsg{id: 9, action: "deactivated tenant@example.com", err: errors.New("forbidden")})
	if !strings.Contains(s.View(), "deactivated tenant@example.com failed: forbidden") {
		t.Errorf("failure missing:\n%s", s.View())
	}
}

func TestAdminCreate(t *testing.T) {
	s := loadedAdmin()
	s, _ = s.Update(runes("N"))
	if !s.Editing() || !strings.Contains(s.View(), "NEW USER") {
		t.Fatalf("expected create form:\n%s", s.View())
	}
	s, _ = s.Update(runes("new@example.com"))
	s, cmd := s.Update(key("ctrl+s"))
	if cmd == nil {
		t.Fatal("ctrl+s should create")
	}

	details := json.RawMessage(`{"email":["user with this email already exists."],"non_field_errors":["Try again."]}`)
	s, _ = s.Update(adminCreatedMsg{res: session.Result{Error: "bad request", Details: details}})
	view := s.View()
	if !strings.Contains(view, "user with this email already exists.") || !strings.Contains(view, "Try again.") {
		t.Errorf("errors not shown:\n%s", view)
	}

	s, cmd = s.Update(adminCreatedMsg{res: session.Result{Success: true}})
	if s.Editing() || cmd == nil {
		t.Error("success should close the form and reload")
	}
	if !strings.Contains(s.View(), "user created") {
		t.Errorf("status missing:\n%s", s.View())
	}
}

func TestAdminSearch(t *testing.T) {
	s := loadedAdmin()
	s, _ = s.Update(runes("/"))
	s, _ = s.Update(runes("terry"))
	s, cmd := s.Update(key("enter"))
	if cmd == nil {
		t.Fatal("enter should search")
	}
	if !strings.Contains(s.View(), "search: terry") {
		t.Errorf("search not shown:\n%s", s.View())
	}
}

func TestFormatRoleCounts(t *testing.T) {
	if got := formatRoleCounts(nil); got != "" {
		t.Errorf("empty = %q", got)
	}
	if got := formatRoleCounts(map[string]int{"b": 2, "a": 1}); got != "a 1, b 2" {
		t.Errorf("got %q", got)
	}
}
