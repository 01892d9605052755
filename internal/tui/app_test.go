package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/naveenspark/estate/internal/router"
)

func newTestApp(t *testing.T, sess *fakeSession, start string) (App, *router.Router) {
	t.Helper()
	r := router.New(sess, router.WithExpire(func() {
		sess.authed = false
		sess.superadmin = false
		sess.user = nil
	}))
	return NewApp(nil, sess, r, start), r
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestAppSignedOutStartsAtLogin(t *testing.T) {
	a, _ := newTestApp(t, &fakeSession{}, "/")
	if a.route.View != router.ViewLogin {
		t.Fatalf("route = %+v, want login", a.route)
	}
	view := a.View()
	if !strings.Contains(view, "Sign in") {
		t.Errorf("login not shown:\n%s", view)
	}
	if strings.Contains(view, "Dashboard") {
		t.Errorf("nav bar shown while signed out:\n%s", view)
	}
}

func TestAppSignedInStartsAtDashboard(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	if a.route.Path != router.DashboardPath {
		t.Fatalf("route = %q", a.route.Path)
	}
	view := a.View()
	for _, want := range []string{"Pat Manager", "Dashboard", "Documents"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "User Management") {
		t.Errorf("superadmin route visible to a regular user:\n%s", view)
	}
}

func TestAppGuestRouteRedirectsSignedInUser(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/login")
	if a.route.Path != router.DashboardPath {
		t.Errorf("route = %q, want dashboard", a.route.Path)
	}
}

func TestAppAccessDeniedNotice(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, navigateMsg{path: "/admin/users"})
	if a.route.Path != router.DashboardPath {
		t.Fatalf("route = %q, want dashboard", a.route.Path)
	}
	if !strings.Contains(a.View(), "Superadmin privileges are required") {
		t.Fatalf("notice not shown:\n%s", a.View())
	}

	a, _ = update(a, runes("4"))
	if a.notice == "" || a.route.Path != router.DashboardPath {
		t.Error("keys other than enter should not pass the notice")
	}
	a, _ = update(a, key("enter"))
	if a.notice != "" {
		t.Error("enter should dismiss the notice")
	}
}

func TestAppSuperadminReachesUserManagement(t *testing.T) {
	sess := signedIn()
	sess.superadmin = true
	a, _ := newTestApp(t, sess, "/admin/users")
	if a.route.View != router.ViewAdminUsers || a.notice != "" {
		t.Errorf("route = %+v notice = %q", a.route, a.notice)
	}
}

func TestAppDigitJump(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, cmd := update(a, runes("4"))
	if a.route.Path != "/properties" {
		t.Errorf("4 opened %q, want /properties", a.route.Path)
	}
	if cmd == nil {
		t.Error("new screen should start loading")
	}
	a, _ = update(a, runes("9"))
	if a.route.Path != "/ai-insights" {
		t.Errorf("9 opened %q", a.route.Path)
	}
}

func TestAppCycleRoutes(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, runes("]"))
	if a.route.Path != "/profile" {
		t.Errorf("] opened %q", a.route.Path)
	}
	a, _ = update(a, runes("["))
	a, _ = update(a, runes("["))
	if a.route.Path != "/documents" {
		t.Errorf("[ should wrap to the last route, got %q", a.route.Path)
	}
}

func TestAppPalette(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, runes("g"))
	if !a.paletteOpen || !strings.Contains(a.View(), "Go to") {
		t.Fatalf("palette not open:\n%s", a.View())
	}
	a, _ = update(a, runes("j"))
	a, _ = update(a, runes("j"))
	a, _ = update(a, key("enter"))
	if a.paletteOpen || a.route.Path != "/account-settings" {
		t.Errorf("palette went to %q", a.route.Path)
	}

	a, _ = update(a, runes("g"))
	a, _ = update(a, key("esc"))
	if a.paletteOpen {
		t.Error("esc should close the palette")
	}
}

func TestAppHelp(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, runes("h"))
	if !a.helpOpen || !strings.Contains(a.View(), "estate login") {
		t.Fatalf("help not shown:\n%s", a.View())
	}
	a, _ = update(a, key("esc"))
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppQuit(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	_, cmd := update(a, runes("q"))
	if _, ok := run(cmd).(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}

	// The login form captures q, but ctrl+c always quits.
	a, _ = newTestApp(t, &fakeSession{}, "/login")
	_, cmd = update(a, runes("q"))
	if _, ok := run(cmd).(tea.QuitMsg); ok {
		t.Error("q typed into the login form quit the app")
	}
	_, cmd = update(a, key("ctrl+c"))
	if _, ok := run(cmd).(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestAppGlobalKeysNeedSession(t *testing.T) {
	a, _ := newTestApp(t, &fakeSession{}, "/")
	a.screen = emptyScreen{}
	a, _ = update(a, runes("g"))
	if a.paletteOpen {
		t.Error("palette opened while signed out")
	}
}

func TestAppLogout(t *testing.T) {
	sess := signedIn()
	a, _ := newTestApp(t, sess, "/")
	a, cmd := update(a, runes("L"))
	msg := run(cmd)
	if _, ok := msg.(loggedOutMsg); !ok {
		t.Fatalf("L produced %#v", msg)
	}
	if sess.logouts != 1 {
		t.Errorf("logouts = %d", sess.logouts)
	}
	a, _ = update(a, msg)
	if a.route.View != router.ViewLogin {
		t.Errorf("route after logout = %+v", a.route)
	}
	if !strings.Contains(a.View(), "Signed out.") {
		t.Errorf("status missing:\n%s", a.View())
	}
}

func TestAppForcedNavigation(t *testing.T) {
	sess := signedIn()
	a, r := newTestApp(t, sess, "/tenants")
	r.RedirectToLogin(errors.New("refresh token expired"))

	msg := run(waitForced(r))
	forced, ok := msg.(forcedMsg)
	if !ok {
		t.Fatalf("waitForced produced %#v", msg)
	}
	if forced.forced.Decision.Route.View != router.ViewLogin {
		t.Fatalf("forced route = %+v", forced.forced.Decision.Route)
	}

	a, cmd := update(a, forced)
	if a.route.View != router.ViewLogin {
		t.Errorf("route = %+v", a.route)
	}
	if cmd == nil {
		t.Error("app should keep listening for forced navigations")
	}
	if !strings.Contains(a.View(), sessionExpiredStatus) {
		t.Errorf("expiry status missing:\n%s", a.View())
	}
}

func TestAppUnknownRoute(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, navigateMsg{path: "/nowhere"})
	if a.route.Path != router.DashboardPath {
		t.Errorf("route changed to %q", a.route.Path)
	}
	if !strings.Contains(a.status, "unknown route") {
		t.Errorf("status = %q", a.status)
	}
}

func TestAppWindowSize(t *testing.T) {
	a, _ := newTestApp(t, signedIn(), "/")
	a, _ = update(a, tea.WindowSizeMsg{Width: 40, Height: 20})
	for _, line := range strings.Split(a.navBar(), "\n") {
		if w := ansi.StringWidth(line); w > 40 {
			t.Errorf("nav bar wider than the window (%d): %q", w, line)
		}
	}
}
