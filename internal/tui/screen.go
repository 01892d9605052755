package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/router"
	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

// Session is the signed-in state the screens read and drive.
type Session interface {
	router.SessionState
	Login(ctx context.Context, creds domain.Credentials) session.Result
	Register(ctx context.Context, reg domain.Registration) session.Result
	Logout(ctx context.Context)
	FetchUserProfile(ctx context.Context) session.Result
	User() *domain.User
	UserRole() string
	HasPermission(p domain.Permission) bool
}

// screen is the body of one route.
type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (screen, tea.Cmd)
	View() string
	// Help renders the key bar shown under the screen.
	Help() string
	// Editing reports whether keys go to a text input rather than the app.
	Editing() bool
}

// navigateMsg asks the app to navigate to a path.
type navigateMsg struct {
	path string
}

func navigate(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// allowed reports whether the session may perform an action guarded by p.
// Superadmins may do anything.
func allowed(s Session, p domain.Permission) bool {
	if s == nil {
		return false
	}
	return s.IsSuperadmin() || s.HasPermission(p)
}

// failure converts a client error into a failed session.Result, keeping the
// server's message and payload when there is one.
func failure(err error) session.Result {
	msg := err.Error()
	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		msg = httpErr.Message
	}
	return session.Result{Error: msg, Details: client.ErrorBody(err)}
}

// emptyScreen renders nothing. It stands in before the first navigation.
type emptyScreen struct{}

func (emptyScreen) Init() tea.Cmd                      { return nil }
func (e emptyScreen) Update(tea.Msg) (screen, tea.Cmd) { return e, nil }
func (emptyScreen) View() string                       { return "" }
func (emptyScreen) Help() string                       { return helpBar("q", "quit") }
func (emptyScreen) Editing() bool                      { return false }
