package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog/log"

	"github.com/naveenspark/estate/internal/browser"
	"github.com/naveenspark/estate/internal/router"
	"github.com/naveenspark/estate/pkg/client"
)

// chrome is the number of lines around the body: header(2) + nav(1) +
// status(1) + help(1).
const chrome = 5

const sessionExpiredStatus = "Your session has expired. Please sign in again."

// forcedMsg carries a navigation the router performed on its own.
type forcedMsg struct {
	forced router.Forced
}

type loggedOutMsg struct{}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	session Session
	router  *router.Router
	route   router.Resolved
	screen  screen

	notice        string
	status        string
	helpOpen      bool
	helpCursor    int
	links         []helpItem
	paletteOpen   bool
	paletteCursor int

	width  int
	height int
	frame  int // logo animation frame
}

// NewApp creates the TUI and navigates to start. The guard decides what is
// actually shown.
func NewApp(c *client.Client, s Session, r *router.Router, start string) App {
	a := App{client: c, session: s, router: r, screen: emptyScreen{}}
	if c != nil {
		a.links = helpLinks(c.BaseURL())
	}
	a, _ = a.navigate(start)
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(logoTickCmd(), a.screen.Init(), waitForced(a.router))
}

// waitForced delivers the next forced navigation as a message.
func waitForced(r *router.Router) tea.Cmd {
	if r == nil {
		return nil
	}
	ch := r.ForcedNavigations()
	return func() tea.Msg {
		f, ok := <-ch
		if !ok {
			return nil
		}
		return forcedMsg{forced: f}
	}
}

// navigate runs the guard for path and shows whatever route it settles on.
// The screen's Init command is not returned during construction, so callers
// outside Update must call Init themselves.
func (a App) navigate(path string) (App, tea.Cmd) {
	d, err := a.router.Navigate(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("navigate")
		a.status = err.Error()
		return a, nil
	}
	a.notice = d.Notice
	a.status = ""
	return a.show(d.Route)
}

func (a App) show(route router.Resolved) (App, tea.Cmd) {
	a.route = route
	a.paletteOpen = false
	a.screen = a.newScreen(route.View)
	if a.width > 0 {
		a.screen, _ = a.screen.Update(a.bodySize())
	}
	return a, a.screen.Init()
}

func (a App) newScreen(v router.View) screen {
	c, s := a.client, a.session
	switch v {
	case router.ViewLogin:
		return newLoginModel(s)
	case router.ViewRegister:
		return newRegisterModel(s)
	case router.ViewDashboard:
		return newDashboardModel(c)
	case router.ViewProfile:
		return newProfileModel(c, s)
	case router.ViewAccountSettings:
		return newSettingsModel(c, s)
	case router.ViewProperties:
		return newPropertiesScreen(c, s)
	case router.ViewTenants:
		return newTenantsScreen(c, s)
	case router.ViewLeases:
		return newLeasesScreen(c, s)
	case router.ViewMaintenance:
		return newMaintenanceScreen(c, s)
	case router.ViewDocuments:
		return newDocumentsScreen(c, s)
	case router.ViewAnalytics:
		return newAnalyticsModel(c, s)
	case router.ViewAIInsights:
		return newInsightsModel(c)
	case router.ViewAdminUsers:
		return newAdminModel(c, s)
	}
	return emptyScreen{}
}

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chrome}
}

func (a App) logout() tea.Cmd {
	s := a.session
	return func() tea.Msg {
		s.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.screen, _ = a.screen.Update(a.bodySize())
		return a, nil

	case logoTickMsg:
		a.frame++
		return a, logoTickCmd()

	case navigateMsg:
		return a.navigate(msg.path)

	case forcedMsg:
		var cmd tea.Cmd
		a, cmd = a.show(msg.forced.Decision.Route)
		a.notice = ""
		a.status = sessionExpiredStatus
		return a, tea.Batch(cmd, waitForced(a.router))

	case loggedOutMsg:
		var cmd tea.Cmd
		a, cmd = a.navigate(router.LoginPath)
		a.status = "Signed out."
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.notice != "" {
			switch msg.String() {
			case "enter", "esc", " ":
				a.notice = ""
			}
			return a, nil
		}
		if a.helpOpen {
			return a.updateHelp(msg)
		}
		if a.paletteOpen {
			return a.updatePalette(msg)
		}
		if !a.screen.Editing() {
			if next, cmd, handled := a.globalKey(msg); handled {
				return next, cmd
			}
		}
	}

	var cmd tea.Cmd
	a.screen, cmd = a.screen.Update(msg)
	return a, cmd
}

// globalKey handles app-wide shortcuts. handled is false for keys that belong
// to the current screen.
func (a App) globalKey(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	key := msg.String()
	switch key {
	case "q":
		return a, tea.Quit, true
	case "h":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil, true
	}
	if !a.session.IsAuthenticated() {
		return a, nil, false
	}
	visible := a.router.Visible()
	switch key {
	case "g":
		a.paletteOpen = true
		a.paletteCursor = a.visibleIndex(visible)
		return a, nil, true
	case "]", "[":
		if len(visible) == 0 {
			return a, nil, true
		}
		i := a.visibleIndex(visible)
		if key == "]" {
			i = (i + 1) % len(visible)
		} else {
			i = (i - 1 + len(visible)) % len(visible)
		}
		next, cmd := a.navigate(visible[i].Path)
		return next, cmd, true
	case "L":
		return a, a.logout(), true
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		i := int(key[0] - '1')
		if i < len(visible) {
			next, cmd := a.navigate(visible[i].Path)
			return next, cmd, true
		}
		return a, nil, true
	}
	return a, nil, false
}

func (a App) visibleIndex(visible []router.Resolved) int {
	for i, r := range visible {
		if r.Path == a.route.Path {
			return i
		}
	}
	return 0
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "h", "esc":
		a.helpOpen = false
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.helpCursor < len(a.links)-1 {
			a.helpCursor++
		}
	case "k", "up":
		if a.helpCursor > 0 {
			a.helpCursor--
		}
	case "enter":
		if a.helpCursor < len(a.links) {
			if err := browser.Open(a.links[a.helpCursor].url); err != nil {
				a.status = err.Error()
			}
		}
	}
	return a, nil
}

func (a App) updatePalette(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := a.router.Visible()
	switch msg.String() {
	case "esc", "g":
		a.paletteOpen = false
	case "j", "down":
		if a.paletteCursor < len(visible)-1 {
			a.paletteCursor++
		}
	case "k", "up":
		if a.paletteCursor > 0 {
			a.paletteCursor--
		}
	case "enter":
		a.paletteOpen = false
		if a.paletteCursor < len(visible) {
			return a.navigate(visible[a.paletteCursor].Path)
		}
	}
	return a, nil
}

func (a App) View() string {
	logo := renderLogo(a.frame)
	header := center(logo, a.width) + "\n"
	if u := a.session.User(); u != nil && a.session.IsAuthenticated() {
		parts := []string{u.DisplayName()}
		if role := a.session.UserRole(); role != "" {
			parts = append(parts, role)
		}
		line := metaStyle.Render(strings.Join(parts, " · "))
		if a.session.IsSuperadmin() {
			line += " " + warnStyle.Render("superadmin")
		}
		header += center(line, a.width)
	}

	nav := ""
	if a.session.IsAuthenticated() {
		nav = a.navBar()
	}

	body := a.screen.View()
	help := a.screen.Help()
	switch {
	case a.notice != "":
		body = "\n" + noticeStyle.Render(errorStyle.Bold(true).Render("Access denied")+"\n\n"+normalStyle.Render(a.notice))
		help = helpBar("enter", "continue")
	case a.helpOpen:
		body = helpView(a.links, a.helpCursor)
		help = helpBar("j/k", "nav", "enter", "open", "esc", "close")
	case a.paletteOpen:
		body = a.paletteView()
		help = helpBar("j/k", "nav", "enter", "go", "esc", "close")
	}

	status := ""
	if a.status != "" {
		status = " " + warnStyle.Render(a.status)
	}

	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, nav, body, status, help)
}

func (a App) navBar() string {
	var parts []string
	for i, r := range a.router.Visible() {
		key := " "
		if i < 9 {
			key = fmt.Sprint(i + 1)
		}
		if r.Path == a.route.Path {
			parts = append(parts, accentStyle.Render(key)+" "+selectedStyle.Underline(true).Render(r.Name))
		} else {
			parts = append(parts, metaStyle.Render(key)+" "+dimStyle.Render(r.Name))
		}
	}
	bar := " " + strings.Join(parts, "  ")
	if a.width > 0 {
		bar = ansi.Truncate(bar, a.width, "…")
	}
	return bar
}

func (a App) paletteView() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("Go to") + "\n\n")
	for i, r := range a.router.Visible() {
		cursor := "  "
		name := dimStyle.Render(fmt.Sprintf("%-18s", r.Name))
		if i == a.paletteCursor {
			cursor = accentStyle.Render("▸") + " "
			name = selectedStyle.Render(fmt.Sprintf("%-18s", r.Name))
		}
		fmt.Fprintf(&b, "  %s%s %s\n", cursor, name, metaStyle.Render(r.Path))
	}
	return b.String()
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
