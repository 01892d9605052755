package tui

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

type adminUsersMsg struct {
	page int
	data *domain.Page[domain.User]
	err  error
}

type adminStatsMsg struct {
	stats *domain.AdminUserStats
	err   error
}

// adminChangedMsg reports a write to one account. user is nil after a delete.
type adminChangedMsg struct {
	id     int64
	user   *domain.User
	action string
	err    error
}

type adminCreatedMsg struct {
	res session.Result
}

type adminMode int

const (
	adminList adminMode = iota
	adminSearch
	adminConfirmDelete
	adminCreate
)

// adminModel is the superadmin user-management screen.
type adminModel struct {
	client  *client.Client
	self    int64
	users   []domain.User
	count   int
	page    int
	hasNext bool
	cursor  int
	search  string
	mode    adminMode
	form    form
	stats   *domain.AdminUserStats
	loading bool
	err     string
	status  string
}

func newAdminModel(c *client.Client, s Session) adminModel {
	m := adminModel{client: c, page: 1, loading: true}
	if s != nil {
		if u := s.User(); u != nil {
			m.self = u.ID
		}
	}
	return m
}

func (m adminModel) Init() tea.Cmd {
	return tea.Batch(m.loadUsers(), m.loadStats())
}

func (m adminModel) loadUsers() tea.Cmd {
	c := m.client
	page := m.page
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if m.search != "" {
		params.Set("search", m.search)
	}
	return func() tea.Msg {
		data, err := c.ListAdminUsers(context.Background(), params)
		return adminUsersMsg{page: page, data: data, err: err}
	}
}

func (m adminModel) loadStats() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		stats, err := c.GetAdminUserStats(context.Background())
		return adminStatsMsg{stats: stats, err: err}
	}
}

func (m adminModel) selected() (domain.User, bool) {
	if m.cursor < 0 || m.cursor >= len(m.users) {
		return domain.User{}, false
	}
	return m.users[m.cursor], true
}

func (m adminModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adminUsersMsg:
		if msg.page != m.page {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.users = msg.data.Results
		m.count = msg.data.Count
		m.hasNext = msg.data.Next != ""
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil

	case adminStatsMsg:
		if msg.err == nil {
			m.stats = msg.stats
		}
		return m, nil

	case adminChangedMsg:
		if msg.err != nil {
			m.status = msg.action + " failed: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.action
		if msg.user == nil {
			m.loading = true
			return m, tea.Batch(m.loadUsers(), m.loadStats())
		}
		for i := range m.users {
			if m.users[i].ID == msg.id {
				m.users[i] = *msg.user
			}
		}
		return m, m.loadStats()

	case adminCreatedMsg:
		if !msg.res.Success {
			m.form = m.form.fail(msg.res.Error, msg.res.Details)
			return m, nil
		}
		m.mode = adminList
		m.status = "user created"
		m.loading = true
		return m, tea.Batch(m.loadUsers(), m.loadStats())

	case tea.KeyMsg:
		m.status = ""
		switch m.mode {
		case adminSearch:
			return m.updateSearch(msg)
		case adminConfirmDelete:
			return m.updateConfirm(msg)
		case adminCreate:
			return m.updateCreate(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m adminModel) updateSearch(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.mode = adminList
		m.page = 1
		m.cursor = 0
		m.loading = true
		return m, m.loadUsers()
	case "esc":
		m.mode = adminList
		m.search = ""
		m.page = 1
		m.loading = true
		return m, m.loadUsers()
	default:
		m.search = editKey(m.search, msg)
	}
	return m, nil
}

func (m adminModel) updateConfirm(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	m.mode = adminList
	u, ok := m.selected()
	if msg.String() != "y" || !ok {
		m.status = "delete cancelled"
		return m, nil
	}
	c := m.client
	return m, func() tea.Msg {
		err := c.DeleteAdminUser(context.Background(), u.ID)
		return adminChangedMsg{id: u.ID, action: "deleted " + u.Email, err: err}
	}
}

func (m adminModel) updateCreate(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.mode = adminList
		return m, nil
	}
	var submit bool
	m.form, submit = m.form.update(msg)
	if !submit {
		return m, nil
	}
	in := domain.AdminUserInput{
		Email:     m.form.value("email"),
		Username:  m.form.value("username"),
		FirstName: m.form.value("first_name"),
		LastName:  m.form.value("last_name"),
		Password:  m.form.raw("password"),
	}
	m.form.busy = true
	c := m.client
	return m, func() tea.Msg {
		if _, err := c.CreateAdminUser(context.Background(), in); err != nil {
			return adminCreatedMsg{res: failure(err)}
		}
		return adminCreatedMsg{res: session.Result{Success: true}}
	}
}

func (m adminModel) updateList(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	c := m.client
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "n":
		if m.hasNext {
			m.page++
			m.cursor = 0
			m.loading = true
			return m, m.loadUsers()
		}
	case "left", "p":
		if m.page > 1 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.loadUsers()
		}
	case "/":
		m.mode = adminSearch
		m.search = ""
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadUsers(), m.loadStats())
	case "N":
		m.mode = adminCreate
		m.form = newForm(
			formField{key: "email", label: "Email"},
			formField{key: "username", label: "Username"},
			formField{key: "first_name", label: "First name"},
			formField{key: "last_name", label: "Last name"},
			formField{key: "password", label: "Password", secret: true},
		)
	case "c":
		if u, ok := m.selected(); ok {
			email := u.Email
			return m, func() tea.Msg {
				if err := clipboard.WriteAll(email); err != nil {
					return adminChangedMsg{action: "copy", err: err}
				}
				return adminChangedMsg{id: u.ID, user: &u, action: "copied " + email}
			}
		}
	case "s":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if u.ID == m.self {
			m.status = "you cannot change your own superadmin status"
			return m, nil
		}
		return m, func() tea.Msg {
			updated, err := c.ToggleSuperadmin(context.Background(), u.ID)
			if err == nil && updated == nil {
				updated = &u
			}
			return adminChangedMsg{id: u.ID, user: updated, action: "superadmin toggled for " + u.Email, err: err}
		}
	case "a":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if u.ID == m.self {
			m.status = "you cannot deactivate yourself"
			return m, nil
		}
		active := !u.IsActive
		return m, func() tea.Msg {
			updated, err := c.UpdateAdminUser(context.Background(), u.ID, domain.AdminUserInput{IsActive: &active})
			action := "deactivated " + u.Email
			if active {
				action = "activated " + u.Email
			}
			return adminChangedMsg{id: u.ID, user: updated, action: action, err: err}
		}
	case "x":
		u, ok := m.selected()
		if !ok {
			return m, nil
		}
		if u.ID == m.self {
			m.status = "you cannot delete yourself"
			return m, nil
		}
		m.mode = adminConfirmDelete
	}
	return m, nil
}

func (m adminModel) View() string {
	var b strings.Builder
	header := selectedStyle.Render("User management") + "  " + metaStyle.Render(fmt.Sprintf("%d users · page %d", m.count, m.page))
	if m.loading {
		header += "  " + dimStyle.Render("loading...")
	}
	b.WriteString("\n  " + header + "\n")

	if s := m.stats; s != nil {
		fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
			stat("active", fmt.Sprint(s.ActiveUsers)),
			stat("inactive", fmt.Sprint(s.InactiveUsers)),
			stat("superadmins", fmt.Sprint(s.SuperadminCount)),
			dimStyle.Render(formatRoleCounts(s.UsersByRole)))
	}

	if m.mode == adminCreate {
		b.WriteString("\n  " + sectionHeaderStyle.Render("── NEW USER ──") + "\n")
		b.WriteString(m.form.View())
		return b.String()
	}

	switch {
	case m.mode == adminSearch:
		b.WriteString("  " + searchStyle.Render("/") + " " + m.search + accentStyle.Render("█") + "\n")
	case m.search != "":
		b.WriteString("  " + dimStyle.Render("search: ") + searchStyle.Render(m.search) + "\n")
	default:
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n  " + errorStyle.Render(m.err) + "\n")
		return b.String()
	}
	if len(m.users) == 0 && !m.loading {
		b.WriteString("  " + dimStyle.Render("no users found") + "\n")
	}
	for i, u := range m.users {
		cursor := "  "
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
		}
		flags := ""
		if u.Elevated() {
			flags += warnStyle.Render(" superadmin")
		}
		if !u.IsActive {
			flags += errorStyle.Render(" inactive")
		}
		if u.ID == m.self {
			flags += accentStyle.Render(" (you)")
		}
		line := fmt.Sprintf("%-30s %-22s %-18s", truncStr(u.Email, 30), truncStr(u.DisplayName(), 22), u.RoleName())
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString("  " + cursor + line + flags + "\n")
	}

	switch {
	case m.mode == adminConfirmDelete:
		if u, ok := m.selected(); ok {
			b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf("delete %s? y to confirm", u.Email)) + "\n")
		}
	case m.status != "":
		b.WriteString("\n  " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func formatRoleCounts(byRole map[string]int) string {
	roles := make([]string, 0, len(byRole))
	for r := range byRole {
		roles = append(roles, r)
	}
	sort.Strings(roles)
	parts := make([]string, 0, len(roles))
	for _, r := range roles {
		parts = append(parts, fmt.Sprintf("%s %d", r, byRole[r]))
	}
	return strings.Join(parts, ", ")
}

func (m adminModel) Help() string {
	switch m.mode {
	case adminSearch:
		return helpBar("enter", "search", "esc", "clear")
	case adminConfirmDelete:
		return helpBar("y", "delete", "any", "cancel")
	case adminCreate:
		return helpBar("tab", "next", "ctrl+s", "create", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "/", "search", "N", "new", "s", "superadmin", "a", "active", "x", "delete", "c", "copy email", "r", "refresh")
}

func (m adminModel) Editing() bool { return m.mode != adminList }
