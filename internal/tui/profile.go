package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

type profileResultMsg struct {
	res session.Result
}

type profileModel struct {
	client  *client.Client
	session Session
	user    *domain.User
	editing bool
	form    form
	status  string
	err     string
}

func newProfileModel(c *client.Client, s Session) profileModel {
	m := profileModel{client: c, session: s}
	if s != nil {
		m.user = s.User()
	}
	return m
}

func (m profileModel) Init() tea.Cmd { return m.fetch() }

func (m profileModel) fetch() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		return profileResultMsg{res: s.FetchUserProfile(context.Background())}
	}
}

// save sends the edited fields, then reloads the profile into the session.
func (m profileModel) save() tea.Cmd {
	c := m.client
	s := m.session
	upd := domain.ProfileUpdate{
		FirstName: ptr(m.form.value("first_name")),
		LastName:  ptr(m.form.value("last_name")),
		Phone:     ptr(m.form.value("phone")),
	}
	if dob := m.form.value("date_of_birth"); dob != "" {
		upd.DateOfBirth = &dob
	}
	return func() tea.Msg {
		if _, err := c.UpdateUserProfile(context.Background(), upd); err != nil {
			return profileResultMsg{res: failure(err)}
		}
		return profileResultMsg{res: s.FetchUserProfile(context.Background())}
	}
}

func (m profileModel) editForm() form {
	u := m.user
	if u == nil {
		u = &domain.User{}
	}
	return newForm(
		formField{key: "first_name", label: "First name", value: u.FirstName},
		formField{key: "last_name", label: "Last name", value: u.LastName},
		formField{key: "phone", label: "Phone", value: u.Phone},
		formField{key: "date_of_birth", label: "Date of birth", value: u.DateOfBirth},
	)
}

func (m profileModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case profileResultMsg:
		if !msg.res.Success {
			if m.editing {
				m.form = m.form.fail(msg.res.Error, msg.res.Details)
			} else {
				m.err = msg.res.Error
			}
			return m, nil
		}
		if m.editing {
			m.status = "profile saved"
		}
		m.editing = false
		m.err = ""
		m.user = msg.res.User
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.editing {
			if msg.String() == "esc" {
				m.editing = false
				return m, nil
			}
			var submit bool
			m.form, submit = m.form.update(msg)
			if submit {
				m.form.busy = true
				return m, m.save()
			}
			return m, nil
		}
		switch msg.String() {
		case "r":
			return m, m.fetch()
		case "e":
			m.editing = true
			m.form = m.editForm()
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("Profile") + "\n\n")
	if m.editing {
		b.WriteString(m.form.View())
		return b.String()
	}
	if m.err != "" {
		b.WriteString("  " + errorStyle.Render(m.err) + "\n\n")
	}
	u := m.user
	if u == nil {
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	row := func(label, value string) {
		if value == "" {
			value = metaStyle.Render("-")
		}
		fmt.Fprintf(&b, "  %s  %s\n", dimStyle.Render(fmt.Sprintf("%-14s", label)), normalStyle.Render(value))
	}
	row("Name", u.DisplayName())
	row("Email", u.Email)
	row("Username", u.Username)
	row("Phone", u.Phone)
	row("Date of birth", u.DateOfBirth)
	role := u.RoleName()
	if u.Elevated() {
		role = strings.TrimSpace(role + " " + warnStyle.Render("[superadmin]"))
	}
	row("Role", role)
	if u.DateJoined != nil {
		row("Joined", u.DateJoined.Format("2006-01-02"))
	}
	if u.LastLogin != nil {
		row("Last login", formatTime(*u.LastLogin))
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("── PERMISSIONS ──") + "\n")
	for _, p := range domain.Permissions {
		mark := errorStyle.Render("✗")
		if u.Elevated() || u.HasPermission(p) {
			mark = positiveStyle.Render("✓")
		}
		fmt.Fprintf(&b, "  %s %s\n", mark, normalStyle.Render(humanize(string(p))))
	}
	if m.status != "" {
		b.WriteString("\n  " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m profileModel) Help() string {
	if m.editing {
		return helpBar("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	return helpBar("e", "edit", "r", "refresh", "g", "go to", "h", "help", "q", "quit")
}

func (m profileModel) Editing() bool { return m.editing }

func ptr[T any](v T) *T { return &v }
