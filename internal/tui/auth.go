package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/internal/router"
	"github.com/naveenspark/estate/internal/session"
	"github.com/naveenspark/estate/pkg/domain"
)

type authResultMsg struct {
	res session.Result
}

type loginModel struct {
	session Session
	form    form
}

func newLoginModel(s Session) loginModel {
	return loginModel{
		session: s,
		form: newForm(
			formField{key: "email", label: "Email"},
			formField{key: "password", label: "Password", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if !msg.res.Success {
			m.form = m.form.fail(msg.res.Error, msg.res.Details)
			return m, nil
		}
		m.form = m.form.clear()
		return m, navigate(router.DashboardPath)

	case tea.KeyMsg:
		if msg.String() == "ctrl+n" {
			return m, navigate("/register")
		}
		var submit bool
		m.form, submit = m.form.update(msg)
		if !submit {
			return m, nil
		}
		creds := domain.Credentials{Email: m.form.value("email"), Password: m.form.raw("password")}
		if creds.Email == "" || creds.Password == "" {
			m.form.message = "Email and password are required."
			return m, nil
		}
		m.form.busy = true
		s := m.session
		return m, func() tea.Msg {
			return authResultMsg{res: s.Login(context.Background(), creds)}
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	return "\n  " + selectedStyle.Render("Sign in") + "\n\n" + m.form.View()
}

func (m loginModel) Help() string {
	return helpBar("tab", "next", "enter", "sign in", "ctrl+n", "register", "ctrl+c", "quit")
}

func (m loginModel) Editing() bool { return true }

type registerModel struct {
	session Session
	form    form
}

func newRegisterModel(s Session) registerModel {
	return registerModel{
		session: s,
		form: newForm(
			formField{key: "email", label: "Email"},
			formField{key: "username", label: "Username"},
			formField{key: "first_name", label: "First name"},
			formField{key: "last_name", label: "Last name"},
			formField{key: "password", label: "Password", secret: true},
			formField{key: "password_confirm", label: "Confirm password", secret: true},
		),
	}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if !msg.res.Success {
			m.form = m.form.fail(msg.res.Error, msg.res.Details)
			return m, nil
		}
		m.form = m.form.clear()
		return m, navigate(router.DashboardPath)

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return m, navigate(router.LoginPath)
		}
		var submit bool
		m.form, submit = m.form.update(msg)
		if !submit {
			return m, nil
		}
		reg := domain.Registration{
			Email:           m.form.value("email"),
			Username:        m.form.value("username"),
			FirstName:       m.form.value("first_name"),
			LastName:        m.form.value("last_name"),
			Password:        m.form.raw("password"),
			PasswordConfirm: m.form.raw("password_confirm"),
		}
		if reg.Password != reg.PasswordConfirm {
			m.form.errs = map[string][]string{"password_confirm": {"Passwords do not match."}}
			return m, nil
		}
		m.form.busy = true
		s := m.session
		return m, func() tea.Msg {
			return authResultMsg{res: s.Register(context.Background(), reg)}
		}
	}
	return m, nil
}

func (m registerModel) View() string {
	return "\n  " + selectedStyle.Render("Create an account") + "\n\n" + m.form.View()
}

func (m registerModel) Help() string {
	return helpBar("tab", "next", "enter", "register", "esc", "sign in", "ctrl+c", "quit")
}

func (m registerModel) Editing() bool { return true }
