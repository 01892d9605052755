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

type prefsSavedMsg struct {
	prefs *domain.NotificationPreferences
	err   error
}

type mfaToggledMsg struct {
	enabled bool
	err     error
}

type passwordChangedMsg struct {
	res session.Result
}

var preferenceLabels = []string{
	"Email notifications",
	"Lease reminders",
	"Maintenance alerts",
	"Payment notifications",
}

// settingsModel edits notification preferences, MFA and the password.
type settingsModel struct {
	client   *client.Client
	session  Session
	prefs    [4]bool
	dirty    bool
	mfa      bool
	cursor   int
	password bool
	form     form
	status   string
}

func newSettingsModel(c *client.Client, s Session) settingsModel {
	m := settingsModel{client: c, session: s}
	if s != nil {
		if u := s.User(); u != nil {
			m.prefs = [4]bool{u.EmailNotifications, u.LeaseReminders, u.MaintenanceAlerts, u.PaymentNotifications}
			m.mfa = u.MFAEnabled
		}
	}
	return m
}

func (m settingsModel) Init() tea.Cmd { return nil }

func (m settingsModel) preferences() domain.NotificationPreferences {
	return domain.NotificationPreferences{
		EmailNotifications:   m.prefs[0],
		LeaseReminders:       m.prefs[1],
		MaintenanceAlerts:    m.prefs[2],
		PaymentNotifications: m.prefs[3],
	}
}

// refreshUser reloads the profile so the session sees the new settings.
func refreshUser(s Session) {
	s.FetchUserProfile(context.Background())
}

func (m settingsModel) savePrefs() tea.Cmd {
	c := m.client
	s := m.session
	prefs := m.preferences()
	return func() tea.Msg {
		saved, err := c.UpdateNotificationPreferences(context.Background(), prefs)
		if err != nil {
			return prefsSavedMsg{err: fmt.Errorf("client.UpdateNotificationPreferences: %w", err)}
		}
		refreshUser(s)
		return prefsSavedMsg{prefs: saved}
	}
}

func (m settingsModel) toggleMFA() tea.Cmd {
	c := m.client
	s := m.session
	return func() tea.Msg {
		enabled, err := c.ToggleMFA(context.Background())
		if err != nil {
			return mfaToggledMsg{err: fmt.Errorf("client.ToggleMFA: %w", err)}
		}
		refreshUser(s)
		return mfaToggledMsg{enabled: enabled}
	}
}

func (m settingsModel) changePassword() tea.Cmd {
	c := m.client
	change := domain.PasswordChange{
		OldPassword:        m.form.raw("old_password"),
		NewPassword:        m.form.raw("new_password"),
		NewPasswordConfirm: m.form.raw("new_password_confirm"),
	}
	return func() tea.Msg {
		if err := c.ChangePassword(context.Background(), change); err != nil {
			return passwordChangedMsg{res: failure(err)}
		}
		return passwordChangedMsg{res: session.Result{Success: true}}
	}
}

func passwordForm() form {
	return newForm(
		formField{key: "old_password", label: "Current password", secret: true},
		formField{key: "new_password", label: "New password", secret: true},
		formField{key: "new_password_confirm", label: "Confirm new password", secret: true},
	)
}

func (m settingsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case prefsSavedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		p := msg.prefs
		m.prefs = [4]bool{p.EmailNotifications, p.LeaseReminders, p.MaintenanceAlerts, p.PaymentNotifications}
		m.dirty = false
		m.status = "preferences saved"
		return m, nil

	case mfaToggledMsg:
		if msg.err != nil {
			m.status = "MFA change failed: " + msg.err.Error()
			return m, nil
		}
		m.mfa = msg.enabled
		if m.mfa {
			m.status = "two-factor authentication enabled"
		} else {
			m.status = "two-factor authentication disabled"
		}
		return m, nil

	case passwordChangedMsg:
		if !msg.res.Success {
			m.form = m.form.fail(msg.res.Error, msg.res.Details)
			return m, nil
		}
		m.password = false
		m.status = "password changed"
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		if m.password {
			if msg.String() == "esc" {
				m.password = false
				return m, nil
			}
			var submit bool
			m.form, submit = m.form.update(msg)
			if !submit {
				return m, nil
			}
			if m.form.raw("new_password") != m.form.raw("new_password_confirm") {
				m.form.errs = map[string][]string{"new_password_confirm": {"Passwords do not match."}}
				return m, nil
			}
			m.form.busy = true
			return m, m.changePassword()
		}
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.prefs)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case " ", "x":
			m.prefs[m.cursor] = !m.prefs[m.cursor]
			m.dirty = true
		case "enter", "s":
			if m.dirty {
				return m, m.savePrefs()
			}
		case "m":
			return m, m.toggleMFA()
		case "p":
			m.password = true
			m.form = passwordForm()
		}
	}
	return m, nil
}

func (m settingsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("Account settings") + "\n\n")
	if m.password {
		b.WriteString("  " + sectionHeaderStyle.Render("── CHANGE PASSWORD ──") + "\n")
		b.WriteString(m.form.View())
		return b.String()
	}

	b.WriteString("  " + sectionHeaderStyle.Render("── NOTIFICATIONS ──") + "\n")
	for i, label := range preferenceLabels {
		cursor := "  "
		style := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			style = normalStyle.Bold(true)
		}
		box := metaStyle.Render("[ ]")
		if m.prefs[i] {
			box = positiveStyle.Render("[x]")
		}
		fmt.Fprintf(&b, "  %s%s %s\n", cursor, box, style.Render(label))
	}
	if m.dirty {
		b.WriteString("  " + warnStyle.Render("unsaved changes") + "\n")
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("── SECURITY ──") + "\n")
	mfa := errorStyle.Render("off")
	if m.mfa {
		mfa = positiveStyle.Render("on")
	}
	fmt.Fprintf(&b, "  %s %s\n", dimStyle.Render("Two-factor authentication"), mfa)

	if m.status != "" {
		b.WriteString("\n  " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m settingsModel) Help() string {
	if m.password {
		return helpBar("tab", "next", "ctrl+s", "change", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "space", "toggle", "enter", "save", "m", "MFA", "p", "password", "g", "go to", "q", "quit")
}

func (m settingsModel) Editing() bool { return m.password }
