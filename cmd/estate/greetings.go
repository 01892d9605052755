package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/estate/pkg/domain"
)

var signedOutGreetings = [...]string{
	"The keys are on the hook. Yours is not among them.",
	"Rent is due on the first. Sign-ins are due now.",
	"Twelve units, forty tenants, zero of them waiting on you. Yet.",
	"A leaky faucet does not care that you are logged out.",
	"The ledger balances itself only in dreams.",
	"Every lease renewal starts with someone signing in.",
	"The maintenance queue grows quietly while you read this.",
	"Vacancies are expensive. So is forgetting your password.",
	"The lobby door is locked. Fortunately you know the code.",
	"Occupancy is a number. Go make it a better one.",
}

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7cc4fa")).Bold(true)
	quoteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cmdStyle   = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc66")).Bold(true)
)

func printHelp(out io.Writer) {
	title := titleStyle.Render("E S T A T E")
	tagline := quoteStyle.Render("Smart Property Manager, in your terminal.")

	commands := []struct{ cmd, desc string }{
		{"estate", "Open the property manager"},
		{"estate login", "Sign in with email and password"},
		{"estate register", "Create an account"},
		{"estate logout", "Clear the stored session"},
		{"estate whoami", "Show the signed-in user"},
		{"estate --version", "Show version"},
		{"estate help", "You are here"},
	}

	fmt.Fprintf(out, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(out, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), hintStyle.Render(c.desc))
	}
	fmt.Fprintf(out, "\n  %s\n\n", hintStyle.Render("Configure with ESTATE_API_URL, ESTATE_STORE and ESTATE_LOG_LEVEL, or a .env file."))
}

func printSignedOut(out io.Writer) {
	msg := signedOutGreetings[rand.IntN(len(signedOutGreetings))]
	fmt.Fprintf(out, "\n%s\n\n%s\n\n%s\n\n",
		titleStyle.Render("ESTATE"),
		quoteStyle.Render(msg),
		hintStyle.Render("Not signed in. To sign in: estate login"))
}

func printUser(out io.Writer, u *domain.User, superadmin bool) {
	name := u.DisplayName()
	if superadmin {
		name += " " + warnStyle.Render("superadmin")
	}
	fmt.Fprintf(out, "%s\n", cmdStyle.Render(name))
	fmt.Fprintf(out, "  %s %s\n", hintStyle.Render("email"), u.Email)
	if u.Username != "" {
		fmt.Fprintf(out, "  %s  %s\n", hintStyle.Render("user"), u.Username)
	}
	if role := u.RoleName(); role != "" {
		fmt.Fprintf(out, "  %s  %s\n", hintStyle.Render("role"), role)
	}

	var granted []string
	for _, p := range domain.Permissions {
		if superadmin || u.HasPermission(p) {
			granted = append(granted, strings.TrimPrefix(string(p), "can_"))
		}
	}
	if len(granted) > 0 {
		fmt.Fprintf(out, "  %s %s\n", hintStyle.Render("grants"), strings.Join(granted, ", "))
	}
}

// printExpiry shows how long the held access token remains valid.
func printExpiry(out io.Writer, exp, now time.Time) {
	left := exp.Sub(now).Round(time.Second)
	status := "expires in " + left.String()
	if left <= 0 {
		status = "expired " + (-left).String() + " ago"
	}
	fmt.Fprintf(out, "  %s %s\n", hintStyle.Render("token"), status)
}
