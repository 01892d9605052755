package tui

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// logoTickMsg advances the logo animation.
type logoTickMsg time.Time

func logoTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return logoTickMsg(t)
	})
}

// logoRamp runs from an unlit window to a fully lit one.
var logoRamp = []lipgloss.Color{"#1c2f4a", "#2b4a70", "#3f6b99", "#5a92c4", "#7cc4fa", "#b8e0ff"}

// renderLogo draws "E S T A T E" as a row of windows lighting up one after
// another, like a building at dusk. Each letter has its own period so the
// pattern drifts instead of looping visibly.
func renderLogo(frame int) string {
	const text = "ESTATE"
	var b strings.Builder
	for i := range len(text) {
		period := 23 + 7*i
		pos := (frame + i*11) % period
		lit := float64(pos) / float64(period)
		level := int(math.Round((0.5 + 0.5*math.Cos(lit*2*math.Pi)) * float64(len(logoRamp)-1)))
		level = min(max(level, 0), len(logoRamp)-1)
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(logoRamp[level]).Render(text[i : i+1]))
		if i < len(text)-1 {
			b.WriteString("  ")
		}
	}
	return b.String()
}

var (
	// Base styles
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1f5f9")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cbd5e1"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#526077"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#526077"))

	searchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7cc4fa")).
			Bold(true)

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#60a5fa"))

	positiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	surfaceColor = lipgloss.Color("#0f172a")

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e293b"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#64748b"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#60a5fa")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#334155"))

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#b45555")).
			Background(surfaceColor).
			Padding(1, 2)

	// Record status colors, keyed by the API's status values.
	statusColors = map[string]lipgloss.Color{
		"active":      lipgloss.Color("#4ade80"),
		"occupied":    lipgloss.Color("#4ade80"),
		"completed":   lipgloss.Color("#4ade80"),
		"available":   lipgloss.Color("#60a0e0"),
		"vacant":      lipgloss.Color("#60a0e0"),
		"pending":     lipgloss.Color("#fbbf24"),
		"open":        lipgloss.Color("#fbbf24"),
		"in_progress": lipgloss.Color("#f0944a"),
		"maintenance": lipgloss.Color("#f0944a"),
		"expired":     lipgloss.Color("#b45555"),
		"terminated":  lipgloss.Color("#b45555"),
		"cancelled":   lipgloss.Color("#b45555"),
		"inactive":    lipgloss.Color("#64748b"),
		"sold":        lipgloss.Color("#64748b"),
	}
)

// StatusStyle returns a style colored for a record status.
func StatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[strings.ToLower(status)]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
}

// priorityStyle returns a style for a maintenance priority.
func priorityStyle(priority string) lipgloss.Style {
	switch strings.ToLower(priority) {
	case "emergency":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#fff")).Background(lipgloss.Color("#b45555")).Bold(true)
	case "high":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#f87171")).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#fbbf24"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("#8891a5"))
	}
}

// trendStyle colors a percentage change. Rising expenses are bad news, so the
// caller says which direction is good.
func trendStyle(change float64, upIsGood bool) lipgloss.Style {
	switch {
	case change == 0:
		return dimStyle
	case (change > 0) == upIsGood:
		return positiveStyle
	default:
		return errorStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins help entries given as alternating key, label pairs.
func helpBar(pairs ...string) string {
	entries := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(entries, "  ")
}

// helpItem is a selectable link in the help overlay.
type helpItem struct {
	label string
	desc  string
	url   string
}

// helpLinks derives the backend pages reachable from the API root.
func helpLinks(apiBase string) []helpItem {
	items := []helpItem{{"API root", apiBase, apiBase}}
	u, err := url.Parse(apiBase)
	if err != nil || u.Host == "" {
		return items
	}
	site := u.Scheme + "://" + u.Host
	admin := site + "/admin/"
	items = append(items,
		helpItem{"Django admin", admin, admin},
		helpItem{"Web app", site, site},
	)
	return items
}

// helpView renders the interactive help overlay with a cursor.
func helpView(links []helpItem, cursor int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7cc4fa")).
		Bold(true).
		Render("E S T A T E")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Smart Property Manager, in your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)
	cursorStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7cc4fa"))
	linkDescStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	commands := []struct{ cmd, desc string }{
		{"estate", "Open the property manager"},
		{"estate login", "Sign in with email and password"},
		{"estate register", "Create an account"},
		{"estate logout", "Clear your session"},
		{"estate whoami", "Show the signed-in user"},
		{"estate --version", "Show version"},
	}
	keys := []struct{ cmd, desc string }{
		{"g", "Go to any page"},
		{"] / [", "Next / previous page"},
		{"1-9", "Jump to a page"},
		{"L", "Sign out"},
		{"q", "Quit"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, c := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Links (enter to open)"))
	for i, item := range links {
		label := cmdStyle.Render(fmt.Sprintf("%-20s", item.label))
		prefix := "    "
		if i == cursor {
			label = cursorStyle.Render(fmt.Sprintf("%-20s", item.label))
			prefix = "  > "
		}
		fmt.Fprintf(&b, "%s%s  %s\n", prefix, label, linkDescStyle.Render(item.desc))
	}
	return b.String()
}
