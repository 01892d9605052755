package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

// dashboardWindows are the reporting periods "d" cycles through, in days.
var dashboardWindows = []int{7, 30, 90, 365}

type dashboardLoadedMsg struct {
	days  int
	stats *domain.DashboardStatistics
	err   error
}

type dashboardModel struct {
	client  *client.Client
	window  int
	stats   *domain.DashboardStatistics
	loading bool
	err     string
	width   int
}

func newDashboardModel(c *client.Client) dashboardModel {
	return dashboardModel{client: c, window: 1, loading: true}
}

func (m dashboardModel) days() int { return dashboardWindows[m.window] }

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

func (m dashboardModel) load() tea.Cmd {
	c := m.client
	days := m.days()
	return func() tea.Msg {
		stats, err := c.GetDashboardStatistics(context.Background(), days)
		if err != nil {
			return dashboardLoadedMsg{days: days, err: fmt.Errorf("client.GetDashboardStatistics: %w", err)}
		}
		return dashboardLoadedMsg{days: days, stats: stats}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.days != m.days() {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			m.window = (m.window + 1) % len(dashboardWindows)
			m.loading = true
			return m, m.load()
		case "r":
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.err != "" {
		return "\n " + errorStyle.Render("dashboard error: "+m.err)
	}
	if m.stats == nil {
		return "\n " + dimStyle.Render("loading...")
	}
	s := m.stats
	var b strings.Builder

	period := fmt.Sprintf("Last %d days", m.days())
	if s.DateRange.StartDate != "" {
		period += fmt.Sprintf(" (%s to %s)", s.DateRange.StartDate, s.DateRange.EndDate)
	}
	b.WriteString("\n  " + selectedStyle.Render("Dashboard") + "  " + metaStyle.Render(period))
	if m.loading {
		b.WriteString("  " + dimStyle.Render("refreshing..."))
	}
	b.WriteString("\n\n")

	q := s.QuickStats
	tiles := []string{
		stat("properties", fmt.Sprint(q.TotalProperties)),
		stat("tenants", fmt.Sprint(q.TotalTenants)),
		stat("active leases", fmt.Sprint(q.ActiveLeases)),
		stat("monthly revenue", formatMoney(q.MonthlyRevenue)),
		stat("pending maintenance", fmt.Sprint(q.PendingMaintenance)),
		stat("unread", fmt.Sprint(q.UnreadNotifications)),
	}
	b.WriteString("  " + strings.Join(tiles, metaStyle.Render("  ·  ")) + "\n")

	p := s.PropertyStats
	b.WriteString("\n  " + sectionHeaderStyle.Render("── PORTFOLIO ──") + "\n")
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		stat("value", formatMoney(p.TotalValue)),
		stat("units", fmt.Sprintf("%d/%d", p.OccupiedUnits, p.TotalUnits)),
		stat("occupancy", fmt.Sprintf("%.1f%%", p.OccupancyPercentage)),
		stat("avg ROI", fmt.Sprintf("%.2f%%", p.AverageROI)))

	f := s.FinancialStats
	b.WriteString("\n  " + sectionHeaderStyle.Render("── FINANCIALS ──") + "\n")
	fmt.Fprintf(&b, "  %s %s  %s %s  %s\n",
		stat("revenue", formatMoney(f.TotalRevenue)),
		trendStyle(s.Trends.RevenueChange, true).Render(fmt.Sprintf("%+.1f%%", s.Trends.RevenueChange)),
		stat("expenses", formatMoney(f.TotalExpenses)),
		trendStyle(s.Trends.ExpenseChange, false).Render(fmt.Sprintf("%+.1f%%", s.Trends.ExpenseChange)),
		stat("net", formatMoney(f.NetIncome)))

	mt := s.MaintenanceStats
	l := s.LeaseStats
	b.WriteString("\n  " + sectionHeaderStyle.Render("── OPERATIONS ──") + "\n")
	fmt.Fprintf(&b, "  %s  %s  %s  %s\n",
		stat("open requests", fmt.Sprint(mt.Open)),
		stat("in progress", fmt.Sprint(mt.InProgress)),
		priorityStyle("high").Render(fmt.Sprintf("%d high", mt.HighPriority)),
		priorityStyle("emergency").Render(fmt.Sprintf("%d emergency", mt.Emergency)))
	fmt.Fprintf(&b, "  %s  %s  %s\n",
		stat("active leases", fmt.Sprint(l.ActiveLeases)),
		warnStyle.Render(fmt.Sprintf("%d expiring soon", l.ExpiringSoon)),
		StatusStyle("expired").Render(fmt.Sprintf("%d expired", l.Expired)))

	b.WriteString("\n  " + sectionHeaderStyle.Render("── RECENT ACTIVITY ──") + "\n")
	if len(s.RecentActivities) == 0 {
		b.WriteString("  " + dimStyle.Render("nothing yet") + "\n")
	}
	for i, a := range s.RecentActivities {
		if i == 8 {
			break
		}
		when := a.Timestamp
		if t, err := time.Parse(time.RFC3339, a.Timestamp); err == nil {
			when = formatTime(t)
		}
		title := truncStr(a.Title, max(20, m.width-40))
		fmt.Fprintf(&b, "  %s %s %s  %s\n",
			accentStyle.Render(fmt.Sprintf("%-12s", a.Type)),
			normalStyle.Render(title),
			dimStyle.Render(a.Action),
			metaStyle.Render(when))
	}
	return b.String()
}

func stat(label, value string) string {
	return selectedStyle.Render(value) + " " + dimStyle.Render(label)
}

func (m dashboardModel) Help() string {
	return helpBar("d", fmt.Sprintf("period (%dd)", m.days()), "r", "refresh", "g", "go to", "h", "help", "q", "quit")
}

func (m dashboardModel) Editing() bool { return false }
