package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

// analyticsCollections are the collections whose statistics the analytics
// screen shows, in display order.
var analyticsCollections = []client.Collection{
	client.Properties,
	client.Tenants,
	client.Leases,
	client.Maintenance,
}

type analyticsLoadedMsg struct {
	stats map[client.Collection]domain.Statistics
	err   error
}

type analyticsModel struct {
	client  *client.Client
	allowed bool
	stats   map[client.Collection]domain.Statistics
	loading bool
	err     string
}

func newAnalyticsModel(c *client.Client, s Session) analyticsModel {
	ok := allowed(s, domain.CanViewAnalytics)
	return analyticsModel{client: c, allowed: ok, loading: ok}
}

func (m analyticsModel) Init() tea.Cmd {
	if !m.allowed {
		return nil
	}
	return m.load()
}

// load fetches every collection's statistics concurrently.
func (m analyticsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		var mu sync.Mutex
		out := make(map[client.Collection]domain.Statistics, len(analyticsCollections))
		g, ctx := errgroup.WithContext(context.Background())
		for _, col := range analyticsCollections {
			g.Go(func() error {
				stats, err := c.CollectionStatistics(ctx, col)
				if err != nil {
					return fmt.Errorf("client.CollectionStatistics(%s): %w", col.Name(), err)
				}
				mu.Lock()
				out[col] = stats
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return analyticsLoadedMsg{err: err}
		}
		return analyticsLoadedMsg{stats: out}
	}
}

func (m analyticsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.stats = msg.stats
	case tea.KeyMsg:
		if msg.String() == "r" && m.allowed {
			m.loading = true
			return m, m.load()
		}
	}
	return m, nil
}

func (m analyticsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("Analytics") + "\n\n")
	switch {
	case !m.allowed:
		b.WriteString("  " + errorStyle.Render("You do not have permission to view analytics.") + "\n")
		return b.String()
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
		return b.String()
	case m.stats == nil:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	for _, col := range analyticsCollections {
		stats := m.stats[col]
		b.WriteString("  " + accentStyle.Render(humanize(col.Name())) + "\n")
		b.WriteString(strings.Replace(viewStatistics(stats), "  "+sectionHeaderStyle.Render("── STATISTICS ──")+"\n", "", 1))
		b.WriteString("\n")
	}
	return b.String()
}

func (m analyticsModel) Help() string {
	return helpBar("r", "refresh", "g", "go to", "h", "help", "q", "quit")
}

func (m analyticsModel) Editing() bool { return false }

// insight is one observation about the portfolio.
type insight struct {
	level  string // alert, warn, info or good
	title  string
	detail string
}

// occupancyTarget is the occupancy rate below which vacancies are flagged.
const occupancyTarget = 90.0

// deriveInsights turns dashboard statistics into recommendations, most
// urgent first.
func deriveInsights(s *domain.DashboardStatistics) []insight {
	if s == nil {
		return nil
	}
	var alerts, warns, infos, goods []insight

	if n := s.MaintenanceStats.Emergency; n > 0 {
		alerts = append(alerts, insight{"alert", fmt.Sprintf("%d emergency maintenance request(s)", n),
			"Dispatch a contractor now; emergencies carry liability risk."})
	}
	if s.FinancialStats.NetIncome < 0 {
		alerts = append(alerts, insight{"alert", "Portfolio is running at a loss",
			fmt.Sprintf("Net income is %s for the period. Review the largest expense categories.", formatMoney(s.FinancialStats.NetIncome))})
	}
	if n := s.LeaseStats.ExpiringSoon; n > 0 {
		warns = append(warns, insight{"warn", fmt.Sprintf("%d lease(s) expiring soon", n),
			"Start renewal conversations to avoid vacancies."})
	}
	if n := s.LeaseStats.Expired; n > 0 {
		warns = append(warns, insight{"warn", fmt.Sprintf("%d expired lease(s)", n),
			"Renew, convert to month-to-month or mark the units vacant."})
	}
	if n := s.MaintenanceStats.HighPriority; n > 0 {
		warns = append(warns, insight{"warn", fmt.Sprintf("%d high-priority maintenance request(s)", n),
			"Schedule these before they escalate."})
	}
	p := s.PropertyStats
	if p.TotalUnits > 0 && p.OccupancyPercentage < occupancyTarget {
		warns = append(warns, insight{"warn", fmt.Sprintf("Occupancy at %.1f%%", p.OccupancyPercentage),
			fmt.Sprintf("%d of %d units are vacant. Review pricing and listings.", p.TotalUnits-p.OccupiedUnits, p.TotalUnits)})
	}
	t := s.Trends
	if t.ExpenseChange > 0 && t.ExpenseChange > t.RevenueChange {
		warns = append(warns, insight{"warn", "Expenses are outpacing revenue",
			fmt.Sprintf("Expenses %+.1f%% against revenue %+.1f%%.", t.ExpenseChange, t.RevenueChange)})
	}
	if s.QuickStats.PendingMaintenance > 0 && s.MaintenanceStats.Emergency == 0 && s.MaintenanceStats.HighPriority == 0 {
		infos = append(infos, insight{"info", fmt.Sprintf("%d maintenance request(s) pending", s.QuickStats.PendingMaintenance),
			"No urgent items; batch them by property to save call-out fees."})
	}
	if t.RevenueChange > 0 {
		goods = append(goods, insight{"good", fmt.Sprintf("Revenue up %.1f%%", t.RevenueChange),
			"Compared with the previous period."})
	}
	if p.TotalUnits > 0 && p.OccupancyPercentage >= occupancyTarget {
		goods = append(goods, insight{"good", fmt.Sprintf("Occupancy at %.1f%%", p.OccupancyPercentage),
			"Above target."})
	}

	out := make([]insight, 0, len(alerts)+len(warns)+len(infos)+len(goods))
	out = append(out, alerts...)
	out = append(out, warns...)
	out = append(out, infos...)
	out = append(out, goods...)
	if len(out) == 0 {
		out = append(out, insight{"good", "Nothing needs attention", "The portfolio looks healthy for this period."})
	}
	return out
}

func insightMarker(level string) string {
	switch level {
	case "alert":
		return errorStyle.Render("!!")
	case "warn":
		return warnStyle.Render("! ")
	case "good":
		return positiveStyle.Render("+ ")
	default:
		return accentStyle.Render("i ")
	}
}

// insightsModel is the AI insights screen: recommendations derived from
// the dashboard statistics.
type insightsModel struct {
	dashboard dashboardModel
}

func newInsightsModel(c *client.Client) insightsModel {
	return insightsModel{dashboard: newDashboardModel(c)}
}

func (m insightsModel) Init() tea.Cmd { return m.dashboard.Init() }

func (m insightsModel) Update(msg tea.Msg) (screen, tea.Cmd) {
	next, cmd := m.dashboard.Update(msg)
	m.dashboard = next.(dashboardModel)
	return m, cmd
}

func (m insightsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + selectedStyle.Render("AI Insights") + "  " + metaStyle.Render(fmt.Sprintf("last %d days", m.dashboard.days())) + "\n\n")
	switch {
	case m.dashboard.err != "":
		b.WriteString("  " + errorStyle.Render(m.dashboard.err) + "\n")
		return b.String()
	case m.dashboard.stats == nil:
		b.WriteString("  " + dimStyle.Render("analysing...") + "\n")
		return b.String()
	}
	for _, in := range deriveInsights(m.dashboard.stats) {
		fmt.Fprintf(&b, "  %s %s\n     %s\n", insightMarker(in.level), selectedStyle.Render(in.title), dimStyle.Render(in.detail))
	}
	return b.String()
}

func (m insightsModel) Help() string {
	return helpBar("d", fmt.Sprintf("period (%dd)", m.dashboard.days()), "r", "refresh", "g", "go to", "q", "quit")
}

func (m insightsModel) Editing() bool { return false }
