package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/domain"
)

type listLoadedMsg[T domain.Record] struct {
	col  client.Collection
	page int
	data *domain.Page[T]
	err  error
}

type statsLoadedMsg struct {
	col   client.Collection
	stats domain.Statistics
	err   error
}

type recordDeletedMsg struct {
	col client.Collection
	id  int64
	err error
}

type copyResultMsg struct {
	col client.Collection
	err error
}

// recordList is a paged, searchable view over one API collection.
type recordList[T domain.Record] struct {
	client    *client.Client
	col       client.Collection
	title     string
	row       func(T) string
	deletable bool

	items     []T
	count     int
	page      int
	hasNext   bool
	cursor    int
	search    string
	searching bool
	detail    bool
	confirm   bool
	showStats bool
	stats     domain.Statistics
	loading   bool
	err       string
	status    string
	width     int
	height    int
}

func newRecordList[T domain.Record](c *client.Client, col client.Collection, title string, row func(T) string) recordList[T] {
	if row == nil {
		row = func(item T) string { return item.Label() }
	}
	return recordList[T]{client: c, col: col, title: title, row: row, page: 1, loading: true}
}

func (m recordList[T]) load() tea.Cmd {
	c := m.client
	col := m.col
	page := m.page
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if m.search != "" {
		params.Set("search", m.search)
	}
	return func() tea.Msg {
		data, err := client.List[T](context.Background(), c, col, params)
		if err != nil {
			return listLoadedMsg[T]{col: col, page: page, err: fmt.Errorf("client.List(%s): %w", col.Name(), err)}
		}
		return listLoadedMsg[T]{col: col, page: page, data: data}
	}
}

func (m recordList[T]) loadStats() tea.Cmd {
	c := m.client
	col := m.col
	return func() tea.Msg {
		stats, err := c.CollectionStatistics(context.Background(), col)
		if err != nil {
			return statsLoadedMsg{col: col, err: fmt.Errorf("client.CollectionStatistics(%s): %w", col.Name(), err)}
		}
		return statsLoadedMsg{col: col, stats: stats}
	}
}

func (m recordList[T]) selected() (T, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor], true
}

// editing reports whether keys are captured by the search input or a prompt.
func (m recordList[T]) editing() bool {
	return m.searching || m.confirm
}

func (m recordList[T]) update(msg tea.Msg) (recordList[T], tea.Cmd) {
	switch msg := msg.(type) {
	case listLoadedMsg[T]:
		if msg.col != m.col || msg.page != m.page {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.err = ""
		m.items = msg.data.Results
		m.count = msg.data.Count
		m.hasNext = msg.data.Next != ""
		if m.cursor >= len(m.items) {
			m.cursor = 0
		}
		return m, nil

	case statsLoadedMsg:
		if msg.col != m.col {
			return m, nil
		}
		if msg.err != nil {
			m.status = "statistics failed: " + msg.err.Error()
			m.showStats = false
			return m, nil
		}
		m.stats = msg.stats
		return m, nil

	case recordDeletedMsg:
		if msg.col != m.col {
			return m, nil
		}
		if msg.err != nil {
			m.status = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("deleted #%d", msg.id)
		m.loading = true
		return m, m.load()

	case copyResultMsg:
		if msg.col != m.col {
			return m, nil
		}
		if msg.err != nil {
			m.status = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.status = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch {
		case m.searching:
			return m.updateSearch(msg)
		case m.confirm:
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m recordList[T]) updateSearch(msg tea.KeyMsg) (recordList[T], tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.page = 1
		m.cursor = 0
		m.loading = true
		return m, m.load()
	case "esc":
		m.searching = false
		m.search = ""
		m.page = 1
		m.loading = true
		return m, m.load()
	default:
		m.search = editKey(m.search, msg)
	}
	return m, nil
}

func (m recordList[T]) updateConfirm(msg tea.KeyMsg) (recordList[T], tea.Cmd) {
	m.confirm = false
	item, ok := m.selected()
	if msg.String() != "y" || !ok {
		m.status = "delete cancelled"
		return m, nil
	}
	c := m.client
	col := m.col
	id := item.RecordID()
	return m, func() tea.Msg {
		err := c.DeleteRecord(context.Background(), col, id)
		return recordDeletedMsg{col: col, id: id, err: err}
	}
}

func (m recordList[T]) updateList(msg tea.KeyMsg) (recordList[T], tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.items)-1 {
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
			return m, m.load()
		}
	case "left", "p":
		if m.page > 1 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.load()
		}
	case "enter":
		if len(m.items) > 0 {
			m.detail = !m.detail
		}
	case "esc":
		m.detail = false
		m.showStats = false
	case "/":
		m.searching = true
		m.search = ""
	case "r":
		m.loading = true
		return m, m.load()
	case "s":
		m.showStats = !m.showStats
		if m.showStats && m.stats == nil {
			return m, m.loadStats()
		}
	case "c":
		if item, ok := m.selected(); ok {
			col := m.col
			text := strconv.FormatInt(item.RecordID(), 10)
			return m, func() tea.Msg {
				return copyResultMsg{col: col, err: clipboard.WriteAll(text)}
			}
		}
	case "x":
		if !m.deletable {
			m.status = "you do not have permission to delete " + m.col.Name()
			return m, nil
		}
		if _, ok := m.selected(); ok {
			m.confirm = true
		}
	}
	return m, nil
}

func (m recordList[T]) View() string {
	var b strings.Builder

	header := selectedStyle.Render(m.title) + "  " + metaStyle.Render(fmt.Sprintf("%d total · page %d", m.count, m.page))
	if m.loading {
		header += "  " + dimStyle.Render("loading...")
	}
	b.WriteString("\n  " + header + "\n")

	switch {
	case m.searching:
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

	if m.showStats {
		b.WriteString(m.viewStats())
	} else if item, ok := m.selected(); ok && m.detail {
		b.WriteString(viewDetail(item))
	} else {
		b.WriteString(m.viewRows())
	}

	switch {
	case m.confirm:
		if item, ok := m.selected(); ok {
			b.WriteString("\n  " + warnStyle.Render(fmt.Sprintf("delete %q? y to confirm", truncStr(item.Label(), 40))) + "\n")
		}
	case m.status != "":
		b.WriteString("\n  " + dimStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m recordList[T]) viewRows() string {
	if len(m.items) == 0 {
		if m.loading {
			return ""
		}
		return "  " + dimStyle.Render("no "+m.col.Name()+" found") + "\n"
	}

	maxVisible := max(m.height-8, 5)
	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	width := max(m.width-4, 30)

	var b strings.Builder
	for i := start; i < len(m.items) && i < start+maxVisible; i++ {
		cursor := "  "
		line := m.row(m.items[i])
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			line = selectedRowBg.Render(line)
		}
		b.WriteString("  " + cursor + ansi.Truncate(line, width, "…") + "\n")
	}
	return b.String()
}

func (m recordList[T]) viewStats() string {
	if m.stats == nil {
		return "  " + dimStyle.Render("loading statistics...") + "\n"
	}
	return viewStatistics(m.stats)
}

func viewStatistics(stats domain.Statistics) string {
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	var b strings.Builder
	b.WriteString("  " + sectionHeaderStyle.Render("── STATISTICS ──") + "\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s  %s\n", dimStyle.Render(fmt.Sprintf("%-*s", width, humanize(k))), normalStyle.Render(formatValue(stats[k])))
	}
	return b.String()
}

// viewDetail renders every field of a record as label/value lines.
func viewDetail(item any) string {
	data, err := json.Marshal(item)
	if err != nil {
		return "  " + errorStyle.Render(err.Error()) + "\n"
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return "  " + errorStyle.Render(err.Error()) + "\n"
	}
	return strings.Replace(viewStatistics(fields), "STATISTICS", "DETAIL", 1)
}

func (m recordList[T]) help() []string {
	switch {
	case m.searching:
		return []string{"enter", "search", "esc", "clear"}
	case m.confirm:
		return []string{"y", "delete", "any", "cancel"}
	case m.detail || m.showStats:
		return []string{"esc", "back", "c", "copy id"}
	}
	keys := []string{"j/k", "nav", "n/p", "page", "/", "search", "enter", "detail", "s", "stats", "c", "copy id"}
	if m.deletable {
		keys = append(keys, "x", "delete")
	}
	return append(keys, "r", "refresh")
}

// listScreen shows a single collection.
type listScreen[T domain.Record] struct {
	list recordList[T]
}

func (s listScreen[T]) Init() tea.Cmd { return s.list.load() }

func (s listScreen[T]) Update(msg tea.Msg) (screen, tea.Cmd) {
	var cmd tea.Cmd
	s.list, cmd = s.list.update(msg)
	return s, cmd
}

func (s listScreen[T]) View() string  { return s.list.View() }
func (s listScreen[T]) Help() string  { return helpBar(s.list.help()...) }
func (s listScreen[T]) Editing() bool { return s.list.editing() }

func newTenantsScreen(c *client.Client, sess Session) listScreen[domain.Tenant] {
	l := newRecordList(c, client.Tenants, "Tenants", tenantRow)
	l.deletable = allowed(sess, domain.CanManageTenants)
	return listScreen[domain.Tenant]{list: l}
}

func newLeasesScreen(c *client.Client, sess Session) listScreen[domain.Lease] {
	l := newRecordList(c, client.Leases, "Leases", leaseRow)
	l.deletable = allowed(sess, domain.CanManageLeases)
	return listScreen[domain.Lease]{list: l}
}

func newMaintenanceScreen(c *client.Client, sess Session) listScreen[domain.MaintenanceRequest] {
	l := newRecordList(c, client.Maintenance, "Maintenance", maintenanceRow)
	l.deletable = allowed(sess, domain.CanEditProperties)
	return listScreen[domain.MaintenanceRequest]{list: l}
}

// propertiesScreen shows properties and their owners; tab switches.
type propertiesScreen struct {
	properties recordList[domain.Property]
	owners     recordList[domain.Owner]
	showOwners bool
}

func newPropertiesScreen(c *client.Client, sess Session) propertiesScreen {
	p := newRecordList(c, client.Properties, "Properties", propertyRow)
	p.deletable = allowed(sess, domain.CanDeleteProperties)
	o := newRecordList(c, client.Owners, "Owners", ownerRow)
	o.deletable = allowed(sess, domain.CanDeleteProperties)
	return propertiesScreen{properties: p, owners: o}
}

func (s propertiesScreen) Init() tea.Cmd { return s.properties.load() }

func (s propertiesScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		if k.String() == "tab" && !s.Editing() {
			s.showOwners = !s.showOwners
			if s.showOwners && s.owners.items == nil {
				return s, s.owners.load()
			}
			return s, nil
		}
		var cmd tea.Cmd
		if s.showOwners {
			s.owners, cmd = s.owners.update(msg)
		} else {
			s.properties, cmd = s.properties.update(msg)
		}
		return s, cmd
	}
	var c1, c2 tea.Cmd
	s.properties, c1 = s.properties.update(msg)
	s.owners, c2 = s.owners.update(msg)
	return s, tea.Batch(c1, c2)
}

func (s propertiesScreen) View() string {
	tabs := tabLabel("Properties", !s.showOwners) + "  " + tabLabel("Owners", s.showOwners)
	if s.showOwners {
		return "\n  " + tabs + s.owners.View()
	}
	return "\n  " + tabs + s.properties.View()
}

func (s propertiesScreen) Help() string {
	keys := s.properties.help()
	if s.showOwners {
		keys = s.owners.help()
	}
	return helpBar(append([]string{"tab", "switch"}, keys...)...)
}

func (s propertiesScreen) Editing() bool {
	if s.showOwners {
		return s.owners.editing()
	}
	return s.properties.editing()
}

func tabLabel(name string, active bool) string {
	if active {
		return selectedStyle.Underline(true).Render(name)
	}
	return dimStyle.Render(name)
}

func propertyRow(p domain.Property) string {
	return fmt.Sprintf("%-28s %-12s %-16s %5s  %s",
		truncStr(p.Name, 28),
		p.PropertyType,
		truncStr(p.City, 16),
		fmt.Sprintf("%d/%d", p.OccupiedUnits, p.TotalUnits),
		StatusStyle(p.Status).Render(p.Status))
}

func ownerRow(o domain.Owner) string {
	return fmt.Sprintf("%-28s %-30s %s", truncStr(o.Name, 28), truncStr(o.Email, 30), o.Phone)
}

func tenantRow(t domain.Tenant) string {
	name := t.FullName
	if name == "" {
		name = strings.TrimSpace(t.FirstName + " " + t.LastName)
	}
	unit := t.PropertyName
	if t.UnitNumber != "" {
		unit += " #" + t.UnitNumber
	}
	return fmt.Sprintf("%-24s %-28s %-24s %s",
		truncStr(name, 24), truncStr(t.Email, 28), truncStr(unit, 24), StatusStyle(t.Status).Render(t.Status))
}

func leaseRow(l domain.Lease) string {
	return fmt.Sprintf("%-20s %-20s %s → %s  %10s  %s",
		truncStr(l.TenantName, 20), truncStr(l.PropertyName, 20),
		l.StartDate, l.EndDate, l.MonthlyRent, StatusStyle(l.Status).Render(l.Status))
}

func maintenanceRow(r domain.MaintenanceRequest) string {
	return fmt.Sprintf("%s %-32s %-20s %s",
		priorityStyle(r.Priority).Render(fmt.Sprintf("%-9s", r.Priority)),
		truncStr(r.Title, 32), truncStr(r.PropertyName, 20), StatusStyle(r.Status).Render(r.Status))
}
