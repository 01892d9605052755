package router

import (
	"path"
	"strings"
)

// Requirement is a set of access requirements attached to a route.
type Requirement uint8

const (
	RequiresAuth Requirement = 1 << iota
	RequiresGuest
	RequiresSuperAdmin
)

// Has reports whether every flag in want is set.
func (r Requirement) Has(want Requirement) bool { return r&want == want }

func (r Requirement) String() string {
	var parts []string
	if r.Has(RequiresAuth) {
		parts = append(parts, "auth")
	}
	if r.Has(RequiresGuest) {
		parts = append(parts, "guest")
	}
	if r.Has(RequiresSuperAdmin) {
		parts = append(parts, "superadmin")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// View identifies the screen that renders a route.
type View string

const (
	ViewLogin           View = "login"
	ViewRegister        View = "register"
	ViewDashboard       View = "dashboard"
	ViewProfile         View = "profile"
	ViewAccountSettings View = "account-settings"
	ViewProperties      View = "properties"
	ViewTenants         View = "tenants"
	ViewLeases          View = "leases"
	ViewAnalytics       View = "analytics"
	ViewMaintenance     View = "maintenance"
	ViewAIInsights      View = "ai-insights"
	ViewDocuments       View = "documents"
	ViewAdminUsers      View = "admin-users"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Route declares a path. Children paths are relative to the parent and
// inherit its requirements. A route with no View is a layout only.
type Route struct {
	Path     string
	Name     string
	View     View
	Redirect string
	Requires Requirement
	Children []Route
}

// Routes is the application route table.
var Routes = []Route{
	{Path: "/login", Name: "Login", View: ViewLogin, Requires: RequiresGuest},
	{Path: "/register", Name: "Register", View: ViewRegister, Requires: RequiresGuest},
	{
		Path:     "/",
		Requires: RequiresAuth,
		Children: []Route{
			{Path: "", Redirect: DashboardPath},
			{Path: "dashboard", Name: "Dashboard", View: ViewDashboard},
			{Path: "profile", Name: "Profile", View: ViewProfile},
			{Path: "account-settings", Name: "Account Settings", View: ViewAccountSettings},
			{Path: "properties", Name: "Properties", View: ViewProperties},
			{Path: "tenants", Name: "Tenants", View: ViewTenants},
			{Path: "leases", Name: "Leases", View: ViewLeases},
			{Path: "analytics", Name: "Analytics", View: ViewAnalytics},
			{Path: "maintenance", Name: "Maintenance", View: ViewMaintenance},
			{Path: "ai-insights", Name: "AI Insights", View: ViewAIInsights},
			{Path: "documents", Name: "Documents", View: ViewDocuments},
			{Path: "admin/users", Name: "User Management", View: ViewAdminUsers, Requires: RequiresSuperAdmin},
		},
	},
}

// Resolved is a route flattened to its absolute path and effective requirements.
type Resolved struct {
	Path     string
	Name     string
	View     View
	Redirect string
	Requires Requirement
}

// Table indexes a route tree by absolute path.
type Table struct {
	byPath map[string]Resolved
	order  []Resolved
}

// NewTable flattens routes. Later duplicates replace earlier ones.
func NewTable(routes []Route) *Table {
	t := &Table{byPath: make(map[string]Resolved)}
	t.add("/", 0, routes)
	return t
}

func (t *Table) add(base string, inherited Requirement, routes []Route) {
	for _, r := range routes {
		abs := Clean(path.Join(base, r.Path))
		req := inherited | r.Requires
		if r.View != "" || r.Redirect != "" {
			res := Resolved{Path: abs, Name: r.Name, View: r.View, Redirect: r.Redirect, Requires: req}
			if _, dup := t.byPath[abs]; !dup {
				t.order = append(t.order, res)
			} else {
				for i := range t.order {
					if t.order[i].Path == abs {
						t.order[i] = res
					}
				}
			}
			t.byPath[abs] = res
		}
		t.add(abs, req, r.Children)
	}
}

// Lookup finds the route for p. Query strings and trailing slashes are ignored.
func (t *Table) Lookup(p string) (Resolved, bool) {
	r, ok := t.byPath[Clean(p)]
	return r, ok
}

// All returns the routes in declaration order.
func (t *Table) All() []Resolved {
	out := make([]Resolved, len(t.order))
	copy(out, t.order)
	return out
}

// Clean normalizes a navigation path to the table's key form.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
