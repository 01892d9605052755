package router

// SessionState is what the guard needs to know about the signed-in user.
type SessionState interface {
	IsAuthenticated() bool
	IsSuperadmin() bool
}

// Outcome is the guard's verdict on one navigation step.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
	Deny
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// AccessDeniedNotice is shown when a superadmin-only route is refused.
const AccessDeniedNotice = "Access denied. Superadmin privileges are required to view this page."

// Decision is the result of a navigation attempt.
type Decision struct {
	Outcome Outcome
	// Target is where a Redirect or Deny sends navigation.
	Target string
	// Notice must be acknowledged by the user before the target is shown.
	Notice string
	// Route is the route finally shown. Set by Router.Navigate.
	Route Resolved
}

// Evaluate applies the guard to a route's requirements. The first failing
// check wins: auth, then guest, then superadmin.
func Evaluate(req Requirement, s SessionState) Decision {
	switch {
	case req.Has(RequiresAuth) && !s.IsAuthenticated():
		return Decision{Outcome: Redirect, Target: LoginPath}
	case req.Has(RequiresGuest) && s.IsAuthenticated():
		return Decision{Outcome: Redirect, Target: DashboardPath}
	case req.Has(RequiresSuperAdmin) && !s.IsSuperadmin():
		return Decision{Outcome: Deny, Target: DashboardPath, Notice: AccessDeniedNotice}
	}
	return Decision{Outcome: Allow}
}
