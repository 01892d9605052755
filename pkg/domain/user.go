package domain

import (
	"encoding/json"
	"time"
)

// Permission names a capability granted by a role.
type Permission string

const (
	CanCreateProperties Permission = "can_create_properties"
	CanEditProperties   Permission = "can_edit_properties"
	CanDeleteProperties Permission = "can_delete_properties"
	CanManageTenants    Permission = "can_manage_tenants"
	CanManageLeases     Permission = "can_manage_leases"
	CanManageFinancials Permission = "can_manage_financials"
	CanManageUsers      Permission = "can_manage_users"
	CanViewAnalytics    Permission = "can_view_analytics"
	CanExportReports    Permission = "can_export_reports"
)

// Permissions lists every permission a role can carry, in wire order.
var Permissions = []Permission{
	CanCreateProperties,
	CanEditProperties,
	CanDeleteProperties,
	CanManageTenants,
	CanManageLeases,
	CanManageFinancials,
	CanManageUsers,
	CanViewAnalytics,
	CanExportReports,
}

// Role names.
const (
	RoleAdmin            = "admin"
	RolePortfolioManager = "portfolio_manager"
	RoleViewOnly         = "view_only"
)

// Role is an RBAC role with its permission flags.
// On the wire each permission is a top-level can_* boolean.
type Role struct {
	ID          int64
	Name        string
	Description string
	Grants      map[Permission]bool
}

// Allows reports whether the role grants p.
func (r *Role) Allows(p Permission) bool {
	if r == nil {
		return false
	}
	return r.Grants[p]
}

func (r Role) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":          r.ID,
		"name":        r.Name,
		"description": r.Description,
	}
	for _, p := range Permissions {
		out[string(p)] = r.Grants[p]
	}
	return json.Marshal(out)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var flags map[string]json.RawMessage
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	grants := make(map[Permission]bool, len(Permissions))
	for _, p := range Permissions {
		var v bool
		if msg, ok := flags[string(p)]; ok {
			_ = json.Unmarshal(msg, &v) //nolint:errcheck // non-bool flag counts as not granted
		}
		grants[p] = v
	}
	*r = Role{ID: raw.ID, Name: raw.Name, Description: raw.Description, Grants: grants}
	return nil
}

// User is the authenticated account as returned by the profile endpoint.
type User struct {
	ID                   int64      `json:"id"`
	Email                string     `json:"email"`
	Username             string     `json:"username"`
	FirstName            string     `json:"first_name"`
	LastName             string     `json:"last_name"`
	FullName             string     `json:"full_name,omitempty"`
	Phone                string     `json:"phone,omitempty"`
	DateOfBirth          string     `json:"date_of_birth,omitempty"`
	Avatar               string     `json:"avatar,omitempty"`
	Role                 *int64     `json:"role"`
	RoleDetails          *Role      `json:"role_details"`
	IsSuperadmin         bool       `json:"is_superadmin"`
	IsSuperuser          bool       `json:"is_superuser"`
	IsStaff              bool       `json:"is_staff"`
	IsActive             bool       `json:"is_active"`
	MFAEnabled           bool       `json:"mfa_enabled"`
	EmailNotifications   bool       `json:"email_notifications"`
	LeaseReminders       bool       `json:"lease_reminders"`
	MaintenanceAlerts    bool       `json:"maintenance_alerts"`
	PaymentNotifications bool       `json:"payment_notifications"`
	DateJoined           *time.Time `json:"date_joined,omitempty"`
	LastLogin            *time.Time `json:"last_login,omitempty"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// RoleName returns the name of the user's role, or "" when none is assigned.
func (u *User) RoleName() string {
	if u == nil || u.RoleDetails == nil {
		return ""
	}
	return u.RoleDetails.Name
}

// HasPermission reports whether the user's role grants p.
func (u *User) HasPermission(p Permission) bool {
	if u == nil {
		return false
	}
	return u.RoleDetails.Allows(p)
}

// Elevated reports whether the user may reach superadmin-only areas.
func (u *User) Elevated() bool {
	return u != nil && (u.IsSuperadmin || u.IsSuperuser)
}

// DisplayName prefers the server-computed full name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	if u.FirstName != "" || u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}
