package domain

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// TokenPair holds the JWTs issued at login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	User    User      `json:"user"`
	Tokens  TokenPair `json:"tokens"`
	Message string    `json:"message,omitempty"`
}

// PasswordChange is the change-password payload.
type PasswordChange struct {
	OldPassword        string `json:"old_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
}

// NotificationPreferences toggles the user's notification channels.
type NotificationPreferences struct {
	EmailNotifications   bool `json:"email_notifications"`
	LeaseReminders       bool `json:"lease_reminders"`
	MaintenanceAlerts    bool `json:"maintenance_alerts"`
	PaymentNotifications bool `json:"payment_notifications"`
}

// AdminUserInput is the payload for creating or updating a user as an administrator.
type AdminUserInput struct {
	Email        string `json:"email,omitempty"`
	Username     string `json:"username,omitempty"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         *int64 `json:"role,omitempty"`
	Password     string `json:"password,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
	IsSuperadmin *bool  `json:"is_superadmin,omitempty"`
}

// AdminUserStats summarises the user base for the admin screen.
type AdminUserStats struct {
	TotalUsers      int            `json:"total_users"`
	ActiveUsers     int            `json:"active_users"`
	InactiveUsers   int            `json:"inactive_users"`
	SuperadminCount int            `json:"superadmin_count"`
	UsersByRole     map[string]int `json:"users_by_role,omitempty"`
	RecentSignups   int            `json:"recent_signups,omitempty"`
}
