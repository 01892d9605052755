package domain

import "time"

// Tenant is a resident or commercial occupant.
type Tenant struct {
	ID                           int64     `json:"id"`
	FirstName                    string    `json:"first_name"`
	LastName                     string    `json:"last_name"`
	FullName                     string    `json:"full_name,omitempty"`
	Initials                     string    `json:"initials,omitempty"`
	Email                        string    `json:"email"`
	Phone                        string    `json:"phone"`
	DateOfBirth                  string    `json:"date_of_birth,omitempty"`
	Employer                     string    `json:"employer,omitempty"`
	JobTitle                     string    `json:"job_title,omitempty"`
	MonthlyIncome                string    `json:"monthly_income,omitempty"`
	Property                     *int64    `json:"property,omitempty"`
	PropertyName                 string    `json:"property_name,omitempty"`
	UnitNumber                   string    `json:"unit_number,omitempty"`
	Status                       string    `json:"status"`
	EmergencyContactName         string    `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone        string    `json:"emergency_contact_phone,omitempty"`
	EmergencyContactRelationship string    `json:"emergency_contact_relationship,omitempty"`
	MoveInDate                   string    `json:"move_in_date,omitempty"`
	MoveOutDate                  string    `json:"move_out_date,omitempty"`
	Notes                        string    `json:"notes,omitempty"`
	CreatedAt                    time.Time `json:"created_at"`
}

func (t Tenant) RecordID() int64 { return t.ID }

func (t Tenant) Label() string {
	name := t.FullName
	if name == "" {
		name = t.FirstName + " " + t.LastName
	}
	if t.PropertyName != "" {
		name += " @ " + t.PropertyName
		if t.UnitNumber != "" {
			name += " #" + t.UnitNumber
		}
	}
	return name + " [" + t.Status + "]"
}

// Lease binds a tenant to a property for a term.
type Lease struct {
	ID              int64     `json:"id"`
	Property        int64     `json:"property"`
	PropertyName    string    `json:"property_name,omitempty"`
	Tenant          int64     `json:"tenant"`
	TenantName      string    `json:"tenant_name,omitempty"`
	UnitNumber      string    `json:"unit_number,omitempty"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	MonthlyRent     string    `json:"monthly_rent"`
	SecurityDeposit string    `json:"security_deposit,omitempty"`
	Status          string    `json:"status"`
	Terms           string    `json:"terms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (l Lease) RecordID() int64 { return l.ID }

func (l Lease) Label() string {
	return l.TenantName + " @ " + l.PropertyName + " " + l.StartDate + ".." + l.EndDate + " [" + l.Status + "]"
}

// MaintenanceRequest is a work order against a property.
type MaintenanceRequest struct {
	ID            int64     `json:"id"`
	Property      int64     `json:"property"`
	PropertyName  string    `json:"property_name,omitempty"`
	Tenant        *int64    `json:"tenant,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	EstimatedCost string    `json:"estimated_cost,omitempty"`
	ActualCost    string    `json:"actual_cost,omitempty"`
	ScheduledDate string    `json:"scheduled_date,omitempty"`
	CompletedDate string    `json:"completed_date,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func (m MaintenanceRequest) RecordID() int64 { return m.ID }

func (m MaintenanceRequest) Label() string {
	return m.Title + " (" + m.Priority + ", " + m.Status + ")"
}
