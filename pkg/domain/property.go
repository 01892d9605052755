package domain

import (
	"strconv"
	"time"
)

// Owner is a property owner or investor.
type Owner struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (o Owner) RecordID() int64 { return o.ID }
func (o Owner) Label() string   { return o.Name }

// Property is a real-estate asset. Money fields are decimal strings as sent by the API.
type Property struct {
	ID              int64          `json:"id"`
	Name            string         `json:"name"`
	PropertyType    string         `json:"property_type"`
	Status          string         `json:"status"`
	Address         string         `json:"address"`
	City            string         `json:"city"`
	State           string         `json:"state"`
	ZipCode         string         `json:"zip_code"`
	Country         string         `json:"country,omitempty"`
	TotalUnits      int            `json:"total_units"`
	OccupiedUnits   int            `json:"occupied_units"`
	SizeSqft        string         `json:"size_sqft,omitempty"`
	YearBuilt       *int           `json:"year_built,omitempty"`
	PurchasePrice   string         `json:"purchase_price,omitempty"`
	CurrentValue    string         `json:"current_value,omitempty"`
	MonthlyRevenue  string         `json:"monthly_revenue,omitempty"`
	MonthlyExpenses string         `json:"monthly_expenses,omitempty"`
	Owner           *int64         `json:"owner,omitempty"`
	OwnerName       string         `json:"owner_name,omitempty"`
	Description     string         `json:"description,omitempty"`
	Features        map[string]any `json:"features,omitempty"`
	ImageURL        string         `json:"image_url,omitempty"`
	AcquisitionDate string         `json:"acquisition_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

func (p Property) RecordID() int64 { return p.ID }

func (p Property) Label() string {
	label := p.Name
	if p.City != "" {
		label += " (" + p.City + ")"
	}
	if p.TotalUnits > 0 {
		label += " " + strconv.Itoa(p.OccupiedUnits) + "/" + strconv.Itoa(p.TotalUnits) + " units"
	}
	return label
}

// PropertyTypes are the accepted values of Property.PropertyType.
var PropertyTypes = []string{"residential", "commercial", "mixed", "industrial", "land"}
