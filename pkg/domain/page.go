package domain

import (
	"bytes"
	"encoding/json"
)

// Page is a list response. The API answers either with a bare array or with
// the paginated envelope; both decode into Page.
type Page[T any] struct {
	Count    int    `json:"count"`
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Results  []T    `json:"results"`
}

func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = Page[T]{Count: len(items), Results: items}
		return nil
	}
	type envelope Page[T]
	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return err
	}
	*p = Page[T](env)
	return nil
}

// Record is implemented by every listable resource.
type Record interface {
	RecordID() int64
	Label() string
}

// Statistics is the free-form payload of the /statistics/ sub-resources.
type Statistics map[string]any

// DashboardStatistics is the payload of /dashboard/statistics/. Sections the
// terminal does not render in detail are kept as Statistics.
type DashboardStatistics struct {
	DateRange struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		Days      int    `json:"days"`
	} `json:"date_range"`
	QuickStats struct {
		TotalProperties     int     `json:"total_properties"`
		TotalTenants        int     `json:"total_tenants"`
		ActiveLeases        int     `json:"active_leases"`
		MonthlyRevenue      float64 `json:"monthly_revenue"`
		PendingMaintenance  int     `json:"pending_maintenance"`
		UnreadNotifications int     `json:"unread_notifications"`
	} `json:"quick_stats"`
	PropertyStats struct {
		TotalProperties     int     `json:"total_properties"`
		TotalValue          float64 `json:"total_value"`
		TotalUnits          int     `json:"total_units"`
		OccupiedUnits       int     `json:"occupied_units"`
		OccupancyPercentage float64 `json:"occupancy_percentage"`
		AverageROI          float64 `json:"average_roi"`
	} `json:"property_stats"`
	FinancialStats struct {
		TotalRevenue  float64 `json:"total_revenue"`
		TotalExpenses float64 `json:"total_expenses"`
		NetIncome     float64 `json:"net_income"`
	} `json:"financial_stats"`
	MaintenanceStats struct {
		TotalRequests int `json:"total_requests"`
		Open          int `json:"open"`
		InProgress    int `json:"in_progress"`
		HighPriority  int `json:"high_priority"`
		Emergency     int `json:"emergency"`
	} `json:"maintenance_stats"`
	LeaseStats struct {
		TotalLeases  int `json:"total_leases"`
		ActiveLeases int `json:"active_leases"`
		ExpiringSoon int `json:"expiring_soon"`
		Expired      int `json:"expired_leases"`
	} `json:"lease_stats"`
	TenantStats       Statistics `json:"tenant_stats,omitempty"`
	DocumentStats     Statistics `json:"document_stats,omitempty"`
	NotificationStats Statistics `json:"notification_stats,omitempty"`
	RecentActivities  []Activity `json:"recent_activities"`
	Trends            struct {
		RevenueChange float64 `json:"revenue_change"`
		ExpenseChange float64 `json:"expense_change"`
	} `json:"trends"`
}

// Activity is one entry of the dashboard's recent activity feed.
type Activity struct {
	Type      string `json:"type"`
	Action    string `json:"action"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}
