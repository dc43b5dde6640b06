package entity

import "github.com/shopspring/decimal"

// RevenueRow is one aggregation bucket of the financial report: completed
// appointments for a treatment on a given day.
type RevenueRow struct {
	Date          string          `json:"date"`
	TreatmentName string          `json:"treatment_name"`
	Visits        int64           `json:"visits"`
	Revenue       decimal.Decimal `json:"revenue"`
}

// RevenueReport summarizes clinic revenue over an inclusive date range.
type RevenueReport struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalVisits  int64           `json:"total_visits"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	Rows         []RevenueRow    `json:"rows"`
}
