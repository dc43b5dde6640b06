package dto

// RevenueReportRequest carries the query parameters of the financial
// report endpoint.
type RevenueReportRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}
