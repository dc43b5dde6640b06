package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"
)

type ReportRepository interface {
	// RevenueRows aggregates completed appointments joined to their
	// treatment price, grouped per day and per treatment. Dates are
	// YYYY-MM-DD, inclusive on both ends.
	RevenueRows(ctx context.Context, startDate, endDate string) ([]entity.RevenueRow, error)
}
