package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) domainRepo.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) RevenueRows(ctx context.Context, startDate, endDate string) ([]entity.RevenueRow, error) {
	var rows []entity.RevenueRow
	err := r.db.WithContext(ctx).Model(&entity.Appointment{}).
		Select(`
			TO_CHAR(appointments.scheduled_at, 'YYYY-MM-DD') as date,
			treatments.name as treatment_name,
			COUNT(appointments.id) as visits,
			SUM(treatments.price) as revenue
		`).
		Joins("JOIN treatments ON treatments.id = appointments.treatment_id").
		Where("appointments.status = ?", entity.AppointmentStatusCompleted).
		Where("DATE(appointments.scheduled_at) >= ? AND DATE(appointments.scheduled_at) <= ?", startDate, endDate).
		Group("TO_CHAR(appointments.scheduled_at, 'YYYY-MM-DD'), treatments.name").
		Order("date ASC, treatment_name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
