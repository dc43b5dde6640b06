package repository

import (
	"context"
	"time"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	FindAll(ctx context.Context, filter *entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error)
	Update(ctx context.Context, appointment *entity.Appointment) error
	// CountOverlapping counts non-cancelled appointments for the doctor at
	// the exact slot, used to reject double booking.
	CountOverlapping(ctx context.Context, doctorID uuid.UUID, at time.Time) (int64, error)
}
