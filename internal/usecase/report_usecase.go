package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-management-api/config"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidReportRange = errors.New("start date must not be after end date")
)

type ReportUsecase interface {
	RevenueReport(ctx context.Context, startDate, endDate string) (*entity.RevenueReport, error)
}

type reportUsecase struct {
	log        *logrus.Logger
	reportRepo repository.ReportRepository
	cache      service.Cache
	ttl        config.CacheConfig
}

func NewReportUsecase(
	log *logrus.Logger,
	reportRepo repository.ReportRepository,
	cache service.Cache,
	ttl config.CacheConfig,
) ReportUsecase {
	return &reportUsecase{
		log:        log,
		reportRepo: reportRepo,
		cache:      cache,
		ttl:        ttl,
	}
}

func (u *reportUsecase) RevenueReport(ctx context.Context, startDate, endDate string) (*entity.RevenueReport, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if start.After(end) {
		return nil, ErrInvalidReportRange
	}

	cacheKey := service.RevenueReportKey(startDate, endDate)
	var cached entity.RevenueReport
	if found, _ := u.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	rows, err := u.reportRepo.RevenueRows(ctx, startDate, endDate)
	if err != nil {
		u.log.Warnf("Failed to aggregate revenue rows: %+v", err)
		return nil, err
	}

	report := &entity.RevenueReport{
		StartDate:    startDate,
		EndDate:      endDate,
		TotalRevenue: decimal.Zero,
		Rows:         rows,
	}
	for _, row := range rows {
		report.TotalVisits += row.Visits
		report.TotalRevenue = report.TotalRevenue.Add(row.Revenue)
	}

	if err := u.cache.Set(ctx, cacheKey, report, u.ttl.StatsTTL); err != nil {
		u.log.Warnf("Failed to cache revenue report: %+v", err)
	}

	return report, nil
}
