package service

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/domain"
	"bookrental/internal/pkg/clock"
)

type ReportRentalRepository interface {
	CountByStatus(ctx context.Context, status domain.RentalStatus, from, to *time.Time) (int64, error)
	CountOverdue(ctx context.Context, cutoff time.Time, from, to *time.Time) (int64, error)
	SumRevenue(ctx context.Context, from, to *time.Time) (int64, error)
	FindInWindow(ctx context.Context, from, to *time.Time) ([]domain.Rental, error)
}

type ReportService struct {
	rentalRepo ReportRentalRepository
	clock      clock.Clock
}

func NewReportService(rentalRepo ReportRentalRepository, clk clock.Clock) *ReportService {
	return &ReportService{
		rentalRepo: rentalRepo,
		clock:      clk,
	}
}

// Dashboard aggregates reservation/rental counts, the overdue backlog and
// realized revenue, either all-time (date == nil) or for one local day.
func (s *ReportService) Dashboard(ctx context.Context, date *time.Time) (domain.DashboardReport, error) {
	var from, to *time.Time
	if date != nil {
		dayStart := domain.StartOfDay(*date)
		dayEnd := domain.EndOfDay(*date)
		from, to = &dayStart, &dayEnd
	}

	booked, err := s.rentalRepo.CountByStatus(ctx, domain.RentalBooked, from, to)
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("s.rentalRepo.CountByStatus -> %w", err)
	}

	rented, err := s.rentalRepo.CountByStatus(ctx, domain.RentalRented, from, to)
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("s.rentalRepo.CountByStatus -> %w", err)
	}

	overdue, err := s.rentalRepo.CountOverdue(ctx, domain.StartOfDay(s.clock.Now()), from, to)
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("s.rentalRepo.CountOverdue -> %w", err)
	}

	revenue, err := s.rentalRepo.SumRevenue(ctx, from, to)
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("s.rentalRepo.SumRevenue -> %w", err)
	}

	transactions, err := s.rentalRepo.FindInWindow(ctx, from, to)
	if err != nil {
		return domain.DashboardReport{}, fmt.Errorf("s.rentalRepo.FindInWindow -> %w", err)
	}

	return domain.DashboardReport{
		Counts: domain.DashboardCounts{
			Booked:  booked,
			Rented:  rented,
			Overdue: overdue,
		},
		Revenue:      revenue,
		Transactions: transactions,
	}, nil
}
