package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrental/internal/domain"
	"bookrental/internal/pkg/clock"
	"bookrental/internal/service"
)

type fakeReportRepo struct {
	counts  map[domain.RentalStatus]int64
	overdue int64
	revenue int64
	windows [][2]*time.Time
}

func (f *fakeReportRepo) record(from, to *time.Time) {
	f.windows = append(f.windows, [2]*time.Time{from, to})
}

func (f *fakeReportRepo) CountByStatus(ctx context.Context, status domain.RentalStatus, from, to *time.Time) (int64, error) {
	f.record(from, to)

	return f.counts[status], nil
}

func (f *fakeReportRepo) CountOverdue(ctx context.Context, cutoff time.Time, from, to *time.Time) (int64, error) {
	f.record(from, to)

	return f.overdue, nil
}

func (f *fakeReportRepo) SumRevenue(ctx context.Context, from, to *time.Time) (int64, error) {
	f.record(from, to)

	return f.revenue, nil
}

func (f *fakeReportRepo) FindInWindow(ctx context.Context, from, to *time.Time) ([]domain.Rental, error) {
	f.record(from, to)

	return []domain.Rental{{ID: 1}, {ID: 2}}, nil
}

func TestDashboard_AllTime(t *testing.T) {
	repo := &fakeReportRepo{
		counts:  map[domain.RentalStatus]int64{domain.RentalBooked: 4, domain.RentalRented: 2},
		overdue: 1,
		revenue: 320,
	}
	svc := service.NewReportService(repo, clock.NewMockClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)))

	report, err := svc.Dashboard(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(4), report.Counts.Booked)
	assert.Equal(t, int64(2), report.Counts.Rented)
	assert.Equal(t, int64(1), report.Counts.Overdue)
	assert.Equal(t, int64(320), report.Revenue)
	assert.Len(t, report.Transactions, 2)

	for _, window := range repo.windows {
		assert.Nil(t, window[0])
		assert.Nil(t, window[1])
	}
}

func TestDashboard_SingleDayWindow(t *testing.T) {
	repo := &fakeReportRepo{counts: map[domain.RentalStatus]int64{}}
	svc := service.NewReportService(repo, clock.NewMockClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)))

	date := time.Date(2024, time.March, 8, 16, 45, 0, 0, time.UTC)
	_, err := svc.Dashboard(context.Background(), &date)

	require.NoError(t, err)
	require.NotEmpty(t, repo.windows)

	for _, window := range repo.windows {
		require.NotNil(t, window[0])
		require.NotNil(t, window[1])
		assert.Equal(t, domain.StartOfDay(date), *window[0])
		assert.Equal(t, domain.EndOfDay(date), *window[1])
	}
}
