package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookrental/internal/domain"
)

func date(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestDueDateFor(t *testing.T) {
	borrow := date(2024, time.March, 10, 15)

	due := domain.DueDateFor(borrow, 3)

	assert.Equal(t, 2024, due.Year())
	assert.Equal(t, time.March, due.Month())
	assert.Equal(t, 13, due.Day())
	// Normalized to the last instant of the final day, so the borrow hour
	// does not shorten the rental.
	assert.Equal(t, 23, due.Hour())
	assert.Equal(t, 59, due.Minute())
}

func TestFineFor(t *testing.T) {
	due := domain.DueDateFor(date(2024, time.March, 10, 9), 5) // due 2024-03-15

	tests := []struct {
		name       string
		returnedAt time.Time
		want       int
	}{
		{
			name:       "returned early",
			returnedAt: date(2024, time.March, 12, 18),
			want:       0,
		},
		{
			name:       "returned late on the due date itself",
			returnedAt: date(2024, time.March, 15, 23),
			want:       0,
		},
		{
			name:       "one day late",
			returnedAt: date(2024, time.March, 16, 0),
			want:       domain.FinePerDay,
		},
		{
			name:       "four days late",
			returnedAt: date(2024, time.March, 19, 8),
			want:       4 * domain.FinePerDay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FineFor(due, tt.returnedAt))
		})
	}
}

func TestFineFor_CountsCalendarDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// The clocks spring forward on 2024-03-10, making it a 23-hour day.
	due := time.Date(2024, time.March, 8, 23, 59, 59, 0, loc)
	returnedAt := time.Date(2024, time.March, 12, 8, 0, 0, 0, loc)

	// Mar 9, 10, 11, 12: four calendar days late, short day included.
	assert.Equal(t, 4*domain.FinePerDay, domain.FineFor(due, returnedAt))
}

func TestIsOverdue(t *testing.T) {
	due := domain.DueDateFor(date(2024, time.March, 10, 9), 3) // due 2024-03-13

	rental := domain.Rental{
		Status:  domain.RentalRented,
		DueDate: due,
	}

	assert.False(t, rental.IsOverdue(date(2024, time.March, 13, 23)))
	assert.True(t, rental.IsOverdue(date(2024, time.March, 14, 1)))

	// Only rented rentals can be overdue.
	rental.Status = domain.RentalReturned
	assert.False(t, rental.IsOverdue(date(2024, time.March, 20, 12)))
}

func TestHasClaimedPayment(t *testing.T) {
	tests := []struct {
		status domain.RentalPaymentStatus
		want   bool
	}{
		{domain.PaymentPending, false},
		{domain.PaymentCancelled, false},
		{domain.PaymentVerification, true},
		{domain.PaymentPaid, true},
		{domain.PaymentRefundVerification, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			rental := domain.Rental{PaymentStatus: tt.status}
			assert.Equal(t, tt.want, rental.HasClaimedPayment())
		})
	}
}

func TestEndOfDay(t *testing.T) {
	end := domain.EndOfDay(date(2024, time.December, 31, 10))

	assert.Equal(t, 31, end.Day())
	assert.Equal(t, time.December, end.Month())
	assert.True(t, end.Before(date(2025, time.January, 1, 0)))
	assert.True(t, end.After(date(2024, time.December, 31, 23)))
}
