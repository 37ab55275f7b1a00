package domain

import "time"

type RentalStatus string

const (
	RentalBooked    RentalStatus = "booked"
	RentalRented    RentalStatus = "rented"
	RentalReturned  RentalStatus = "returned"
	RentalCancelled RentalStatus = "cancelled"
)

// RentalPaymentStatus tracks the payment side of a rental. It is a separate
// vocabulary from PaymentState on the Payment record; the two are synchronized
// only at the transition points handled by the payment service.
type RentalPaymentStatus string

const (
	PaymentPending            RentalPaymentStatus = "pending"
	PaymentVerification       RentalPaymentStatus = "verification"
	PaymentPaid               RentalPaymentStatus = "paid"
	PaymentRefundVerification RentalPaymentStatus = "refund_verification"
	PaymentRefundPending      RentalPaymentStatus = "refund_pending"
	PaymentRefunded           RentalPaymentStatus = "refunded"
	PaymentRefundRejected     RentalPaymentStatus = "refund_rejected"
	PaymentCancelled          RentalPaymentStatus = "cancelled"
)

// FinePerDay is the flat late fee, in currency units per whole day past due.
const FinePerDay = 10

type Rental struct {
	ID            uint                `json:"id"`
	UserID        uint                `json:"user_id"`
	BookID        uint                `json:"book_id"`
	BorrowDate    time.Time           `json:"borrow_date"`
	DueDate       time.Time           `json:"due_date"`
	ReturnDate    *time.Time          `json:"return_date,omitempty"`
	Cost          int                 `json:"cost"`
	Fine          int                 `json:"fine"`
	Status        RentalStatus        `json:"status"`
	PaymentStatus RentalPaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`

	User *User `json:"user,omitempty"`
	Book *Book `json:"book,omitempty"`
}

// HasClaimedPayment reports whether the renter has submitted any payment claim,
// i.e. cancellation must route through the refund sub-flow.
func (r *Rental) HasClaimedPayment() bool {
	return r.PaymentStatus != PaymentPending && r.PaymentStatus != PaymentCancelled
}

func (r *Rental) IsOverdue(now time.Time) bool {
	return r.Status == RentalRented && r.DueDate.Before(StartOfDay(now))
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last instant of t's day, so a due date stays valid
// through the whole day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DueDateFor computes the due date for a rental starting at borrow and lasting
// the given number of days, normalized to the end of the final day.
func DueDateFor(borrow time.Time, days int) time.Time {
	return EndOfDay(borrow.AddDate(0, 0, days))
}

// FineFor computes the late fee at return time. Both dates are truncated to
// day granularity, so a return any time on the due date itself is free.
// Lateness is counted in calendar days, not elapsed hours: a 23-hour DST day
// in the late window still counts as a full day.
func FineFor(dueDate, returnedAt time.Time) int {
	due0 := StartOfDay(dueDate)
	returned0 := StartOfDay(returnedAt)

	daysLate := 0
	for day := due0; day.Before(returned0); day = day.AddDate(0, 0, 1) {
		daysLate++
	}

	return daysLate * FinePerDay
}
