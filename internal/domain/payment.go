package domain

import "time"

// PaymentState is the status vocabulary on the payment record itself. It
// deliberately differs from RentalPaymentStatus: refund_pending and pending
// only exist on the rental side.
type PaymentState string

const (
	PaymentStateVerification       PaymentState = "verification"
	PaymentStatePaid               PaymentState = "paid"
	PaymentStateRejected           PaymentState = "rejected"
	PaymentStateRefundVerification PaymentState = "refund_verification"
	PaymentStateRefunded           PaymentState = "refunded"
	PaymentStateRefundRejected     PaymentState = "refund_rejected"
)

type Payment struct {
	ID        uint         `json:"id"`
	RentalID  uint         `json:"rental_id"`
	Amount    int          `json:"amount"`
	SlipURL   string       `json:"slip_url"`
	Status    PaymentState `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	Rental *Rental `json:"rental,omitempty"`
}
