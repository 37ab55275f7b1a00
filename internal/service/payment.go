package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookrental/internal/domain"
	"bookrental/internal/repository"
)

var ErrPaymentNotFound = repository.ErrPaymentNotFound

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status domain.PaymentState) error
	FindPending(ctx context.Context) ([]domain.Payment, error)
	FindByDay(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Payment, error)
}

type PaymentRentalRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Rental, error)
	SetPaymentStatusIf(ctx context.Context, id uint, expected, next domain.RentalPaymentStatus) error
}

type PaymentService struct {
	repo       PaymentRepository
	rentalRepo PaymentRentalRepository
}

func NewPaymentService(repo PaymentRepository, rentalRepo PaymentRentalRepository) *PaymentService {
	return &PaymentService{
		repo:       repo,
		rentalRepo: rentalRepo,
	}
}

// Submit records a renter's payment claim against their own rental. The
// claimed amount is stored as-is; checking it against the rental's cost is
// the approver's job.
func (s *PaymentService) Submit(ctx context.Context, userID, rentalID uint, amount int, slipURL string) (domain.Payment, error) {
	rental, err := s.rentalRepo.FindByID(ctx, rentalID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.rentalRepo.FindByID -> %w", err)
	}

	if rental.UserID != userID {
		return domain.Payment{}, ErrNotRentalOwner
	}

	payment := domain.Payment{
		RentalID: rentalID,
		Amount:   amount,
		SlipURL:  slipURL,
		Status:   domain.PaymentStateVerification,
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err = s.rentalRepo.SetPaymentStatusIf(ctx, rentalID, rental.PaymentStatus, domain.PaymentVerification); err != nil {
		if errors.Is(err, repository.ErrRentalStateChanged) {
			return domain.Payment{}, fmt.Errorf("%w: rental payment state changed", ErrInvalidTransition)
		}

		return domain.Payment{}, fmt.Errorf("s.rentalRepo.SetPaymentStatusIf -> %w", err)
	}

	return created, nil
}

// Verify resolves a claim. The branch keys off the RENTAL's current payment
// status, not the payment row: a claim under refund_verification is a refund
// slip, anything else is an ordinary rent payment. The two outcomes never mix:
// the rental write is conditional on the status the branch was taken from, so
// a transition landing mid-verify (a cancel raising a refund claim) fails the
// verdict instead of being overwritten.
func (s *PaymentService) Verify(ctx context.Context, paymentID uint, approved bool) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	rental, err := s.rentalRepo.FindByID(ctx, payment.RentalID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.rentalRepo.FindByID -> %w", err)
	}

	var (
		paymentStatus domain.PaymentState
		rentalStatus  domain.RentalPaymentStatus
	)

	if rental.PaymentStatus == domain.PaymentRefundVerification {
		if approved {
			paymentStatus = domain.PaymentStateRefunded
			rentalStatus = domain.PaymentRefunded
		} else {
			paymentStatus = domain.PaymentStateRefundRejected
			rentalStatus = domain.PaymentRefundRejected
		}
	} else {
		if approved {
			paymentStatus = domain.PaymentStatePaid
			rentalStatus = domain.PaymentPaid
		} else {
			// Rejection sends the rental back to pending so the renter can
			// submit a new slip.
			paymentStatus = domain.PaymentStateRejected
			rentalStatus = domain.PaymentPending
		}
	}

	if err = s.rentalRepo.SetPaymentStatusIf(ctx, rental.ID, rental.PaymentStatus, rentalStatus); err != nil {
		if errors.Is(err, repository.ErrRentalStateChanged) {
			return domain.Payment{}, fmt.Errorf("%w: rental payment state changed", ErrInvalidTransition)
		}

		return domain.Payment{}, fmt.Errorf("s.rentalRepo.SetPaymentStatusIf -> %w", err)
	}

	if err = s.repo.UpdateStatus(ctx, paymentID, paymentStatus); err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	return s.repo.FindByID(ctx, paymentID)
}

// ListPending returns the verification queue: with no date, every claim
// currently awaiting a verdict; with a date, that day's claims across all
// outcomes for auditing.
func (s *PaymentService) ListPending(ctx context.Context, date *time.Time) ([]domain.Payment, error) {
	if date == nil {
		payments, err := s.repo.FindPending(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindPending -> %w", err)
		}

		return payments, nil
	}

	payments, err := s.repo.FindByDay(ctx, domain.StartOfDay(*date), domain.EndOfDay(*date))
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByDay -> %w", err)
	}

	return payments, nil
}
