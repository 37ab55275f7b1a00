package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bookrental/internal/domain"
	"bookrental/internal/pkg/clock"
	"bookrental/internal/repository"
)

var (
	ErrBookUnavailable = repository.ErrBookUnavailable
	ErrRentalNotFound  = repository.ErrRentalNotFound

	ErrInvalidDuration     = errors.New("rental duration must be 3, 5 or 7 days")
	ErrRenterBlocked       = errors.New("renter holds an overdue rental")
	ErrInvalidTransition   = errors.New("operation not allowed for current rental status")
	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed yet")
	ErrNotRentalOwner      = errors.New("rental belongs to another user")
)

type RentalRepository interface {
	Create(ctx context.Context, rental domain.Rental) (domain.Rental, error)
	FindByID(ctx context.Context, id uint) (domain.Rental, error)
	FindByUserID(ctx context.Context, userID uint) ([]domain.Rental, error)
	MarkRented(ctx context.Context, id uint, borrowDate time.Time) error
	MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine int) error
	MarkCancelled(ctx context.Context, id uint, paymentStatus domain.RentalPaymentStatus) error
	HasOverdue(ctx context.Context, userID uint, cutoff time.Time) (bool, error)
}

// StockRepository is the slice of the book repository the state machine needs:
// the atomic reserve/release pair plus a read for the price snapshot.
type StockRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Book, error)
	ReserveCopy(ctx context.Context, id uint) error
	ReleaseCopy(ctx context.Context, id uint) error
}

type RentalPaymentRepository interface {
	UpdateStatusByRentalID(ctx context.Context, rentalID uint, status domain.PaymentState) error
}

type RentalService struct {
	repo        RentalRepository
	bookRepo    StockRepository
	paymentRepo RentalPaymentRepository
	clock       clock.Clock
}

func NewRentalService(repo RentalRepository, bookRepo StockRepository, paymentRepo RentalPaymentRepository, clk clock.Clock) *RentalService {
	return &RentalService{
		repo:        repo,
		bookRepo:    bookRepo,
		paymentRepo: paymentRepo,
		clock:       clk,
	}
}

// Rent reserves a copy for the user. The stock decrement is the admission
// gate; everything before it is cheap validation, everything after it must
// release the copy again on failure.
func (s *RentalService) Rent(ctx context.Context, userID, bookID uint, days int) (domain.Rental, error) {
	if !domain.IsAllowedDuration(days) {
		return domain.Rental{}, ErrInvalidDuration
	}

	now := s.clock.Now()

	overdue, err := s.repo.HasOverdue(ctx, userID, domain.StartOfDay(now))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.HasOverdue -> %w", err)
	}
	if overdue {
		return domain.Rental{}, ErrRenterBlocked
	}

	if err = s.bookRepo.ReserveCopy(ctx, bookID); err != nil {
		if errors.Is(err, repository.ErrBookUnavailable) {
			return domain.Rental{}, ErrBookUnavailable
		}

		return domain.Rental{}, fmt.Errorf("s.bookRepo.ReserveCopy -> %w", err)
	}

	book, err := s.bookRepo.FindByID(ctx, bookID)
	if err != nil {
		s.releaseCopy(ctx, bookID)

		return domain.Rental{}, fmt.Errorf("s.bookRepo.FindByID -> %w", err)
	}

	cost, ok := book.Pricing.PriceFor(days)
	if !ok {
		s.releaseCopy(ctx, bookID)

		return domain.Rental{}, ErrInvalidDuration
	}

	rental := domain.Rental{
		UserID:        userID,
		BookID:        bookID,
		BorrowDate:    now,
		DueDate:       domain.DueDateFor(now, days),
		Cost:          cost,
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentPending,
	}

	created, err := s.repo.Create(ctx, rental)
	if err != nil {
		s.releaseCopy(ctx, bookID)

		return domain.Rental{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Pickup hands the copy over. It refreshes the borrow date to the handover
// moment but keeps the due date fixed from reservation time.
func (s *RentalService) Pickup(ctx context.Context, rentalID uint) (domain.Rental, error) {
	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if rental.Status != domain.RentalBooked {
		return domain.Rental{}, fmt.Errorf("%w: rental is %v", ErrInvalidTransition, rental.Status)
	}
	if rental.PaymentStatus != domain.PaymentPaid {
		return domain.Rental{}, ErrPaymentNotConfirmed
	}

	if err = s.repo.MarkRented(ctx, rentalID, s.clock.Now()); err != nil {
		if errors.Is(err, repository.ErrRentalStateChanged) {
			return domain.Rental{}, fmt.Errorf("%w: rental state changed concurrently", ErrInvalidTransition)
		}

		return domain.Rental{}, fmt.Errorf("s.repo.MarkRented -> %w", err)
	}

	return s.repo.FindByID(ctx, rentalID)
}

// Return closes a rented rental, computing the late fee at day granularity.
// The conditional status flip happens before the stock release so two racing
// returns cannot credit the copy back twice.
func (s *RentalService) Return(ctx context.Context, rentalID uint) (domain.Rental, error) {
	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if rental.Status != domain.RentalRented {
		return domain.Rental{}, fmt.Errorf("%w: rental is %v", ErrInvalidTransition, rental.Status)
	}

	now := s.clock.Now()
	fine := domain.FineFor(rental.DueDate, now)

	if err = s.repo.MarkReturned(ctx, rentalID, now, fine); err != nil {
		if errors.Is(err, repository.ErrRentalStateChanged) {
			return domain.Rental{}, fmt.Errorf("%w: rental state changed concurrently", ErrInvalidTransition)
		}

		return domain.Rental{}, fmt.Errorf("s.repo.MarkReturned -> %w", err)
	}

	s.releaseCopy(ctx, rental.BookID)

	return s.repo.FindByID(ctx, rentalID)
}

// Cancel aborts a booked rental on the renter's request. A rental with any
// submitted payment claim enters the refund verification sub-flow; the
// associated payment record is updated best-effort.
func (s *RentalService) Cancel(ctx context.Context, rentalID, requesterID uint) (domain.Rental, error) {
	rental, err := s.repo.FindByID(ctx, rentalID)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if rental.UserID != requesterID {
		return domain.Rental{}, ErrNotRentalOwner
	}
	if rental.Status != domain.RentalBooked {
		return domain.Rental{}, fmt.Errorf("%w: rental is %v", ErrInvalidTransition, rental.Status)
	}

	targetPaymentStatus := domain.PaymentCancelled
	if rental.HasClaimedPayment() {
		targetPaymentStatus = domain.PaymentRefundVerification
	}

	if err = s.repo.MarkCancelled(ctx, rentalID, targetPaymentStatus); err != nil {
		if errors.Is(err, repository.ErrRentalStateChanged) {
			return domain.Rental{}, fmt.Errorf("%w: rental state changed concurrently", ErrInvalidTransition)
		}

		return domain.Rental{}, fmt.Errorf("s.repo.MarkCancelled -> %w", err)
	}

	if targetPaymentStatus == domain.PaymentRefundVerification {
		err = s.paymentRepo.UpdateStatusByRentalID(ctx, rentalID, domain.PaymentStateRefundVerification)
		if err != nil {
			// The rental's own payment status is authoritative; a missing or
			// unreachable payment record must not undo the cancellation.
			zap.L().Warn("could not update payment record for cancelled rental",
				zap.Uint("rental_id", rentalID),
				zap.Error(err))
		}
	}

	s.releaseCopy(ctx, rental.BookID)

	return s.repo.FindByID(ctx, rentalID)
}

func (s *RentalService) History(ctx context.Context, userID uint) ([]domain.Rental, error) {
	rentals, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUserID -> %w", err)
	}

	return rentals, nil
}

// releaseCopy credits a copy back to stock. The increment is clamped at the
// book's total, so a failure here can only under-credit, never corrupt; it is
// logged rather than propagated because the rental write already committed.
func (s *RentalService) releaseCopy(ctx context.Context, bookID uint) {
	if err := s.bookRepo.ReleaseCopy(ctx, bookID); err != nil {
		zap.L().Error("failed to release book copy",
			zap.Uint("book_id", bookID),
			zap.Error(err))
	}
}
