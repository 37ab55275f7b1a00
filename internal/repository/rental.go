package repository

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/domain"
	"bookrental/internal/repository/dao"
)

var (
	ErrRentalNotFound     = dao.ErrRentalNotFound
	ErrRentalStateChanged = dao.ErrRentalStateChanged
)

type RentalDAO interface {
	Insert(ctx context.Context, rental dao.Rental) (dao.Rental, error)
	FindByID(ctx context.Context, id uint) (dao.Rental, error)
	FindByUserID(ctx context.Context, userID uint) ([]dao.Rental, error)
	MarkRented(ctx context.Context, id uint, borrowDate time.Time) error
	MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine int) error
	MarkCancelled(ctx context.Context, id uint, paymentStatus string) error
	SetPaymentStatusIf(ctx context.Context, id uint, expected, next string) error
	HasOverdue(ctx context.Context, userID uint, cutoff time.Time) (bool, error)
	CountByStatus(ctx context.Context, status string, from, to *time.Time) (int64, error)
	CountOverdue(ctx context.Context, cutoff time.Time, from, to *time.Time) (int64, error)
	SumRevenue(ctx context.Context, from, to *time.Time) (int64, error)
	FindInWindow(ctx context.Context, from, to *time.Time) ([]dao.Rental, error)
}

type RentalRepository struct {
	dao RentalDAO
}

func NewRentalRepository(dao RentalDAO) *RentalRepository {
	return &RentalRepository{
		dao: dao,
	}
}

func (r *RentalRepository) domainToDao(rental domain.Rental) dao.Rental {
	return dao.Rental{
		ID:            rental.ID,
		UserID:        rental.UserID,
		BookID:        rental.BookID,
		BorrowDate:    rental.BorrowDate,
		DueDate:       rental.DueDate,
		ReturnDate:    rental.ReturnDate,
		Cost:          rental.Cost,
		Fine:          rental.Fine,
		Status:        string(rental.Status),
		PaymentStatus: string(rental.PaymentStatus),
		CreatedAt:     rental.CreatedAt,
		UpdatedAt:     rental.UpdatedAt,
	}
}

func (r *RentalRepository) daoToDomain(rental dao.Rental) domain.Rental {
	converted := domain.Rental{
		ID:            rental.ID,
		UserID:        rental.UserID,
		BookID:        rental.BookID,
		BorrowDate:    rental.BorrowDate,
		DueDate:       rental.DueDate,
		ReturnDate:    rental.ReturnDate,
		Cost:          rental.Cost,
		Fine:          rental.Fine,
		Status:        domain.RentalStatus(rental.Status),
		PaymentStatus: domain.RentalPaymentStatus(rental.PaymentStatus),
		CreatedAt:     rental.CreatedAt,
		UpdatedAt:     rental.UpdatedAt,
	}

	if rental.User.ID != 0 {
		converted.User = &domain.User{
			ID:       rental.User.ID,
			Email:    rental.User.Email,
			Username: rental.User.Username,
			Role:     rental.User.Role,
		}
	}

	if rental.Book.ID != 0 {
		converted.Book = &domain.Book{
			ID:     rental.Book.ID,
			Title:  rental.Book.Title,
			Author: rental.Book.Author,
		}
	}

	return converted
}

func (r *RentalRepository) daosToDomain(rentalsDAO []dao.Rental) []domain.Rental {
	rentals := make([]domain.Rental, len(rentalsDAO))
	for i, rental := range rentalsDAO {
		rentals[i] = r.daoToDomain(rental)
	}

	return rentals
}

func (r *RentalRepository) Create(ctx context.Context, rental domain.Rental) (domain.Rental, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(rental))
	if err != nil {
		return domain.Rental{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RentalRepository) FindByID(ctx context.Context, id uint) (domain.Rental, error) {
	rental, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Rental{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(rental), nil
}

func (r *RentalRepository) FindByUserID(ctx context.Context, userID uint) ([]domain.Rental, error) {
	rentalsDAO, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return r.daosToDomain(rentalsDAO), nil
}

func (r *RentalRepository) MarkRented(ctx context.Context, id uint, borrowDate time.Time) error {
	if err := r.dao.MarkRented(ctx, id, borrowDate); err != nil {
		if err == dao.ErrRentalStateChanged {
			return ErrRentalStateChanged
		}

		return fmt.Errorf("r.dao.MarkRented -> %w", err)
	}

	return nil
}

func (r *RentalRepository) MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine int) error {
	if err := r.dao.MarkReturned(ctx, id, returnDate, fine); err != nil {
		if err == dao.ErrRentalStateChanged {
			return ErrRentalStateChanged
		}

		return fmt.Errorf("r.dao.MarkReturned -> %w", err)
	}

	return nil
}

func (r *RentalRepository) MarkCancelled(ctx context.Context, id uint, paymentStatus domain.RentalPaymentStatus) error {
	if err := r.dao.MarkCancelled(ctx, id, string(paymentStatus)); err != nil {
		if err == dao.ErrRentalStateChanged {
			return ErrRentalStateChanged
		}

		return fmt.Errorf("r.dao.MarkCancelled -> %w", err)
	}

	return nil
}

func (r *RentalRepository) SetPaymentStatusIf(ctx context.Context, id uint, expected, next domain.RentalPaymentStatus) error {
	if err := r.dao.SetPaymentStatusIf(ctx, id, string(expected), string(next)); err != nil {
		if err == dao.ErrRentalStateChanged {
			return ErrRentalStateChanged
		}

		return fmt.Errorf("r.dao.SetPaymentStatusIf -> %w", err)
	}

	return nil
}

func (r *RentalRepository) HasOverdue(ctx context.Context, userID uint, cutoff time.Time) (bool, error) {
	overdue, err := r.dao.HasOverdue(ctx, userID, cutoff)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasOverdue -> %w", err)
	}

	return overdue, nil
}

func (r *RentalRepository) CountByStatus(ctx context.Context, status domain.RentalStatus, from, to *time.Time) (int64, error) {
	count, err := r.dao.CountByStatus(ctx, string(status), from, to)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return count, nil
}

func (r *RentalRepository) CountOverdue(ctx context.Context, cutoff time.Time, from, to *time.Time) (int64, error) {
	count, err := r.dao.CountOverdue(ctx, cutoff, from, to)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountOverdue -> %w", err)
	}

	return count, nil
}

func (r *RentalRepository) SumRevenue(ctx context.Context, from, to *time.Time) (int64, error) {
	revenue, err := r.dao.SumRevenue(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumRevenue -> %w", err)
	}

	return revenue, nil
}

func (r *RentalRepository) FindInWindow(ctx context.Context, from, to *time.Time) ([]domain.Rental, error) {
	rentalsDAO, err := r.dao.FindInWindow(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindInWindow -> %w", err)
	}

	return r.daosToDomain(rentalsDAO), nil
}
