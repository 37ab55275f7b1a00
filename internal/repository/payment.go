package repository

import (
	"context"
	"fmt"
	"time"

	"bookrental/internal/domain"
	"bookrental/internal/repository/dao"
)

var ErrPaymentNotFound = dao.ErrPaymentNotFound

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateStatusByRentalID(ctx context.Context, rentalID uint, status string) error
	FindPending(ctx context.Context) ([]dao.Payment, error)
	FindByDay(ctx context.Context, dayStart, dayEnd time.Time) ([]dao.Payment, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) domainToDao(p domain.Payment) dao.Payment {
	return dao.Payment{
		ID:        p.ID,
		RentalID:  p.RentalID,
		Amount:    p.Amount,
		SlipURL:   p.SlipURL,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	converted := domain.Payment{
		ID:        p.ID,
		RentalID:  p.RentalID,
		Amount:    p.Amount,
		SlipURL:   p.SlipURL,
		Status:    domain.PaymentState(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}

	if p.Rental.ID != 0 {
		rental := domain.Rental{
			ID:            p.Rental.ID,
			UserID:        p.Rental.UserID,
			BookID:        p.Rental.BookID,
			Cost:          p.Rental.Cost,
			Status:        domain.RentalStatus(p.Rental.Status),
			PaymentStatus: domain.RentalPaymentStatus(p.Rental.PaymentStatus),
		}

		if p.Rental.User.ID != 0 {
			rental.User = &domain.User{
				ID:       p.Rental.User.ID,
				Username: p.Rental.User.Username,
			}
		}
		if p.Rental.Book.ID != 0 {
			rental.Book = &domain.Book{
				ID:    p.Rental.Book.ID,
				Title: p.Rental.Book.Title,
			}
		}

		converted.Rental = &rental
	}

	return converted
}

func (r *PaymentRepository) daosToDomain(paymentsDAO []dao.Payment) []domain.Payment {
	payments := make([]domain.Payment, len(paymentsDAO))
	for i, p := range paymentsDAO {
		payments[i] = r.daoToDomain(p)
	}

	return payments
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	payment, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(payment), nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uint, status domain.PaymentState) error {
	if err := r.dao.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *PaymentRepository) UpdateStatusByRentalID(ctx context.Context, rentalID uint, status domain.PaymentState) error {
	if err := r.dao.UpdateStatusByRentalID(ctx, rentalID, string(status)); err != nil {
		if err == dao.ErrPaymentNotFound {
			return ErrPaymentNotFound
		}

		return fmt.Errorf("r.dao.UpdateStatusByRentalID -> %w", err)
	}

	return nil
}

func (r *PaymentRepository) FindPending(ctx context.Context) ([]domain.Payment, error) {
	paymentsDAO, err := r.dao.FindPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPending -> %w", err)
	}

	return r.daosToDomain(paymentsDAO), nil
}

func (r *PaymentRepository) FindByDay(ctx context.Context, dayStart, dayEnd time.Time) ([]domain.Payment, error) {
	paymentsDAO, err := r.dao.FindByDay(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByDay -> %w", err)
	}

	return r.daosToDomain(paymentsDAO), nil
}
