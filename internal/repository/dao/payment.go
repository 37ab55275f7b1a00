package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

// pendingStates are what the verification queue shows by default; allStates is
// the superset used for the per-day audit listing.
var (
	pendingStates = []string{"verification", "refund_verification"}
	allStates     = []string{"verification", "paid", "rejected", "refund_verification", "refunded", "refund_rejected"}
)

type Payment struct {
	ID uint `gorm:"primaryKey"`

	RentalID uint   `gorm:"index;not null"`
	Rental   Rental `gorm:"foreignKey:RentalID"`

	Amount  int    `gorm:"not null"`
	SlipURL string `gorm:"not null"`

	Status string `gorm:"index;not null;default:'verification'"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) FindByID(ctx context.Context, id uint) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Payment{}, ErrPaymentNotFound
		}

		return Payment{}, result.Error
	}

	return payment, nil
}

func (d *PaymentDAO) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

// UpdateStatusByRentalID touches the payment attached to a rental, if any.
// Callers on the cancellation path treat ErrPaymentNotFound as non-fatal.
func (d *PaymentDAO) UpdateStatusByRentalID(ctx context.Context, rentalID uint, status string) error {
	result := d.db.WithContext(ctx).Model(&Payment{}).
		Where("rental_id = ?", rentalID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPaymentNotFound
	}

	return nil
}

func (d *PaymentDAO) FindPending(ctx context.Context) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).
		Preload("Rental").
		Preload("Rental.User").
		Preload("Rental.Book").
		Where("status IN ?", pendingStates).
		Order("created_at DESC").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}

// FindByDay lists every claim created within [dayStart, dayEnd] regardless of
// outcome, for the per-day audit view.
func (d *PaymentDAO) FindByDay(ctx context.Context, dayStart, dayEnd time.Time) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).
		Preload("Rental").
		Preload("Rental.User").
		Preload("Rental.Book").
		Where("created_at BETWEEN ? AND ? AND status IN ?", dayStart, dayEnd, allStates).
		Order("created_at DESC").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}
