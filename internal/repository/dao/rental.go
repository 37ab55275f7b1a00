package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRentalNotFound = errors.New("rental not found")

	// ErrRentalStateChanged means a conditional transition matched no row: the
	// rental was not in the expected state at the moment of the write. The
	// second of two racing calls always lands here.
	ErrRentalStateChanged = errors.New("rental not in expected state")
)

type Rental struct {
	ID uint `gorm:"primaryKey"`

	UserID uint `gorm:"index;not null"`
	User   User `gorm:"foreignKey:UserID"`
	BookID uint `gorm:"index;not null"`
	Book   Book `gorm:"foreignKey:BookID"`

	BorrowDate time.Time `gorm:"not null"`
	DueDate    time.Time `gorm:"index;not null"`
	ReturnDate *time.Time

	Cost int `gorm:"not null"`
	Fine int `gorm:"not null;default:0"`

	Status        string `gorm:"index;not null;default:'booked'"`
	PaymentStatus string `gorm:"not null;default:'pending'"`

	CreatedAt time.Time `gorm:"index;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type RentalDAO struct {
	db *gorm.DB
}

func NewRentalDAO(db *gorm.DB) *RentalDAO {
	return &RentalDAO{
		db: db,
	}
}

func (d *RentalDAO) Insert(ctx context.Context, rental Rental) (Rental, error) {
	result := d.db.WithContext(ctx).Create(&rental)
	if result.Error != nil {
		return Rental{}, result.Error
	}

	return rental, nil
}

func (d *RentalDAO) FindByID(ctx context.Context, id uint) (Rental, error) {
	var rental Rental

	result := d.db.WithContext(ctx).First(&rental, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Rental{}, ErrRentalNotFound
		}

		return Rental{}, result.Error
	}

	return rental, nil
}

func (d *RentalDAO) FindByUserID(ctx context.Context, userID uint) ([]Rental, error) {
	var rentals []Rental

	result := d.db.WithContext(ctx).
		Preload("User").
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rentals)
	if result.Error != nil {
		return nil, result.Error
	}

	return rentals, nil
}

// MarkRented flips booked -> rented and stamps the handover time. The status
// and payment predicates ride on the UPDATE itself so a stale caller cannot
// slip through between read and write.
func (d *RentalDAO) MarkRented(ctx context.Context, id uint, borrowDate time.Time) error {
	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("id = ? AND status = ? AND payment_status = ?", id, "booked", "paid").
		Updates(map[string]interface{}{
			"status":      "rented",
			"borrow_date": borrowDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalStateChanged
	}

	return nil
}

// MarkReturned flips rented -> returned. Of two racing return calls only one
// matches, which is what keeps the stock release from running twice.
func (d *RentalDAO) MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine int) error {
	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("id = ? AND status = ?", id, "rented").
		Updates(map[string]interface{}{
			"status":      "returned",
			"return_date": returnDate,
			"fine":        fine,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalStateChanged
	}

	return nil
}

// MarkCancelled flips booked -> cancelled and records the outcome of the
// payment side (cancelled or refund_verification) in the same write.
func (d *RentalDAO) MarkCancelled(ctx context.Context, id uint, paymentStatus string) error {
	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("id = ? AND status = ?", id, "booked").
		Updates(map[string]interface{}{
			"status":         "cancelled",
			"payment_status": paymentStatus,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalStateChanged
	}

	return nil
}

// SetPaymentStatusIf moves the rental's payment status, but only if it still
// holds the value the caller branched on. A transition landing between the
// caller's read and this write makes the predicate miss instead of being
// overwritten.
func (d *RentalDAO) SetPaymentStatusIf(ctx context.Context, id uint, expected, next string) error {
	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("id = ? AND payment_status = ?", id, expected).
		Update("payment_status", next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalStateChanged
	}

	return nil
}

// HasOverdue reports whether the user still holds a rented copy due before the
// cutoff. Such a renter is blocked from new reservations.
func (d *RentalDAO) HasOverdue(ctx context.Context, userID uint, cutoff time.Time) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Rental{}).
		Where("user_id = ? AND status = ? AND due_date < ?", userID, "rented", cutoff).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *RentalDAO) CountByStatus(ctx context.Context, status string, from, to *time.Time) (int64, error) {
	var count int64

	query := d.db.WithContext(ctx).Model(&Rental{}).Where("status = ?", status)
	query = applyWindow(query, from, to)

	result := query.Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

func (d *RentalDAO) CountOverdue(ctx context.Context, cutoff time.Time, from, to *time.Time) (int64, error) {
	var count int64

	query := d.db.WithContext(ctx).Model(&Rental{}).
		Where("status = ? AND due_date < ?", "rented", cutoff)
	query = applyWindow(query, from, to)

	result := query.Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// SumRevenue totals the snapshotted cost of confirmed-paid, non-cancelled
// rentals. Mere reservations never count as revenue.
func (d *RentalDAO) SumRevenue(ctx context.Context, from, to *time.Time) (int64, error) {
	var revenue int64

	query := d.db.WithContext(ctx).Model(&Rental{}).
		Where("payment_status = ? AND status <> ?", "paid", "cancelled")
	query = applyWindow(query, from, to)

	result := query.Select("COALESCE(SUM(cost), 0)").Scan(&revenue)
	if result.Error != nil {
		return 0, result.Error
	}

	return revenue, nil
}

func (d *RentalDAO) FindInWindow(ctx context.Context, from, to *time.Time) ([]Rental, error) {
	var rentals []Rental

	query := d.db.WithContext(ctx).
		Preload("User").
		Preload("Book")
	query = applyWindow(query, from, to)

	result := query.Order("created_at DESC").Find(&rentals)
	if result.Error != nil {
		return nil, result.Error
	}

	return rentals, nil
}

func applyWindow(query *gorm.DB, from, to *time.Time) *gorm.DB {
	if from != nil && to != nil {
		query = query.Where("created_at BETWEEN ? AND ?", *from, *to)
	}

	return query
}
