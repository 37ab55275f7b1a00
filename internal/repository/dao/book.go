package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrBookUnavailable deliberately collapses "no such book", "disabled" and
	// "out of stock" into one condition; the storefront shows a single message
	// for all three.
	ErrBookUnavailable = errors.New("book is out of stock or not rentable")
)

type Book struct {
	ID uint `gorm:"primaryKey"`

	Title       string `gorm:"not null;index"`
	Author      string
	Category    string
	Description string
	CoverImage  string

	StockTotal     int `gorm:"not null;default:1"`
	StockAvailable int `gorm:"not null;default:1"`

	PriceDay3 int `gorm:"not null"`
	PriceDay5 int `gorm:"not null"`
	PriceDay7 int `gorm:"not null"`

	Status string `gorm:"not null;default:'available'"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type BookDAO struct {
	db *gorm.DB
}

func NewBookDAO(db *gorm.DB) *BookDAO {
	return &BookDAO{
		db: db,
	}
}

func (d *BookDAO) Insert(ctx context.Context, book Book) (Book, error) {
	result := d.db.WithContext(ctx).Create(&book)
	if result.Error != nil {
		return Book{}, result.Error
	}

	return book, nil
}

func (d *BookDAO) FindByID(ctx context.Context, id uint) (Book, error) {
	var book Book

	result := d.db.WithContext(ctx).First(&book, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Book{}, ErrBookNotFound
		}

		return Book{}, result.Error
	}

	return book, nil
}

func (d *BookDAO) Search(ctx context.Context, title string) ([]Book, error) {
	var books []Book

	query := d.db.WithContext(ctx)
	if title != "" {
		query = query.Where("title ILIKE ?", "%"+title+"%")
	}

	result := query.Order("created_at DESC").Find(&books)
	if result.Error != nil {
		return nil, result.Error
	}

	return books, nil
}

func (d *BookDAO) Update(ctx context.Context, book Book) (Book, error) {
	result := d.db.WithContext(ctx).Model(&Book{}).Where("id = ?", book.ID).Updates(map[string]interface{}{
		"title":       book.Title,
		"author":      book.Author,
		"category":    book.Category,
		"description": book.Description,
		"cover_image": book.CoverImage,
		"price_day3":  book.PriceDay3,
		"price_day5":  book.PriceDay5,
		"price_day7":  book.PriceDay7,
		"status":      book.Status,
	})
	if result.Error != nil {
		return Book{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Book{}, ErrBookNotFound
	}

	return d.FindByID(ctx, book.ID)
}

func (d *BookDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}

	return nil
}

// ReserveCopy claims one available copy. The decrement and the availability
// check are a single conditional UPDATE, so concurrent reservers can never
// drive stock_available below zero; RowsAffected is the admission signal.
func (d *BookDAO) ReserveCopy(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Book{}).
		Where("id = ? AND stock_available > 0 AND status = ?", id, "available").
		UpdateColumn("stock_available", gorm.Expr("stock_available - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookUnavailable
	}

	return nil
}

// ReleaseCopy returns one copy to stock, clamped at stock_total. A duplicate
// release matches no row and is absorbed silently.
func (d *BookDAO) ReleaseCopy(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Model(&Book{}).
		Where("id = ? AND stock_available < stock_total", id).
		UpdateColumn("stock_available", gorm.Expr("stock_available + 1"))

	return result.Error
}
