package repository

import (
	"context"
	"fmt"

	"bookrental/internal/domain"
	"bookrental/internal/repository/dao"
)

var (
	ErrBookNotFound    = dao.ErrBookNotFound
	ErrBookUnavailable = dao.ErrBookUnavailable
)

type BookDAO interface {
	Insert(ctx context.Context, book dao.Book) (dao.Book, error)
	FindByID(ctx context.Context, id uint) (dao.Book, error)
	Search(ctx context.Context, title string) ([]dao.Book, error)
	Update(ctx context.Context, book dao.Book) (dao.Book, error)
	Delete(ctx context.Context, id uint) error
	ReserveCopy(ctx context.Context, id uint) error
	ReleaseCopy(ctx context.Context, id uint) error
}

type BookRepository struct {
	dao BookDAO
}

func NewBookRepository(dao BookDAO) *BookRepository {
	return &BookRepository{
		dao: dao,
	}
}

func (r *BookRepository) domainToDao(b domain.Book) dao.Book {
	return dao.Book{
		ID:             b.ID,
		Title:          b.Title,
		Author:         b.Author,
		Category:       b.Category,
		Description:    b.Description,
		CoverImage:     b.CoverImage,
		StockTotal:     b.Stock.Total,
		StockAvailable: b.Stock.Available,
		PriceDay3:      b.Pricing.Day3,
		PriceDay5:      b.Pricing.Day5,
		PriceDay7:      b.Pricing.Day7,
		Status:         b.Status,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func (r *BookRepository) daoToDomain(b dao.Book) domain.Book {
	return domain.Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		Stock: domain.Stock{
			Total:     b.StockTotal,
			Available: b.StockAvailable,
		},
		Pricing: domain.Pricing{
			Day3: b.PriceDay3,
			Day5: b.PriceDay5,
			Day7: b.PriceDay7,
		},
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func (r *BookRepository) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(book))
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *BookRepository) FindByID(ctx context.Context, id uint) (domain.Book, error) {
	book, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(book), nil
}

func (r *BookRepository) Search(ctx context.Context, title string) ([]domain.Book, error) {
	booksDAO, err := r.dao.Search(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Search -> %w", err)
	}

	books := make([]domain.Book, len(booksDAO))
	for i, b := range booksDAO {
		books[i] = r.daoToDomain(b)
	}

	return books, nil
}

func (r *BookRepository) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(book))
	if err != nil {
		return domain.Book{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *BookRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BookRepository) ReserveCopy(ctx context.Context, id uint) error {
	if err := r.dao.ReserveCopy(ctx, id); err != nil {
		if err == dao.ErrBookUnavailable {
			return ErrBookUnavailable
		}

		return fmt.Errorf("r.dao.ReserveCopy -> %w", err)
	}

	return nil
}

func (r *BookRepository) ReleaseCopy(ctx context.Context, id uint) error {
	if err := r.dao.ReleaseCopy(ctx, id); err != nil {
		return fmt.Errorf("r.dao.ReleaseCopy -> %w", err)
	}

	return nil
}
