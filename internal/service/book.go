package service

import (
	"context"
	"errors"
	"fmt"

	"bookrental/internal/domain"
	"bookrental/internal/repository"
)

var (
	ErrBookNotFound = repository.ErrBookNotFound

	ErrInvalidPricing = errors.New("pricing must increase with duration")
	ErrInvalidStock   = errors.New("stock total must be at least 1")
)

type BookRepository interface {
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	FindByID(ctx context.Context, id uint) (domain.Book, error)
	Search(ctx context.Context, title string) ([]domain.Book, error)
	Update(ctx context.Context, book domain.Book) (domain.Book, error)
	Delete(ctx context.Context, id uint) error
}

type BookService struct {
	repo BookRepository
}

func NewBookService(repo BookRepository) *BookService {
	return &BookService{
		repo: repo,
	}
}

func (s *BookService) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	if book.Stock.Total < 1 {
		return domain.Book{}, ErrInvalidStock
	}
	if !book.Pricing.IsAscending() {
		return domain.Book{}, ErrInvalidPricing
	}

	// A new title starts fully stocked and open for reservations.
	book.Stock.Available = book.Stock.Total
	if book.Status == "" {
		book.Status = domain.BookAvailable
	}

	created, err := s.repo.Create(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BookService) GetByID(ctx context.Context, id uint) (domain.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return book, nil
}

func (s *BookService) Search(ctx context.Context, title string) ([]domain.Book, error) {
	books, err := s.repo.Search(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Search -> %w", err)
	}

	return books, nil
}

func (s *BookService) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	if !book.Pricing.IsAscending() {
		return domain.Book{}, ErrInvalidPricing
	}
	if book.Status != domain.BookAvailable && book.Status != domain.BookUnavailable {
		return domain.Book{}, fmt.Errorf("unknown book status %q", book.Status)
	}

	updated, err := s.repo.Update(ctx, book)
	if err != nil {
		return domain.Book{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *BookService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
