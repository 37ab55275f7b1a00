package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrental/internal/domain"
	"bookrental/internal/repository"
	"bookrental/internal/service"
)

type fakeBookRepo struct {
	nextID uint
	books  map[uint]domain.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		nextID: 1,
		books:  make(map[uint]domain.Book),
	}
}

func (f *fakeBookRepo) Create(ctx context.Context, book domain.Book) (domain.Book, error) {
	book.ID = f.nextID
	f.nextID++
	f.books[book.ID] = book

	return book, nil
}

func (f *fakeBookRepo) FindByID(ctx context.Context, id uint) (domain.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return domain.Book{}, repository.ErrBookNotFound
	}

	return book, nil
}

func (f *fakeBookRepo) Search(ctx context.Context, title string) ([]domain.Book, error) {
	var books []domain.Book
	for _, book := range f.books {
		books = append(books, book)
	}

	return books, nil
}

func (f *fakeBookRepo) Update(ctx context.Context, book domain.Book) (domain.Book, error) {
	if _, ok := f.books[book.ID]; !ok {
		return domain.Book{}, repository.ErrBookNotFound
	}
	f.books[book.ID] = book

	return book, nil
}

func (f *fakeBookRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := f.books[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(f.books, id)

	return nil
}

func TestCreateBook_RejectsNonAscendingPricing(t *testing.T) {
	svc := service.NewBookService(newFakeBookRepo())

	tests := []struct {
		name    string
		pricing domain.Pricing
	}{
		{"flat pricing", domain.Pricing{Day3: 45, Day5: 45, Day7: 45}},
		{"descending pricing", domain.Pricing{Day3: 60, Day5: 45, Day7: 30}},
		{"zero base price", domain.Pricing{Day3: 0, Day5: 45, Day7: 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), domain.Book{
				Title:   "Some Title",
				Stock:   domain.Stock{Total: 2},
				Pricing: tt.pricing,
			})

			assert.ErrorIs(t, err, service.ErrInvalidPricing)
		})
	}
}

func TestCreateBook_RejectsZeroStock(t *testing.T) {
	svc := service.NewBookService(newFakeBookRepo())

	_, err := svc.Create(context.Background(), domain.Book{
		Title:   "Some Title",
		Pricing: domain.Pricing{Day3: 30, Day5: 45, Day7: 60},
	})

	assert.ErrorIs(t, err, service.ErrInvalidStock)
}

func TestCreateBook_StartsFullyStocked(t *testing.T) {
	svc := service.NewBookService(newFakeBookRepo())

	book, err := svc.Create(context.Background(), domain.Book{
		Title:   "Some Title",
		Stock:   domain.Stock{Total: 4, Available: 1},
		Pricing: domain.Pricing{Day3: 30, Day5: 45, Day7: 60},
	})

	require.NoError(t, err)
	assert.Equal(t, 4, book.Stock.Available, "available is forced to total on creation")
	assert.Equal(t, domain.BookAvailable, book.Status)
}

func TestUpdateBook_RejectsUnknownStatus(t *testing.T) {
	repo := newFakeBookRepo()
	svc := service.NewBookService(repo)

	created, err := svc.Create(context.Background(), domain.Book{
		Title:   "Some Title",
		Stock:   domain.Stock{Total: 2},
		Pricing: domain.Pricing{Day3: 30, Day5: 45, Day7: 60},
	})
	require.NoError(t, err)

	created.Status = "on_fire"
	_, err = svc.Update(context.Background(), created)

	assert.Error(t, err)
}
