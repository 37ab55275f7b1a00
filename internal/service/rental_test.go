package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookrental/internal/domain"
	"bookrental/internal/pkg/clock"
	"bookrental/internal/repository"
	"bookrental/internal/service"
)

// fakeRentalRepo mirrors the conditional-update semantics of the real DAO:
// state transitions only apply when the row is still in the expected state.
type fakeRentalRepo struct {
	mu        sync.Mutex
	nextID    uint
	rentals   map[uint]domain.Rental
	overdue   bool
	createErr error
}

func newFakeRentalRepo() *fakeRentalRepo {
	return &fakeRentalRepo{
		nextID:  1,
		rentals: make(map[uint]domain.Rental),
	}
}

func (f *fakeRentalRepo) add(rental domain.Rental) domain.Rental {
	f.mu.Lock()
	defer f.mu.Unlock()

	rental.ID = f.nextID
	f.nextID++
	f.rentals[rental.ID] = rental

	return rental
}

func (f *fakeRentalRepo) Create(ctx context.Context, rental domain.Rental) (domain.Rental, error) {
	if f.createErr != nil {
		return domain.Rental{}, f.createErr
	}

	return f.add(rental), nil
}

func (f *fakeRentalRepo) FindByID(ctx context.Context, id uint) (domain.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rental, ok := f.rentals[id]
	if !ok {
		return domain.Rental{}, repository.ErrRentalNotFound
	}

	return rental, nil
}

func (f *fakeRentalRepo) FindByUserID(ctx context.Context, userID uint) ([]domain.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var rentals []domain.Rental
	for _, rental := range f.rentals {
		if rental.UserID == userID {
			rentals = append(rentals, rental)
		}
	}

	return rentals, nil
}

func (f *fakeRentalRepo) MarkRented(ctx context.Context, id uint, borrowDate time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rental, ok := f.rentals[id]
	if !ok || rental.Status != domain.RentalBooked || rental.PaymentStatus != domain.PaymentPaid {
		return repository.ErrRentalStateChanged
	}

	rental.Status = domain.RentalRented
	rental.BorrowDate = borrowDate
	f.rentals[id] = rental

	return nil
}

func (f *fakeRentalRepo) MarkReturned(ctx context.Context, id uint, returnDate time.Time, fine int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rental, ok := f.rentals[id]
	if !ok || rental.Status != domain.RentalRented {
		return repository.ErrRentalStateChanged
	}

	rental.Status = domain.RentalReturned
	rental.ReturnDate = &returnDate
	rental.Fine = fine
	f.rentals[id] = rental

	return nil
}

func (f *fakeRentalRepo) MarkCancelled(ctx context.Context, id uint, paymentStatus domain.RentalPaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rental, ok := f.rentals[id]
	if !ok || rental.Status != domain.RentalBooked {
		return repository.ErrRentalStateChanged
	}

	rental.Status = domain.RentalCancelled
	rental.PaymentStatus = paymentStatus
	f.rentals[id] = rental

	return nil
}

func (f *fakeRentalRepo) HasOverdue(ctx context.Context, userID uint, cutoff time.Time) (bool, error) {
	return f.overdue, nil
}

// fakeStockRepo guards its counters with a mutex the way the database guards
// the conditional UPDATE, so the concurrency test exercises real contention.
type fakeStockRepo struct {
	mu    sync.Mutex
	books map[uint]domain.Book
}

func newFakeStockRepo(books ...domain.Book) *fakeStockRepo {
	f := &fakeStockRepo{books: make(map[uint]domain.Book)}
	for _, book := range books {
		f.books[book.ID] = book
	}

	return f
}

func (f *fakeStockRepo) FindByID(ctx context.Context, id uint) (domain.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok {
		return domain.Book{}, repository.ErrBookNotFound
	}

	return book, nil
}

func (f *fakeStockRepo) ReserveCopy(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok || book.Status != domain.BookAvailable || book.Stock.Available <= 0 {
		return repository.ErrBookUnavailable
	}

	book.Stock.Available--
	f.books[id] = book

	return nil
}

func (f *fakeStockRepo) ReleaseCopy(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	book, ok := f.books[id]
	if !ok || book.Stock.Available >= book.Stock.Total {
		return nil
	}

	book.Stock.Available++
	f.books[id] = book

	return nil
}

func (f *fakeStockRepo) available(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.books[id].Stock.Available
}

type fakePaymentStatusRepo struct {
	mu      sync.Mutex
	calls   []domain.PaymentState
	callErr error
}

func (f *fakePaymentStatusRepo) UpdateStatusByRentalID(ctx context.Context, rentalID uint, status domain.PaymentState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.callErr != nil {
		return f.callErr
	}
	f.calls = append(f.calls, status)

	return nil
}

func testBook() domain.Book {
	return domain.Book{
		ID:     1,
		Title:  "The Go Programming Language",
		Status: domain.BookAvailable,
		Stock: domain.Stock{
			Total:     3,
			Available: 3,
		},
		Pricing: domain.Pricing{
			Day3: 30,
			Day5: 45,
			Day7: 60,
		},
	}
}

func newRentalService(rentals *fakeRentalRepo, stock *fakeStockRepo, payments *fakePaymentStatusRepo, clk clock.Clock) *service.RentalService {
	if payments == nil {
		payments = &fakePaymentStatusRepo{}
	}
	if clk == nil {
		clk = clock.NewMockClock(time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC))
	}

	return service.NewRentalService(rentals, stock, payments, clk)
}

func TestRent_InvalidDuration(t *testing.T) {
	svc := newRentalService(newFakeRentalRepo(), newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Rent(context.Background(), 1, 1, 4)

	assert.ErrorIs(t, err, service.ErrInvalidDuration)
}

func TestRent_BlockedByOverdueRental(t *testing.T) {
	rentals := newFakeRentalRepo()
	rentals.overdue = true
	stock := newFakeStockRepo(testBook())
	svc := newRentalService(rentals, stock, nil, nil)

	_, err := svc.Rent(context.Background(), 1, 1, 3)

	assert.ErrorIs(t, err, service.ErrRenterBlocked)
	assert.Equal(t, 3, stock.available(1), "no copy may be claimed for a blocked renter")
}

func TestRent_BookOutOfStock(t *testing.T) {
	book := testBook()
	book.Stock.Available = 0
	svc := newRentalService(newFakeRentalRepo(), newFakeStockRepo(book), nil, nil)

	_, err := svc.Rent(context.Background(), 1, 1, 3)

	assert.ErrorIs(t, err, service.ErrBookUnavailable)
}

func TestRent_BookDisabled(t *testing.T) {
	book := testBook()
	book.Status = domain.BookUnavailable
	svc := newRentalService(newFakeRentalRepo(), newFakeStockRepo(book), nil, nil)

	_, err := svc.Rent(context.Background(), 1, 1, 3)

	assert.ErrorIs(t, err, service.ErrBookUnavailable)
}

func TestRent_Success(t *testing.T) {
	now := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	stock := newFakeStockRepo(testBook())
	svc := newRentalService(newFakeRentalRepo(), stock, nil, clock.NewMockClock(now))

	rental, err := svc.Rent(context.Background(), 7, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, uint(7), rental.UserID)
	assert.Equal(t, uint(1), rental.BookID)
	assert.Equal(t, domain.RentalBooked, rental.Status)
	assert.Equal(t, domain.PaymentPending, rental.PaymentStatus)
	assert.Equal(t, 45, rental.Cost, "cost snapshots the 5-day price")
	assert.Equal(t, domain.DueDateFor(now, 5), rental.DueDate)
	assert.Equal(t, 2, stock.available(1))
}

func TestRent_ReleasesCopyWhenCreateFails(t *testing.T) {
	rentals := newFakeRentalRepo()
	rentals.createErr = errors.New("insert failed")
	stock := newFakeStockRepo(testBook())
	svc := newRentalService(rentals, stock, nil, nil)

	_, err := svc.Rent(context.Background(), 1, 1, 3)

	require.Error(t, err)
	assert.Equal(t, 3, stock.available(1), "the claimed copy must be credited back")
}

func TestRent_ConcurrentReservations(t *testing.T) {
	const renters = 20

	stock := newFakeStockRepo(testBook()) // 3 copies
	svc := newRentalService(newFakeRentalRepo(), stock, nil, nil)

	var wg sync.WaitGroup
	errs := make(chan error, renters)

	for i := 0; i < renters; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.Rent(context.Background(), userID, 1, 3)
			errs <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, service.ErrBookUnavailable):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 3, won, "exactly one rental per copy")
	assert.Equal(t, renters-3, lost)
	assert.Equal(t, 0, stock.available(1))
}

func TestPickup_RentalNotFound(t *testing.T) {
	svc := newRentalService(newFakeRentalRepo(), newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Pickup(context.Background(), 99)

	assert.ErrorIs(t, err, service.ErrRentalNotFound)
}

func TestPickup_RequiresBookedStatus(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalRented,
		PaymentStatus: domain.PaymentPaid,
	})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Pickup(context.Background(), rental.ID)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestPickup_RequiresConfirmedPayment(t *testing.T) {
	rentals := newFakeRentalRepo()

	for _, status := range []domain.RentalPaymentStatus{
		domain.PaymentPending,
		domain.PaymentVerification,
	} {
		rental := rentals.add(domain.Rental{
			UserID:        1,
			BookID:        1,
			Status:        domain.RentalBooked,
			PaymentStatus: status,
		})
		svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

		_, err := svc.Pickup(context.Background(), rental.ID)

		assert.ErrorIs(t, err, service.ErrPaymentNotConfirmed, "payment status %v", status)
	}
}

func TestPickup_Success(t *testing.T) {
	reservedAt := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)
	pickedUpAt := reservedAt.Add(26 * time.Hour)

	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		BorrowDate:    reservedAt,
		DueDate:       domain.DueDateFor(reservedAt, 3),
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentPaid,
	})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, clock.NewMockClock(pickedUpAt))

	got, err := svc.Pickup(context.Background(), rental.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.RentalRented, got.Status)
	assert.Equal(t, pickedUpAt, got.BorrowDate, "borrow date moves to the handover moment")
	assert.Equal(t, domain.DueDateFor(reservedAt, 3), got.DueDate, "due date stays fixed from reservation time")
}

func TestReturn_RequiresRentedStatus(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID: 1,
		BookID: 1,
		Status: domain.RentalBooked,
	})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Return(context.Background(), rental.ID)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestReturn_OnTime(t *testing.T) {
	borrowedAt := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		BorrowDate:    borrowedAt,
		DueDate:       domain.DueDateFor(borrowedAt, 3),
		Status:        domain.RentalRented,
		PaymentStatus: domain.PaymentPaid,
	})

	book := testBook()
	book.Stock.Available = 2
	stock := newFakeStockRepo(book)

	returnedAt := time.Date(2024, time.March, 12, 17, 0, 0, 0, time.UTC)
	svc := newRentalService(rentals, stock, nil, clock.NewMockClock(returnedAt))

	got, err := svc.Return(context.Background(), rental.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.RentalReturned, got.Status)
	assert.Equal(t, 0, got.Fine)
	require.NotNil(t, got.ReturnDate)
	assert.Equal(t, returnedAt, *got.ReturnDate)
	assert.Equal(t, 3, stock.available(1), "the copy goes back into stock")
}

func TestReturn_LateChargesFinePerDay(t *testing.T) {
	borrowedAt := time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		BorrowDate:    borrowedAt,
		DueDate:       domain.DueDateFor(borrowedAt, 3), // due 2024-03-13
		Status:        domain.RentalRented,
		PaymentStatus: domain.PaymentPaid,
	})

	book := testBook()
	book.Stock.Available = 2
	returnedAt := time.Date(2024, time.March, 16, 8, 0, 0, 0, time.UTC) // 3 days late
	svc := newRentalService(rentals, newFakeStockRepo(book), nil, clock.NewMockClock(returnedAt))

	got, err := svc.Return(context.Background(), rental.ID)

	require.NoError(t, err)
	assert.Equal(t, 3*domain.FinePerDay, got.Fine)
}

func TestCancel_OnlyOwnerMayCancel(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentPending,
	})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Cancel(context.Background(), rental.ID, 2)

	assert.ErrorIs(t, err, service.ErrNotRentalOwner)
}

func TestCancel_RequiresBookedStatus(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalRented,
		PaymentStatus: domain.PaymentPaid,
	})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

	_, err := svc.Cancel(context.Background(), rental.ID, 1)

	assert.ErrorIs(t, err, service.ErrInvalidTransition)
}

func TestCancel_WithoutPaymentClaim(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentPending,
	})

	book := testBook()
	book.Stock.Available = 2
	stock := newFakeStockRepo(book)
	payments := &fakePaymentStatusRepo{}
	svc := newRentalService(rentals, stock, payments, nil)

	got, err := svc.Cancel(context.Background(), rental.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.RentalCancelled, got.Status)
	assert.Equal(t, domain.PaymentCancelled, got.PaymentStatus)
	assert.Empty(t, payments.calls, "no payment record exists to update")
	assert.Equal(t, 3, stock.available(1))
}

func TestCancel_WithPaymentClaimEntersRefundFlow(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentVerification,
	})

	book := testBook()
	book.Stock.Available = 2
	stock := newFakeStockRepo(book)
	payments := &fakePaymentStatusRepo{}
	svc := newRentalService(rentals, stock, payments, nil)

	got, err := svc.Cancel(context.Background(), rental.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.RentalCancelled, got.Status)
	assert.Equal(t, domain.PaymentRefundVerification, got.PaymentStatus)
	assert.Equal(t, []domain.PaymentState{domain.PaymentStateRefundVerification}, payments.calls)
	assert.Equal(t, 3, stock.available(1))
}

func TestCancel_PaymentUpdateFailureDoesNotUndoCancellation(t *testing.T) {
	rentals := newFakeRentalRepo()
	rental := rentals.add(domain.Rental{
		UserID:        1,
		BookID:        1,
		Status:        domain.RentalBooked,
		PaymentStatus: domain.PaymentPaid,
	})

	book := testBook()
	book.Stock.Available = 2
	payments := &fakePaymentStatusRepo{callErr: errors.New("payment row gone")}
	svc := newRentalService(rentals, newFakeStockRepo(book), payments, nil)

	got, err := svc.Cancel(context.Background(), rental.ID, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.RentalCancelled, got.Status)
	assert.Equal(t, domain.PaymentRefundVerification, got.PaymentStatus)
}

func TestHistory(t *testing.T) {
	rentals := newFakeRentalRepo()
	rentals.add(domain.Rental{UserID: 1, BookID: 1, Status: domain.RentalBooked})
	rentals.add(domain.Rental{UserID: 2, BookID: 1, Status: domain.RentalBooked})
	rentals.add(domain.Rental{UserID: 1, BookID: 2, Status: domain.RentalReturned})
	svc := newRentalService(rentals, newFakeStockRepo(testBook()), nil, nil)

	history, err := svc.History(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, history, 2)
}
