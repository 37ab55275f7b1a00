package domain

type DashboardCounts struct {
	Booked  int64 `json:"booked"`
	Rented  int64 `json:"rented"`
	Overdue int64 `json:"overdue"`
}

// DashboardReport aggregates the store's state over an optional one-day
// window, or all time. Revenue only counts confirmed-paid rentals.
type DashboardReport struct {
	Counts       DashboardCounts `json:"counts"`
	Revenue      int64           `json:"revenue"`
	Transactions []Rental        `json:"transactions"`
}
