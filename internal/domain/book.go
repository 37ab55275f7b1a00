package domain

import "time"

const (
	BookAvailable   = "available"
	BookUnavailable = "unavailable"
)

// AllowedDurations are the only rental lengths the store offers, in days.
var AllowedDurations = []int{3, 5, 7}

type Stock struct {
	Total     int `json:"total"`
	Available int `json:"available"`
}

// Pricing maps each allowed duration to its price. Prices must be strictly
// increasing with duration.
type Pricing struct {
	Day3 int `json:"day3"`
	Day5 int `json:"day5"`
	Day7 int `json:"day7"`
}

func (p Pricing) PriceFor(days int) (int, bool) {
	switch days {
	case 3:
		return p.Day3, true
	case 5:
		return p.Day5, true
	case 7:
		return p.Day7, true
	default:
		return 0, false
	}
}

func (p Pricing) IsAscending() bool {
	return p.Day3 > 0 && p.Day3 < p.Day5 && p.Day5 < p.Day7
}

func IsAllowedDuration(days int) bool {
	for _, d := range AllowedDurations {
		if d == days {
			return true
		}
	}

	return false
}

type Book struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	CoverImage  string    `json:"cover_image"`
	Stock       Stock     `json:"stock"`
	Pricing     Pricing   `json:"pricing"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
