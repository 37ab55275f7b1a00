package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookrental/internal/domain"
)

func TestPriceFor(t *testing.T) {
	pricing := domain.Pricing{Day3: 30, Day5: 45, Day7: 60}

	price, ok := pricing.PriceFor(5)
	assert.True(t, ok)
	assert.Equal(t, 45, price)

	_, ok = pricing.PriceFor(4)
	assert.False(t, ok)
}

func TestIsAscending(t *testing.T) {
	assert.True(t, domain.Pricing{Day3: 30, Day5: 45, Day7: 60}.IsAscending())
	assert.False(t, domain.Pricing{Day3: 30, Day5: 30, Day7: 60}.IsAscending())
	assert.False(t, domain.Pricing{Day3: 60, Day5: 45, Day7: 30}.IsAscending())
	assert.False(t, domain.Pricing{Day3: 0, Day5: 45, Day7: 60}.IsAscending())
}

func TestIsAllowedDuration(t *testing.T) {
	for _, days := range domain.AllowedDurations {
		assert.True(t, domain.IsAllowedDuration(days))
	}

	assert.False(t, domain.IsAllowedDuration(1))
	assert.False(t, domain.IsAllowedDuration(4))
	assert.False(t, domain.IsAllowedDuration(10))
}
