package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNightTax(t *testing.T) {
	percentage := TaxRule{Name: "occupancy", Rate: 0.10, IsPercentage: true}
	flat := TaxRule{Name: "city", Rate: 150, IsPercentage: false}

	amount, rate := NightTax(18000, []TaxRule{percentage})
	assert.Equal(t, int64(1800), amount)
	assert.InDelta(t, 0.10, rate, 0.0001)

	amount, rate = NightTax(18000, []TaxRule{percentage, flat})
	assert.Equal(t, int64(1950), amount)
	assert.InDelta(t, float64(1950)/18000, rate, 0.0001)

	// Rounding on sub-cent products.
	amount, _ = NightTax(10001, []TaxRule{{Rate: 0.075, IsPercentage: true}})
	assert.Equal(t, int64(750), amount)

	amount, rate = NightTax(18000, nil)
	assert.Zero(t, amount)
	assert.Zero(t, rate)

	amount, rate = NightTax(0, []TaxRule{flat})
	assert.Equal(t, int64(150), amount)
	assert.Zero(t, rate)
}

func TestTaxRuleAppliesOn(t *testing.T) {
	to := day("2024-06-30")
	bounded := TaxRule{EffectiveFrom: day("2024-01-01"), EffectiveTo: &to}
	open := TaxRule{EffectiveFrom: day("2024-07-01")}

	assert.False(t, bounded.AppliesOn(day("2023-12-31")))
	assert.True(t, bounded.AppliesOn(day("2024-01-01")))
	assert.True(t, bounded.AppliesOn(day("2024-06-30")))
	assert.False(t, bounded.AppliesOn(day("2024-07-01")))

	assert.False(t, open.AppliesOn(day("2024-06-30")))
	assert.True(t, open.AppliesOn(day("2024-07-01")))
	assert.True(t, open.AppliesOn(day("2030-01-01")))
}
