package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Houssam365/campuShare/internal/models"
)

func TestHourly_SubHourBilledAsOneHour(t *testing.T) {
	h := NewHourly(1)
	for _, d := range []time.Duration{0, time.Second, 59 * time.Minute} {
		for _, b := range []float64{0, 3, 12.5} {
			assert.Equal(t, b, h.ComputePrice(b, d), "base %v duration %v", b, d)
		}
	}
}

func TestHourly_WholeHoursTimesRate(t *testing.T) {
	assert.Equal(t, 30.0, NewHourly(1).ComputePrice(10, 3*time.Hour+59*time.Minute))
	assert.Equal(t, 45.0, NewHourly(1.5).ComputePrice(10, 3*time.Hour))
	assert.Equal(t, DefaultHourlyRate, NewHourly(0).Rate)
}

func TestDaily_DiscountFromAWeek(t *testing.T) {
	p := NewDaily(DefaultDailyDiscount)

	tests := []struct {
		base float64
		d    time.Duration
		want float64
	}{
		{10, time.Hour, 10},
		{10, 6 * day, 60},
		{10, 6*day + 23*time.Hour, 60},
		{10, 7 * day, 56},
		{10, 10 * day, 80},
		{3.33, 7 * day, 18.65},
		{0.125, 1 * day, 0.13},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.ComputePrice(tt.base, tt.d), "base %v duration %v", tt.base, tt.d)
	}
}

func TestDaily_MatchesRoundedFormula(t *testing.T) {
	p := NewDaily(0.20)
	for days := int64(7); days <= 40; days++ {
		for _, b := range []float64{1, 2.5, 9.99, 15} {
			want := float64(int64(b*float64(days)*0.8*100+0.5)) / 100
			assert.InDelta(t, want, p.ComputePrice(b, time.Duration(days)*day), 1e-9)
		}
	}
}

func TestDaily_InvalidDiscountFallsBack(t *testing.T) {
	assert.Equal(t, DefaultDailyDiscount, NewDaily(-0.1).Discount)
	assert.Equal(t, DefaultDailyDiscount, NewDaily(1).Discount)
	assert.Equal(t, 0.5, NewDaily(0.5).Discount)
	assert.Equal(t, "billed per day, 20% off from 7 days", NewDaily(0.2).Description())
}

func TestFlatAndFree(t *testing.T) {
	for _, d := range []time.Duration{0, time.Minute, 30 * day} {
		assert.Equal(t, 42.0, Flat{}.ComputePrice(42, d))
		assert.Zero(t, Free{}.ComputePrice(42, d))
	}
}

func TestComputePriceIsDeterministic(t *testing.T) {
	for _, p := range []models.PricingPolicy{NewHourly(2), NewDaily(0.2), Flat{}, Free{}} {
		first := p.ComputePrice(7.77, 9*day+5*time.Hour)
		assert.Equal(t, first, p.ComputePrice(7.77, 9*day+5*time.Hour), p.Name())
	}
}

func TestRegistry_ByName(t *testing.T) {
	r := NewRegistry(2, 0.3)

	p, err := r.ByName(" Daily ")
	require.NoError(t, err)
	assert.Equal(t, Daily{Discount: 0.3}, p)

	p, err = r.ByName("hourly")
	require.NoError(t, err)
	assert.Equal(t, Hourly{Rate: 2}, p)

	_, err = r.ByName("weekly")
	assert.True(t, errors.Is(err, models.ErrValidation))

	assert.Equal(t, []string{"daily", "flat", "free", "hourly"}, r.Names())
}
