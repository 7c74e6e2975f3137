// Package pricing implements the policies that turn a listing's base price
// and a reservation window into a total price.
package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Houssam365/campuShare/internal/models"
)

const (
	NameHourly = "hourly"
	NameDaily  = "daily"
	NameFlat   = "flat"
	NameFree   = "free"

	DefaultHourlyRate    = 1.0
	DefaultDailyDiscount = 0.20

	day = 24 * time.Hour
	// discountDays is the rental length from which Daily applies its discount.
	discountDays = 7
)

var (
	_ models.PricingPolicy = Hourly{}
	_ models.PricingPolicy = Daily{}
	_ models.PricingPolicy = Flat{}
	_ models.PricingPolicy = Free{}
)

// Hourly bills every whole hour, at least one, times Rate.
type Hourly struct {
	Rate float64
}

// NewHourly returns an hourly policy; a non-positive rate falls back to 1.
func NewHourly(rate float64) Hourly {
	if rate <= 0 {
		rate = DefaultHourlyRate
	}
	return Hourly{Rate: rate}
}

func (h Hourly) ComputePrice(basePrice float64, d time.Duration) float64 {
	return basePrice * float64(wholeUnits(d, time.Hour)) * h.Rate
}

func (Hourly) Name() string { return NameHourly }

func (h Hourly) Description() string {
	return fmt.Sprintf("billed per hour, one hour minimum (rate x%.1f)", h.Rate)
}

// Daily bills every whole day, at least one. Rentals of a week or more get
// Discount off. The result is rounded half-up to the cent.
type Daily struct {
	Discount float64
}

// NewDaily returns a daily policy; a discount outside [0,1) falls back to 20%.
func NewDaily(discount float64) Daily {
	if discount < 0 || discount >= 1 {
		discount = DefaultDailyDiscount
	}
	return Daily{Discount: discount}
}

func (p Daily) ComputePrice(basePrice float64, d time.Duration) float64 {
	days := wholeUnits(d, day)
	total := decimal.NewFromFloat(basePrice).Mul(decimal.NewFromInt(days))
	if days >= discountDays {
		total = total.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.Discount)))
	}
	f, _ := total.Round(2).Float64()
	return f
}

func (Daily) Name() string { return NameDaily }

func (p Daily) Description() string {
	return fmt.Sprintf("billed per day, %d%% off from %d days", int(p.Discount*100+0.5), discountDays)
}

// Flat charges the base price whatever the duration.
type Flat struct{}

func (Flat) ComputePrice(basePrice float64, _ time.Duration) float64 { return basePrice }
func (Flat) Name() string                                            { return NameFlat }
func (Flat) Description() string                                     { return "fixed price whatever the duration" }

// Free charges nothing.
type Free struct{}

func (Free) ComputePrice(float64, time.Duration) float64 { return 0 }
func (Free) Name() string                                { return NameFree }
func (Free) Description() string                         { return "free loan or gift between students" }

// wholeUnits counts the complete units in d, never less than one.
func wholeUnits(d, unit time.Duration) int64 {
	n := int64(d / unit)
	if n < 1 {
		return 1
	}
	return n
}

// Registry resolves policies by name with configured parameters.
type Registry struct {
	policies map[string]models.PricingPolicy
}

// NewRegistry builds the four policies with the given hourly rate and daily
// discount.
func NewRegistry(hourlyRate, dailyDiscount float64) *Registry {
	return &Registry{policies: map[string]models.PricingPolicy{
		NameHourly: NewHourly(hourlyRate),
		NameDaily:  NewDaily(dailyDiscount),
		NameFlat:   Flat{},
		NameFree:   Free{},
	}}
}

// ByName looks a policy up case-insensitively.
func (r *Registry) ByName(name string) (models.PricingPolicy, error) {
	p, ok := r.policies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown pricing policy %q: %w", name, models.ErrValidation)
	}
	return p, nil
}

// Names lists the registered policy names in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.policies))
	for n := range r.policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
