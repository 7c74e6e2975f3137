// Package payment implements the ways a buyer can pay for a listing.
//
// Every method reports business failures (insufficient points, a declined
// card) as false rather than as an error, and mutates balances only when it
// reports success.
package payment

import (
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Houssam365/campuShare/internal/models"
)

const (
	NameFree   = "free"
	NamePoints = "points"
	NameCard   = "card"

	DefaultCardSuccessRate = 0.95
	DefaultCardLatency     = 100 * time.Millisecond
)

var (
	_ models.PaymentMethod = (*Free)(nil)
	_ models.PaymentMethod = (*Points)(nil)
	_ models.PaymentMethod = (*SimulatedCard)(nil)
)

func orDiscard(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}

// Free accepts every payment without touching balances. Used for gifts.
type Free struct {
	logger *log.Logger
}

func NewFree(logger *log.Logger) *Free { return &Free{logger: orDiscard(logger)} }

func (*Free) Name() string { return NameFree }

func (f *Free) Pay(_ float64, payer, payee *models.Account) bool {
	f.logger.Printf("[payment free] %s -> %s accepted", payer.FullName(), payee.FullName())
	return true
}

func (f *Free) Validate(tx *models.Transaction) bool {
	f.logger.Printf("[payment free] %s validated", tx.Reference())
	return true
}

// Points moves whole campus points from payer to payee. Fractional amounts
// are refused so the transaction amount is exactly what moves.
type Points struct {
	logger *log.Logger
}

func NewPoints(logger *log.Logger) *Points { return &Points{logger: orDiscard(logger)} }

func (*Points) Name() string { return NamePoints }

// Pay debits the payer then credits the payee. An empty wallet, a balance
// below the amount, a fractional amount or a refused debit fail before
// anything is credited. A zero amount succeeds without moving points.
func (p *Points) Pay(amount float64, payer, payee *models.Account) bool {
	if !p.covers(payer, amount) {
		p.logger.Printf("[payment points] %s cannot cover %.2f pts (balance %d)", payer.FullName(), amount, payer.Balance())
		return false
	}
	pts := int(amount)
	if float64(pts) != amount {
		p.logger.Printf("[payment points] %.2f is not a whole number of points", amount)
		return false
	}
	if pts == 0 {
		return true
	}
	if !payer.Debit(pts) {
		p.logger.Printf("[payment points] debit of %d pts from %s refused", pts, payer.FullName())
		return false
	}
	payee.Credit(pts)
	p.logger.Printf("[payment points] %d pts %s -> %s", pts, payer.FullName(), payee.FullName())
	return true
}

// Validate re-runs the balance check without moving points.
func (p *Points) Validate(tx *models.Transaction) bool {
	return p.covers(tx.Payer(), tx.Amount())
}

func (*Points) covers(a *models.Account, amount float64) bool {
	balance := a.Balance()
	return balance != 0 && float64(balance) >= amount
}

// Randomizer is the subset of *rand.Rand the card simulation draws from.
type Randomizer interface {
	Float64() float64
	Intn(n int) int
}

// SimulatedCard stands in for a card network. It approves a payment with a
// configurable probability and rewards the payee with one bonus point per
// ten units paid.
type SimulatedCard struct {
	successRate float64
	latency     time.Duration
	sleep       func(time.Duration)
	logger      *log.Logger

	mu       sync.Mutex
	rnd      Randomizer
	lastAuth string
}

// CardOption configures a SimulatedCard.
type CardOption func(*SimulatedCard)

// WithSuccessRate sets the approval probability, clamped to [0,1].
func WithSuccessRate(rate float64) CardOption {
	return func(c *SimulatedCard) {
		c.successRate = min(max(rate, 0), 1)
	}
}

// WithLatency sets the simulated network delay.
func WithLatency(d time.Duration) CardOption {
	return func(c *SimulatedCard) { c.latency = d }
}

// WithSleep replaces time.Sleep for the simulated delay.
func WithSleep(sleep func(time.Duration)) CardOption {
	return func(c *SimulatedCard) { c.sleep = sleep }
}

// WithRandom replaces the random source.
func WithRandom(r Randomizer) CardOption {
	return func(c *SimulatedCard) { c.rnd = r }
}

// WithLogger sets where the simulation reports.
func WithLogger(l *log.Logger) CardOption {
	return func(c *SimulatedCard) { c.logger = l }
}

func NewSimulatedCard(opts ...CardOption) *SimulatedCard {
	c := &SimulatedCard{
		successRate: DefaultCardSuccessRate,
		latency:     DefaultCardLatency,
		sleep:       time.Sleep,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = orDiscard(c.logger)
	return c
}

func (*SimulatedCard) Name() string { return NameCard }

func (c *SimulatedCard) SuccessRate() float64 { return c.successRate }

// Pay approves or declines the payment. Only an approval touches balances.
func (c *SimulatedCard) Pay(amount float64, payer, payee *models.Account) bool {
	if c.latency > 0 {
		c.sleep(c.latency)
	}

	c.mu.Lock()
	approved := c.rnd.Float64() < c.successRate
	var auth string
	if approved {
		auth = fmt.Sprintf("AUTH-%d", 100000+c.rnd.Intn(900000))
		c.lastAuth = auth
	}
	c.mu.Unlock()

	if !approved {
		c.logger.Printf("[payment card] %.2f from %s declined", amount, payer.FullName())
		return false
	}
	c.logger.Printf("[payment card] %.2f %s -> %s authorized %s", amount, payer.FullName(), payee.FullName(), auth)
	if bonus := Bonus(amount); bonus > 0 {
		payee.Credit(bonus)
	}
	return true
}

// Validate always confirms a card payment once a transaction exists.
func (c *SimulatedCard) Validate(tx *models.Transaction) bool {
	c.logger.Printf("[payment card] %s validated", tx.Reference())
	return true
}

// LastAuthorization returns the code of the most recent approval.
func (c *SimulatedCard) LastAuthorization() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastAuth
}

// Bonus is the number of points a card payment of amount earns the payee.
func Bonus(amount float64) int { return int(amount / 10) }

// Registry resolves payment methods by name.
type Registry struct {
	methods map[string]models.PaymentMethod
}

func NewRegistry(methods ...models.PaymentMethod) *Registry {
	r := &Registry{methods: make(map[string]models.PaymentMethod, len(methods))}
	for _, m := range methods {
		r.methods[m.Name()] = m
	}
	return r
}

// ByName looks a method up case-insensitively.
func (r *Registry) ByName(name string) (models.PaymentMethod, error) {
	m, ok := r.methods[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown payment method %q: %w", name, models.ErrValidation)
	}
	return m, nil
}
