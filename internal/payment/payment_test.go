package payment

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Houssam365/campuShare/internal/models"
)

func account(t *testing.T, id string, points int) *models.Account {
	t.Helper()
	a, err := models.NewAccount(id, "Student", id, id+"@etu.example.fr", points, time.Time{})
	require.NoError(t, err)
	return a
}

// fixedRandom replays a canned draw.
type fixedRandom struct {
	f float64
	n int
}

func (r fixedRandom) Float64() float64 { return r.f }
func (r fixedRandom) Intn(int) int     { return r.n }

func TestFree_NeverTouchesBalances(t *testing.T) {
	payer, payee := account(t, "a", 0), account(t, "b", 5)
	f := NewFree(nil)

	assert.True(t, f.Pay(1000, payer, payee))
	assert.Equal(t, 0, payer.Balance())
	assert.Equal(t, 5, payee.Balance())
}

func TestPoints_Pay(t *testing.T) {
	tests := []struct {
		name       string
		balance    int
		amount     float64
		ok         bool
		payerAfter int
		payeeAfter int
	}{
		{"empty wallet", 0, 10, false, 0, 0},
		{"empty wallet zero amount", 0, 0, false, 0, 0},
		{"balance below amount", 30, 60, false, 30, 0},
		{"exact balance", 60, 60, true, 0, 60},
		{"balance above amount", 100, 60, true, 40, 60},
		{"fraction above a whole balance", 60, 60.5, false, 60, 0},
		{"whole amount equal to balance", 60, 60, true, 0, 60},
		{"fractional amount refused", 50, 0.5, false, 50, 0},
		{"fractional amount under balance", 10, 9.9, false, 10, 0},
		{"zero amount moves nothing", 50, 0, true, 50, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payer, payee := account(t, "a", tt.balance), account(t, "b", 0)
			assert.Equal(t, tt.ok, NewPoints(nil).Pay(tt.amount, payer, payee))
			assert.Equal(t, tt.payerAfter, payer.Balance())
			assert.Equal(t, tt.payeeAfter, payee.Balance())
		})
	}
}

func TestPoints_ValidateIsReadOnly(t *testing.T) {
	payer, payee := account(t, "a", 50), account(t, "b", 0)
	p := NewPoints(nil)

	tx, err := models.NewTransaction("tx-1", 40, payer, payee, p, time.Now())
	require.NoError(t, err)
	assert.True(t, tx.Verify())
	assert.True(t, tx.Verify())
	assert.Equal(t, 50, payer.Balance())

	payer.Debit(20)
	assert.False(t, tx.Verify())
}

func TestSimulatedCard_ApprovalCreditsBonus(t *testing.T) {
	payer, payee := account(t, "a", 3), account(t, "b", 0)
	var slept time.Duration
	var buf bytes.Buffer
	c := NewSimulatedCard(
		WithRandom(fixedRandom{f: 0.1, n: 42}),
		WithSleep(func(d time.Duration) { slept += d }),
		WithLogger(log.New(&buf, "", 0)),
	)

	assert.True(t, c.Pay(125.5, payer, payee))
	assert.Equal(t, 3, payer.Balance())
	assert.Equal(t, 12, payee.Balance())
	assert.Equal(t, DefaultCardLatency, slept)
	assert.Equal(t, "AUTH-100042", c.LastAuthorization())
	assert.Contains(t, buf.String(), "AUTH-100042")
}

func TestSimulatedCard_SmallAmountNoBonus(t *testing.T) {
	payer, payee := account(t, "a", 0), account(t, "b", 0)
	c := NewSimulatedCard(WithRandom(fixedRandom{f: 0}), WithLatency(0))

	assert.True(t, c.Pay(9.99, payer, payee))
	assert.Equal(t, 0, payee.Balance())
}

func TestSimulatedCard_DeclineChangesNothing(t *testing.T) {
	payer, payee := account(t, "a", 10), account(t, "b", 10)
	c := NewSimulatedCard(WithRandom(fixedRandom{f: 0.95}), WithLatency(0))

	assert.False(t, c.Pay(500, payer, payee))
	assert.Equal(t, 10, payer.Balance())
	assert.Equal(t, 10, payee.Balance())
	assert.Empty(t, c.LastAuthorization())
}

func TestSimulatedCard_SuccessRateClamped(t *testing.T) {
	assert.Equal(t, 1.0, NewSimulatedCard(WithSuccessRate(3)).SuccessRate())
	assert.Equal(t, 0.0, NewSimulatedCard(WithSuccessRate(-1)).SuccessRate())

	never := NewSimulatedCard(WithSuccessRate(0), WithLatency(0))
	assert.False(t, never.Pay(10, account(t, "a", 0), account(t, "b", 0)))
}

func TestSimulatedCard_ValidateAlwaysTrue(t *testing.T) {
	payer, payee := account(t, "a", 0), account(t, "b", 0)
	c := NewSimulatedCard(WithSuccessRate(0), WithLatency(0))
	tx, err := models.NewTransaction("tx", 10, payer, payee, c, time.Now())
	require.NoError(t, err)

	assert.True(t, c.Validate(tx))
}

func TestRegistry_ByName(t *testing.T) {
	r := NewRegistry(NewFree(nil), NewPoints(nil), NewSimulatedCard())

	m, err := r.ByName("POINTS")
	require.NoError(t, err)
	assert.Equal(t, NamePoints, m.Name())

	_, err = r.ByName("bitcoin")
	assert.True(t, errors.Is(err, models.ErrValidation))
}
