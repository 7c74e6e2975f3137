package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
)

// TransactionLedger settles purchases and keeps the history of the ones that
// went through.
type TransactionLedger struct {
	ids   idgen.Source
	clock models.Clock

	history []*models.Transaction
}

func NewTransactionLedger(ids idgen.Source, clock models.Clock) *TransactionLedger {
	if ids == nil {
		ids = idgen.UUID()
	}
	if clock == nil {
		clock = models.SystemClock
	}
	return &TransactionLedger{ids: ids, clock: clock}
}

// Settle buys listing for buyer at its current base price.
//
// Self-dealing and unavailable listings are refused before any transaction
// exists. Otherwise the transaction is executed: a VALIDATED one is recorded
// and takes the listing off the market, a REJECTED one is returned for the
// caller to inspect but is neither recorded nor applied to the listing.
//
// A gift gives away one unit per settlement and only leaves the market with
// its last unit.
func (l *TransactionLedger) Settle(listing *models.Listing, buyer *models.Account, method models.PaymentMethod) (*models.Transaction, error) {
	if listing == nil || buyer == nil {
		return nil, fmt.Errorf("settlement needs a listing and a buyer: %w", models.ErrValidation)
	}
	seller := listing.Owner()
	if buyer.Is(seller) {
		return nil, fmt.Errorf("buy %q: %w", listing.Title(), models.ErrSelfDealing)
	}
	if !listing.IsAvailable() {
		return nil, fmt.Errorf("listing %q is %s, not for sale: %w", listing.Title(), listing.Status(), models.ErrState)
	}
	gift, isGift := listing.Gift()
	if isGift && gift.Quantity <= 0 {
		return nil, fmt.Errorf("gift %q has no units left: %w", listing.Title(), models.ErrState)
	}

	tx, err := models.NewTransaction(l.ids(), listing.BasePrice(), buyer, seller, method, l.clock())
	if err != nil {
		return nil, err
	}
	tx.ForListing(listing.ID())
	ok, err := tx.Execute()
	if err != nil {
		return nil, err
	}
	if !ok {
		return tx, nil
	}
	l.history = append(l.history, tx)
	if isGift {
		if _, err := listing.ReserveGiftUnit(); err != nil {
			return tx, err
		}
		if gift.Quantity > 0 {
			return tx, nil
		}
	}
	listing.ChangeStatus(models.ListingUnavailable)
	return tx, nil
}

// History returns the validated transactions, oldest first.
func (l *TransactionLedger) History() []*models.Transaction {
	return append([]*models.Transaction(nil), l.history...)
}

// ForAccount returns the history entries an account paid or was paid in.
func (l *TransactionLedger) ForAccount(accountID string) []*models.Transaction {
	var out []*models.Transaction
	for _, tx := range l.history {
		if tx.Involves(accountID) {
			out = append(out, tx)
		}
	}
	return out
}

// Find looks a recorded transaction up by id or reference.
func (l *TransactionLedger) Find(key string) (*models.Transaction, error) {
	for _, tx := range l.history {
		if tx.ID() == key || tx.Reference() == key {
			return tx, nil
		}
	}
	return nil, fmt.Errorf("transaction %s: %w", key, models.ErrNotFound)
}

// TotalVolume sums the amounts of the validated transactions.
func (l *TransactionLedger) TotalVolume() float64 {
	sum := decimal.Zero
	for _, tx := range l.history {
		if tx.Succeeded() {
			sum = sum.Add(decimal.NewFromFloat(tx.Amount()))
		}
	}
	f, _ := sum.Float64()
	return f
}

// SuccessCount counts the validated transactions.
func (l *TransactionLedger) SuccessCount() int {
	n := 0
	for _, tx := range l.history {
		if tx.Succeeded() {
			n++
		}
	}
	return n
}
