package models

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// TransactionStatus is the outcome of a transaction.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionValidated TransactionStatus = "VALIDATED"
	TransactionRejected  TransactionStatus = "REJECTED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// Transaction is a value transfer from a payer to a payee through a payment
// method. It starts PENDING and is resolved once by Execute.
type Transaction struct {
	id        string
	reference string
	createdAt time.Time
	amount    float64
	status    TransactionStatus
	payer     *Account
	payee     *Account
	method    PaymentMethod
	listingID string
}

// NewTransaction builds a PENDING transaction.
func NewTransaction(id string, amount float64, payer, payee *Account, method PaymentMethod, createdAt time.Time) (*Transaction, error) {
	if payer == nil || payee == nil {
		return nil, fmt.Errorf("transaction needs a payer and a payee: %w", ErrValidation)
	}
	if method == nil {
		return nil, fmt.Errorf("transaction needs a payment method: %w", ErrValidation)
	}
	if amount < 0 {
		return nil, fmt.Errorf("transaction amount cannot be negative: %w", ErrValidation)
	}
	return &Transaction{
		id:        id,
		reference: reference(id, createdAt),
		createdAt: createdAt,
		amount:    amount,
		status:    TransactionPending,
		payer:     payer,
		payee:     payee,
		method:    method,
	}, nil
}

// reference renders TXN-yyyyMMddHHmmss-XXXXXXXX from the first eight
// alphanumerics of the id.
func reference(id string, at time.Time) string {
	var short []rune
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			short = append(short, r)
			if len(short) == 8 {
				break
			}
		}
	}
	return "TXN-" + at.Format("20060102150405") + "-" + strings.ToUpper(string(short))
}

func (t *Transaction) ID() string                { return t.id }
func (t *Transaction) Reference() string         { return t.reference }
func (t *Transaction) CreatedAt() time.Time      { return t.createdAt }
func (t *Transaction) Amount() float64           { return t.amount }
func (t *Transaction) Status() TransactionStatus { return t.status }
func (t *Transaction) Payer() *Account           { return t.payer }
func (t *Transaction) Payee() *Account           { return t.payee }
func (t *Transaction) Method() PaymentMethod     { return t.method }
func (t *Transaction) ListingID() string         { return t.listingID }
func (t *Transaction) Succeeded() bool           { return t.status == TransactionValidated }

// ForListing records which listing the transaction pays for.
func (t *Transaction) ForListing(listingID string) *Transaction {
	t.listingID = listingID
	return t
}

// Involves reports whether the account pays or is paid.
func (t *Transaction) Involves(accountID string) bool {
	return t.payer.ID == accountID || t.payee.ID == accountID
}

// Execute runs the payment and resolves the transaction: VALIDATED when the
// method pays, REJECTED otherwise. A resolved transaction cannot run again.
func (t *Transaction) Execute() (bool, error) {
	if t.status != TransactionPending {
		return false, fmt.Errorf("transaction %s is already %s: %w", t.reference, t.status, ErrState)
	}
	if t.method.Pay(t.amount, t.payer, t.payee) {
		t.status = TransactionValidated
		return true, nil
	}
	t.status = TransactionRejected
	return false, nil
}

// Cancel withdraws a transaction that has not been executed.
func (t *Transaction) Cancel() error {
	if t.status != TransactionPending {
		return fmt.Errorf("cannot cancel a resolved transaction (%s): %w", t.status, ErrState)
	}
	t.status = TransactionCancelled
	return nil
}

// Verify asks the payment method to confirm the transaction. It changes
// nothing.
func (t *Transaction) Verify() bool {
	return t.method.Validate(t)
}

func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction[%s] %s %.2f %s -> %s (%s)",
		t.reference, t.createdAt.Format("02/01/2006 15:04"), t.amount,
		t.payer.FullName(), t.payee.FullName(), t.status)
}
