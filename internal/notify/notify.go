// Package notify holds the channels listing notifications are delivered
// through. Delivery is simulated: each sink renders the message for its
// channel, logs it and records it in an Inbox.
package notify

import (
	"io"
	"log"
	"sync"
	"time"

	"github.com/Houssam365/campuShare/internal/models"
)

const (
	ChannelEmail = "email"
	ChannelPush  = "push"
	ChannelSMS   = "sms"

	// SMSMaxLength is the longest SMS body in runes, ellipsis included.
	SMSMaxLength = 100
)

var (
	_ models.Observer = (*Email)(nil)
	_ models.Observer = (*Push)(nil)
	_ models.Observer = (*SMS)(nil)
)

// Notification is one rendered message sent to one account.
type Notification struct {
	Channel   string    `json:"channel"`
	AccountID string    `json:"account_id"`
	To        string    `json:"to"`
	ListingID string    `json:"listing_id"`
	Subject   string    `json:"subject,omitempty"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sent_at"`
}

// Inbox keeps every delivered notification, per account, in delivery order.
// It is safe for concurrent use.
type Inbox struct {
	mu    sync.Mutex
	clock models.Clock
	byAcc map[string][]Notification
}

func NewInbox(clock models.Clock) *Inbox {
	if clock == nil {
		clock = models.SystemClock
	}
	return &Inbox{clock: clock, byAcc: make(map[string][]Notification)}
}

func (in *Inbox) deliver(n Notification) {
	if in == nil {
		return
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	n.SentAt = in.clock()
	in.byAcc[n.AccountID] = append(in.byAcc[n.AccountID], n)
}

// For returns a copy of the notifications delivered to the account.
func (in *Inbox) For(accountID string) []Notification {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]Notification(nil), in.byAcc[accountID]...)
}

// Count returns how many notifications the account received.
func (in *Inbox) Count(accountID string) int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.byAcc[accountID])
}

type sink struct {
	account *models.Account
	inbox   *Inbox
	logger  *log.Logger
}

func newSink(a *models.Account, inbox *Inbox, logger *log.Logger) sink {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return sink{account: a, inbox: inbox, logger: logger}
}

// Email mails the account owner.
type Email struct{ sink }

func NewEmail(a *models.Account, inbox *Inbox, logger *log.Logger) *Email {
	return &Email{newSink(a, inbox, logger)}
}

func (e *Email) Receive(l *models.Listing, message string) {
	n := Notification{
		Channel:   ChannelEmail,
		AccountID: e.account.ID,
		To:        e.account.Email,
		ListingID: l.ID(),
		Subject:   "[CampusShare] Notification - " + l.Title(),
		Body:      message,
	}
	e.logger.Printf("[notify email] to=%s subject=%q body=%q", n.To, n.Subject, n.Body)
	e.inbox.deliver(n)
}

// Push notifies the account's mobile device.
type Push struct {
	sink
	DeviceToken string
}

func NewPush(a *models.Account, inbox *Inbox, logger *log.Logger) *Push {
	return &Push{sink: newSink(a, inbox, logger), DeviceToken: "DEVICE_" + a.ID}
}

func (p *Push) Receive(l *models.Listing, message string) {
	n := Notification{
		Channel:   ChannelPush,
		AccountID: p.account.ID,
		To:        p.DeviceToken,
		ListingID: l.ID(),
		Subject:   l.Title(),
		Body:      message,
	}
	p.logger.Printf("[notify push] device=%s title=%q body=%q", n.To, n.Subject, n.Body)
	p.inbox.deliver(n)
}

// SMS texts a phone number. Bodies longer than SMSMaxLength are cut.
type SMS struct {
	sink
	Phone string
}

func NewSMS(a *models.Account, phone string, inbox *Inbox, logger *log.Logger) *SMS {
	return &SMS{sink: newSink(a, inbox, logger), Phone: phone}
}

func (s *SMS) Receive(l *models.Listing, message string) {
	n := Notification{
		Channel:   ChannelSMS,
		AccountID: s.account.ID,
		To:        s.Phone,
		ListingID: l.ID(),
		Body:      "CampusShare - " + Truncate(message, SMSMaxLength),
	}
	s.logger.Printf("[notify sms] to=%s body=%q", n.To, n.Body)
	s.inbox.deliver(n)
}

// Truncate cuts s to n runes, ending with "..." when it had to cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n < 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
