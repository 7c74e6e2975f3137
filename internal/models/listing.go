package models

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	ListingActive      ListingStatus = "ACTIVE"
	ListingReserved    ListingStatus = "RESERVED"
	ListingUnavailable ListingStatus = "UNAVAILABLE"
	ListingExpired     ListingStatus = "EXPIRED"
	ListingCompleted   ListingStatus = "COMPLETED"
	ListingDeleted     ListingStatus = "DELETED"
)

// ParseListingStatus accepts the status names case-insensitively.
func ParseListingStatus(s string) (ListingStatus, error) {
	switch st := ListingStatus(upper(s)); st {
	case ListingActive, ListingReserved, ListingUnavailable, ListingExpired, ListingCompleted, ListingDeleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown listing status %q: %w", s, ErrValidation)
}

// Kind tells which payload a listing carries.
type Kind string

const (
	KindGood    Kind = "GOOD"
	KindService Kind = "SERVICE"
	KindGift    Kind = "GIFT"
)

// ParseKind accepts the kind names case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(upper(s)); k {
	case KindGood, KindService, KindGift:
		return k, nil
	}
	return "", fmt.Errorf("unknown listing kind %q: %w", s, ErrValidation)
}

// Listing is a published offer. Every mutation that other members care about
// (status, title, price) is published to the listing's subscribers.
type Listing struct {
	id          string
	title       string
	description string
	owner       *Account
	category    string
	basePrice   float64
	status      ListingStatus
	createdAt   time.Time
	updatedAt   time.Time
	location    string
	images      []string
	views       int
	details     Details
	observers   []Observer
	clock       Clock
}

// NewListingParams groups the inputs of NewListing.
type NewListingParams struct {
	ID          string
	Title       string
	Description string
	Owner       *Account
	Category    string
	BasePrice   float64
	Details     Details
	Clock       Clock
}

// NewListing builds an ACTIVE listing. A gift's base price is always 0.
func NewListing(p NewListingParams) (*Listing, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("listing id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("listing title is required: %w", ErrValidation)
	}
	if p.Owner == nil {
		return nil, fmt.Errorf("listing owner is required: %w", ErrValidation)
	}
	if p.Details == nil {
		return nil, fmt.Errorf("listing details are required: %w", ErrValidation)
	}
	if p.BasePrice < 0 {
		return nil, fmt.Errorf("base price cannot be negative: %w", ErrValidation)
	}
	clock := p.Clock
	if clock == nil {
		clock = SystemClock
	}
	now := clock()
	l := &Listing{
		id:          p.ID,
		title:       p.Title,
		description: p.Description,
		owner:       p.Owner,
		category:    p.Category,
		basePrice:   p.BasePrice,
		status:      ListingActive,
		createdAt:   now,
		updatedAt:   now,
		details:     p.Details,
		clock:       clock,
	}
	if l.Kind() == KindGift {
		l.basePrice = 0
	}
	return l, nil
}

func (l *Listing) ID() string            { return l.id }
func (l *Listing) Title() string         { return l.title }
func (l *Listing) Description() string   { return l.description }
func (l *Listing) Owner() *Account       { return l.owner }
func (l *Listing) Category() string      { return l.category }
func (l *Listing) BasePrice() float64    { return l.basePrice }
func (l *Listing) Status() ListingStatus { return l.status }
func (l *Listing) CreatedAt() time.Time  { return l.createdAt }
func (l *Listing) UpdatedAt() time.Time  { return l.updatedAt }
func (l *Listing) Location() string      { return l.location }
func (l *Listing) Views() int            { return l.views }
func (l *Listing) Kind() Kind            { return l.details.Kind() }
func (l *Listing) Details() Details      { return l.details }
func (l *Listing) Images() []string      { return append([]string(nil), l.images...) }
func (l *Listing) IsAvailable() bool     { return l.status == ListingActive }
func (l *Listing) SubscriberCount() int  { return len(l.observers) }
func (l *Listing) Observers() []Observer { return append([]Observer(nil), l.observers...) }

func (l *Listing) touch() { l.updatedAt = l.clock() }

// Good returns the good payload, or false for other kinds.
func (l *Listing) Good() (*GoodDetails, bool) {
	d, ok := l.details.(*GoodDetails)
	return d, ok
}

// Service returns the service payload, or false for other kinds.
func (l *Listing) Service() (*ServiceDetails, bool) {
	d, ok := l.details.(*ServiceDetails)
	return d, ok
}

// Gift returns the gift payload, or false for other kinds.
func (l *Listing) Gift() (*GiftDetails, bool) {
	d, ok := l.details.(*GiftDetails)
	return d, ok
}

// ChangeStatus moves the listing to status and notifies subscribers. Any
// transition is accepted here; eligibility rules live in the services.
func (l *Listing) ChangeStatus(status ListingStatus) {
	old := l.status
	l.status = status
	l.touch()
	l.Publish(fmt.Sprintf("listing '%s' changed from %s to %s", l.title, old, status))
}

// SetAvailable reactivates a non-active listing, or expires an active one.
func (l *Listing) SetAvailable(available bool) {
	switch {
	case available && l.status != ListingActive:
		l.ChangeStatus(ListingActive)
	case !available && l.status == ListingActive:
		l.ChangeStatus(ListingExpired)
	}
}

// SetTitle renames the listing and notifies subscribers.
func (l *Listing) SetTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("listing title is required: %w", ErrValidation)
	}
	l.title = title
	l.touch()
	l.Publish("listing title changed: " + title)
	return nil
}

// SetBasePrice reprices the listing and notifies subscribers. Gifts stay
// free: the price is forced to 0 but the notification still goes out.
func (l *Listing) SetBasePrice(price float64) error {
	if price < 0 {
		return fmt.Errorf("base price cannot be negative: %w", ErrValidation)
	}
	if l.Kind() == KindGift {
		price = 0
	}
	l.basePrice = price
	l.touch()
	l.Publish(fmt.Sprintf("price of '%s' changed: %.2f", l.title, price))
	return nil
}

func (l *Listing) SetDescription(description string) {
	l.description = description
	l.touch()
}

func (l *Listing) SetCategory(category string) {
	l.category = category
	l.touch()
}

func (l *Listing) SetLocation(location string) {
	l.location = location
	l.touch()
}

func (l *Listing) AddImage(url string) {
	l.images = append(l.images, url)
	l.touch()
}

// IncrementViews bumps the view counter. It does not notify.
func (l *Listing) IncrementViews() { l.views++ }

// ReserveGiftUnit takes one unit of a gift. It reports false once the
// quantity is exhausted and notifies subscribers when the last unit goes.
func (l *Listing) ReserveGiftUnit() (bool, error) {
	g, ok := l.Gift()
	if !ok {
		return false, fmt.Errorf("listing %s is a %s, not a gift: %w", l.id, l.Kind(), ErrValidation)
	}
	if g.Quantity <= 0 {
		return false, nil
	}
	g.Quantity--
	if g.Quantity == 0 {
		l.Publish(fmt.Sprintf("gift '%s' is no longer available", l.title))
	}
	return true, nil
}

// Subscribe adds o unless the same observer is already subscribed.
func (l *Listing) Subscribe(o Observer) {
	if o == nil {
		return
	}
	for _, cur := range l.observers {
		if SameObserver(cur, o) {
			return
		}
	}
	l.observers = append(l.observers, o)
}

// Unsubscribe removes o if present.
func (l *Listing) Unsubscribe(o Observer) {
	for i, cur := range l.observers {
		if SameObserver(cur, o) {
			l.observers = append(l.observers[:i:i], l.observers[i+1:]...)
			return
		}
	}
}

// Publish delivers message to every subscriber in subscription order. A
// panicking subscriber does not stop delivery to the others.
func (l *Listing) Publish(message string) {
	for _, o := range l.Observers() {
		deliver(o, l, message)
	}
}

func deliver(o Observer, l *Listing, message string) {
	defer func() { _ = recover() }()
	o.Receive(l, message)
}

// SameObserver compares by identity. Values of non-comparable dynamic types
// never match anything.
func SameObserver(a, b Observer) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Summary renders the listing on a few lines for logs and the CLI.
func (l *Listing) Summary() string {
	desc := l.description
	if r := []rune(desc); len(r) > 50 {
		desc = string(r[:50]) + "..."
	}
	owner := ""
	if l.owner != nil {
		owner = l.owner.FullName()
	}
	return fmt.Sprintf("[%s] %s (%s)\n  %s\n  price: %.2f | %s | views: %d\n  by: %s",
		l.Kind(), l.title, l.status, desc, l.basePrice, l.category, l.views, owner)
}

// DetailsText renders the kind-specific payload.
func (l *Listing) DetailsText() string {
	var b strings.Builder
	switch d := l.details.(type) {
	case *GoodDetails:
		b.WriteString("condition: " + d.Condition + "\n")
		if d.Brand != "" {
			b.WriteString("brand: " + d.Brand + "\n")
		}
		if d.Model != "" {
			b.WriteString("model: " + d.Model + "\n")
		}
		fmt.Fprintf(&b, "max loan: %d days\n", d.MaxLoanDays)
		if d.DepositRequired {
			fmt.Fprintf(&b, "deposit required: %.2f\n", d.Deposit)
		}
	case *ServiceDetails:
		if d.ServiceKind != "" {
			b.WriteString("service: " + d.ServiceKind + "\n")
		}
		fmt.Fprintf(&b, "estimated duration: %d minutes\n", d.EstimatedMinutes)
		b.WriteString("expertise: " + d.Expertise + "\n")
		if len(d.Days) > 0 {
			days := make([]string, len(d.Days))
			for i, day := range d.Days {
				days[i] = day.String()
			}
			b.WriteString("days: " + strings.Join(days, ", ") + "\n")
		}
		if d.Hours != "" {
			b.WriteString("hours: " + d.Hours + "\n")
		}
		fmt.Fprintf(&b, "travel possible: %t\n", d.TravelPossible)
		if len(d.Skills) > 0 {
			b.WriteString("skills: " + strings.Join(d.Skills, ", ") + "\n")
		}
	case *GiftDetails:
		b.WriteString("free gift\n")
		b.WriteString("condition: " + d.Condition + "\n")
		fmt.Fprintf(&b, "quantity: %d\n", d.Quantity)
		if d.Reason != "" {
			b.WriteString("reason: " + d.Reason + "\n")
		}
		fmt.Fprintf(&b, "pickup only: %t\n", d.PickupOnly)
		if d.PickupInstructions != "" {
			b.WriteString("pickup: " + d.PickupInstructions + "\n")
		}
	}
	return b.String()
}
