package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Houssam365/campuShare/internal/idgen"
	"github.com/Houssam365/campuShare/internal/models"
)

// ListingCatalog owns every published listing. Listings are never removed:
// Remove marks them DELETED so history stays queryable.
type ListingCatalog struct {
	ids   idgen.Source
	clock models.Clock

	listings []*models.Listing
	byID     map[string]*models.Listing
	global   []models.Observer
}

func NewListingCatalog(ids idgen.Source, clock models.Clock) *ListingCatalog {
	if ids == nil {
		ids = idgen.UUID()
	}
	if clock == nil {
		clock = models.SystemClock
	}
	return &ListingCatalog{ids: ids, clock: clock, byID: make(map[string]*models.Listing)}
}

// PublishParams describes a new listing.
type PublishParams struct {
	Owner       *models.Account
	Title       string
	Description string
	Category    string
	BasePrice   float64
	Details     models.Details
}

// Publish creates an ACTIVE listing, attaches the global subscribers and
// announces it to them.
func (c *ListingCatalog) Publish(p PublishParams) (*models.Listing, error) {
	l, err := models.NewListing(models.NewListingParams{
		ID:          c.ids(),
		Title:       p.Title,
		Description: p.Description,
		Owner:       p.Owner,
		Category:    p.Category,
		BasePrice:   p.BasePrice,
		Details:     p.Details,
		Clock:       c.clock,
	})
	if err != nil {
		return nil, err
	}
	for _, o := range c.global {
		l.Subscribe(o)
	}
	c.listings = append(c.listings, l)
	c.byID[l.ID()] = l
	l.Publish(fmt.Sprintf("new %s listing: %s", strings.ToLower(string(l.Kind())), l.Title()))
	return l, nil
}

// PublishGood lists an item to lend or rent out.
func (c *ListingCatalog) PublishGood(owner *models.Account, title, description, category, condition string, price float64) (*models.Listing, error) {
	return c.Publish(PublishParams{
		Owner: owner, Title: title, Description: description, Category: category,
		BasePrice: price, Details: models.NewGoodDetails(condition),
	})
}

// PublishService lists help offered by the owner.
func (c *ListingCatalog) PublishService(owner *models.Account, title, description, category, serviceKind string, price float64, minutes int) (*models.Listing, error) {
	d := models.NewServiceDetails(serviceKind)
	if minutes > 0 {
		d.EstimatedMinutes = minutes
	}
	return c.Publish(PublishParams{
		Owner: owner, Title: title, Description: description, Category: category,
		BasePrice: price, Details: d,
	})
}

// PublishGift lists something given away.
func (c *ListingCatalog) PublishGift(owner *models.Account, title, description, category, condition, reason string) (*models.Listing, error) {
	return c.Publish(PublishParams{
		Owner: owner, Title: title, Description: description, Category: category,
		Details: models.NewGiftDetails(condition, reason),
	})
}

// Find looks a listing up by id, whatever its status.
func (c *ListingCatalog) Find(id string) (*models.Listing, error) {
	l, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("listing %s: %w", id, models.ErrNotFound)
	}
	return l, nil
}

// View finds a listing and counts the visit.
func (c *ListingCatalog) View(id string) (*models.Listing, error) {
	l, err := c.Find(id)
	if err != nil {
		return nil, err
	}
	l.IncrementViews()
	return l, nil
}

// All returns every listing in publication order.
func (c *ListingCatalog) All() []*models.Listing {
	return append([]*models.Listing(nil), c.listings...)
}

// Active returns the listings open to reservation.
func (c *ListingCatalog) Active() []*models.Listing {
	return c.Search(Filter{})
}

// ByOwner returns an account's listings, whatever their status.
func (c *ListingCatalog) ByOwner(accountID string) []*models.Listing {
	var out []*models.Listing
	for _, l := range c.listings {
		if l.Owner().ID == accountID {
			out = append(out, l)
		}
	}
	return out
}

// Filter narrows a search over active listings. Zero fields match anything.
type Filter struct {
	Keyword  string
	Category string
	Kind     models.Kind
	MaxPrice *float64
}

func (f Filter) match(l *models.Listing) bool {
	if !l.IsAvailable() {
		return false
	}
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" &&
		!strings.Contains(strings.ToLower(l.Title()), kw) &&
		!strings.Contains(strings.ToLower(l.Description()), kw) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(f.Category, l.Category()) {
		return false
	}
	if f.Kind != "" && f.Kind != l.Kind() {
		return false
	}
	if f.MaxPrice != nil && l.BasePrice() > *f.MaxPrice {
		return false
	}
	return true
}

// Search returns the active listings matching f in publication order.
func (c *ListingCatalog) Search(f Filter) []*models.Listing {
	var out []*models.Listing
	for _, l := range c.listings {
		if f.match(l) {
			out = append(out, l)
		}
	}
	return out
}

func (c *ListingCatalog) SearchKeyword(keyword string) []*models.Listing {
	return c.Search(Filter{Keyword: keyword})
}

func (c *ListingCatalog) ByCategory(category string) []*models.Listing {
	return c.Search(Filter{Category: category})
}

func (c *ListingCatalog) ByKind(kind models.Kind) []*models.Listing {
	return c.Search(Filter{Kind: kind})
}

func (c *ListingCatalog) UnderPrice(limit float64) []*models.Listing {
	return c.Search(Filter{MaxPrice: &limit})
}

// Browse returns a sorted copy of listings. A nil strategy keeps the order.
func Browse(listings []*models.Listing, s SortStrategy) []*models.Listing {
	out := slices.Clone(listings)
	if s != nil {
		s.Sort(out)
	}
	return out
}

// Remove marks a listing DELETED.
func (c *ListingCatalog) Remove(id string) (*models.Listing, error) {
	return c.setStatus(id, models.ListingDeleted)
}

// MarkReserved marks a listing RESERVED.
func (c *ListingCatalog) MarkReserved(id string) (*models.Listing, error) {
	return c.setStatus(id, models.ListingReserved)
}

// MakeAvailable puts a listing back to ACTIVE.
func (c *ListingCatalog) MakeAvailable(id string) (*models.Listing, error) {
	return c.setStatus(id, models.ListingActive)
}

func (c *ListingCatalog) setStatus(id string, status models.ListingStatus) (*models.Listing, error) {
	l, err := c.Find(id)
	if err != nil {
		return nil, err
	}
	l.ChangeStatus(status)
	return l, nil
}

// Subscribe attaches o to every listing, present and future.
func (c *ListingCatalog) Subscribe(o models.Observer) {
	if o == nil {
		return
	}
	if !slices.ContainsFunc(c.global, func(cur models.Observer) bool { return models.SameObserver(cur, o) }) {
		c.global = append(c.global, o)
	}
	for _, l := range c.listings {
		l.Subscribe(o)
	}
}

// Unsubscribe detaches o from every listing and from future ones.
func (c *ListingCatalog) Unsubscribe(o models.Observer) {
	for i, cur := range c.global {
		if models.SameObserver(cur, o) {
			c.global = slices.Delete(c.global, i, i+1)
			break
		}
	}
	for _, l := range c.listings {
		l.Unsubscribe(o)
	}
}

func (c *ListingCatalog) Count() int { return len(c.listings) }

func (c *ListingCatalog) ActiveCount() int {
	n := 0
	for _, l := range c.listings {
		if l.IsAvailable() {
			n++
		}
	}
	return n
}
