package service

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/Houssam365/campuShare/internal/models"
)

// SortStrategy orders listings in place.
type SortStrategy interface {
	Name() string
	Sort(listings []*models.Listing)
}

// ByDate puts the newest listings first.
type ByDate struct{}

func (ByDate) Name() string { return "newest first" }

func (ByDate) Sort(ls []*models.Listing) {
	slices.SortStableFunc(ls, func(a, b *models.Listing) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
}

// ByPrice orders listings by base price.
type ByPrice struct {
	Ascending bool
}

func (s ByPrice) Name() string {
	if s.Ascending {
		return "price ascending"
	}
	return "price descending"
}

func (s ByPrice) Sort(ls []*models.Listing) {
	slices.SortStableFunc(ls, func(a, b *models.Listing) int {
		if s.Ascending {
			return cmp.Compare(a.BasePrice(), b.BasePrice())
		}
		return cmp.Compare(b.BasePrice(), a.BasePrice())
	})
}

// SortByName resolves "date", "price_asc" or "price_desc". An empty name
// means no sorting.
func SortByName(name string) (SortStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return nil, nil
	case "date", "newest":
		return ByDate{}, nil
	case "price", "price_asc":
		return ByPrice{Ascending: true}, nil
	case "price_desc":
		return ByPrice{}, nil
	}
	return nil, fmt.Errorf("unknown sort %q: %w", name, models.ErrValidation)
}
