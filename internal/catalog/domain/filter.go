package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Predicate selects products. Predicates are independent of each other, so
// any conjunction of them is order-insensitive.
type Predicate func(Product) bool

func InCategory(category string) Predicate {
	return func(p Product) bool { return p.Category == category }
}

// PriceBetween keeps prices in [min, max], both ends inclusive.
func PriceBetween(min, max decimal.Decimal) Predicate {
	return func(p Product) bool {
		return p.Price.GreaterThanOrEqual(min) && p.Price.LessThanOrEqual(max)
	}
}

func MinPrice(min decimal.Decimal) Predicate {
	return func(p Product) bool { return p.Price.GreaterThanOrEqual(min) }
}

func MaxPrice(max decimal.Decimal) Predicate {
	return func(p Product) bool { return p.Price.LessThanOrEqual(max) }
}

func MinRating(threshold float64) Predicate {
	return func(p Product) bool { return p.Rating >= threshold }
}

func InStock() Predicate {
	return func(p Product) bool { return p.InStock() }
}

func IsFeatured() Predicate {
	return func(p Product) bool { return p.Featured }
}

// All is the conjunction of preds. With no predicates every product matches.
func All(preds ...Predicate) Predicate {
	return func(p Product) bool {
		for _, pred := range preds {
			if pred != nil && !pred(p) {
				return false
			}
		}
		return true
	}
}

// Matches reports whether query is a case-insensitive substring of the
// title, description, category, brand or any tag. A blank query matches.
func Matches(p Product, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
