package domain

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// RecommendationLimit caps the number of peers returned for a product.
const RecommendationLimit = 4

var (
	halfPrice  = decimal.NewFromFloat(0.5)
	ratingBand = 0.5
)

// Score is the content similarity of two products:
//
//	+3 same category, +2 same brand,
//	+1 when prices are within 50% of the larger one,
//	+1 when ratings differ by at most 0.5,
//	+1 per tag carried by both.
//
// Score is symmetric.
func Score(a, b Product) int {
	score := 0
	if a.Category == b.Category {
		score += 3
	}
	if a.Brand == b.Brand {
		score += 2
	}
	if similarPrice(a.Price, b.Price) {
		score++
	}
	// Ratings are stored with one decimal; round away float noise first.
	if math.Round(math.Abs(a.Rating-b.Rating)*1e9)/1e9 <= ratingBand {
		score++
	}
	return score + sharedTags(a.Tags, b.Tags)
}

func similarPrice(a, b decimal.Decimal) bool {
	larger := decimal.Max(a, b)
	if !larger.IsPositive() {
		return false
	}
	return a.Sub(b).Abs().Div(larger).LessThanOrEqual(halfPrice)
}

func sharedTags(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}
	n := 0
	counted := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, ok := set[t]; !ok {
			continue
		}
		if _, dup := counted[t]; dup {
			continue
		}
		counted[t] = struct{}{}
		n++
	}
	return n
}

// Recommend ranks every product in catalog other than source by Score,
// highest first. Equal scores keep catalog order. At most limit products are
// returned.
func Recommend(source Product, catalog []Product, limit int) []Product {
	type scored struct {
		product Product
		score   int
	}
	candidates := make([]scored, 0, len(catalog))
	for _, p := range catalog {
		if p.ID == source.ID {
			continue
		}
		candidates = append(candidates, scored{product: p, score: Score(source, p)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	out := make([]Product, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.product.Clone())
	}
	return out
}
