package domain

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/storefront/pkg/apperr"
)

const MaxRating = 5.0

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
	Tags        []string        `json:"tags"`
	Featured    bool            `json:"featured"`
}

// Draft is a product that has not been assigned an id yet.
type Draft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	Stock       int             `json:"stock"`
	Brand       string          `json:"brand"`
	Tags        []string        `json:"tags"`
	Featured    bool            `json:"featured"`
}

// Patch carries the fields of a partial update; nil fields are left alone.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       *string          `json:"image,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Rating      *float64         `json:"rating,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
}

func NewProduct(id string, d Draft) (Product, error) {
	p := Product{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    d.Category,
		Rating:      d.Rating,
		Stock:       d.Stock,
		Brand:       d.Brand,
		Tags:        normalizeTags(d.Tags),
		Featured:    d.Featured,
	}
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// Apply returns p with the patch merged in. p itself is not modified.
func (p Product) Apply(patch Patch) (Product, error) {
	out := p.Clone()
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Description != nil {
		out.Description = *patch.Description
	}
	if patch.Price != nil {
		out.Price = *patch.Price
	}
	if patch.Image != nil {
		out.Image = *patch.Image
	}
	if patch.Category != nil {
		out.Category = *patch.Category
	}
	if patch.Rating != nil {
		out.Rating = *patch.Rating
	}
	if patch.Stock != nil {
		out.Stock = *patch.Stock
	}
	if patch.Brand != nil {
		out.Brand = *patch.Brand
	}
	if patch.Tags != nil {
		out.Tags = normalizeTags(patch.Tags)
	}
	if patch.Featured != nil {
		out.Featured = *patch.Featured
	}
	if err := out.Validate(); err != nil {
		return Product{}, err
	}
	return out, nil
}

func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return apperr.Invalid("title", "must not be empty")
	case p.Price.IsNegative():
		return apperr.Invalid("price", "must not be negative")
	case p.Stock < 0:
		return apperr.Invalid("stock", "must not be negative")
	case p.Rating < 0 || p.Rating > MaxRating:
		return apperr.Invalid("rating", "must be between 0 and 5")
	}
	return nil
}

// Clone returns a copy that shares no mutable state with p.
func (p Product) Clone() Product {
	out := p
	out.Tags = append([]string(nil), p.Tags...)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out
}

func (p Product) InStock() bool { return p.Stock > 0 }

// normalizeTags drops blanks and duplicates, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
