package domain

import "github.com/shopspring/decimal"

const imageQuery = "?auto=compress&cs=tinysrgb&w=500&h=500&dpr=1"

// DefaultCatalog is loaded when no usable catalog is stored.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:          "1",
			Title:       "Premium Wireless Headphones",
			Description: "High-quality wireless headphones with noise cancellation and premium sound quality.",
			Price:       decimal.RequireFromString("299.99"),
			Image:       "https://images.pexels.com/photos/3394650/pexels-photo-3394650.jpeg" + imageQuery,
			Category:    "Electronics",
			Rating:      4.8,
			Stock:       50,
			Brand:       "AudioTech",
			Tags:        []string{"wireless", "noise-cancelling", "premium"},
			Featured:    true,
		},
		{
			ID:          "2",
			Title:       "Smartphone Pro Max",
			Description: "Latest smartphone with advanced camera system and powerful processor.",
			Price:       decimal.RequireFromString("999.99"),
			Image:       "https://images.pexels.com/photos/1092644/pexels-photo-1092644.jpeg" + imageQuery,
			Category:    "Electronics",
			Rating:      4.9,
			Stock:       30,
			Brand:       "TechCorp",
			Tags:        []string{"smartphone", "camera", "flagship"},
			Featured:    true,
		},
		{
			ID:          "3",
			Title:       "Designer Leather Jacket",
			Description: "Premium leather jacket with modern design and superior craftsmanship.",
			Price:       decimal.RequireFromString("399.99"),
			Image:       "https://images.pexels.com/photos/1040945/pexels-photo-1040945.jpeg" + imageQuery,
			Category:    "Fashion",
			Rating:      4.7,
			Stock:       20,
			Brand:       "StyleCo",
			Tags:        []string{"leather", "designer", "jacket"},
		},
		{
			ID:          "4",
			Title:       "Smart Fitness Watch",
			Description: "Advanced fitness tracker with heart rate monitoring and GPS capabilities.",
			Price:       decimal.RequireFromString("199.99"),
			Image:       "https://images.pexels.com/photos/1334598/pexels-photo-1334598.jpeg" + imageQuery,
			Category:    "Electronics",
			Rating:      4.6,
			Stock:       75,
			Brand:       "FitTech",
			Tags:        []string{"smartwatch", "fitness", "gps"},
			Featured:    true,
		},
		{
			ID:          "5",
			Title:       "Organic Coffee Beans",
			Description: "Premium organic coffee beans sourced from sustainable farms.",
			Price:       decimal.RequireFromString("24.99"),
			Image:       "https://images.pexels.com/photos/1695052/pexels-photo-1695052.jpeg" + imageQuery,
			Category:    "Food",
			Rating:      4.5,
			Stock:       100,
			Brand:       "BrewMaster",
			Tags:        []string{"organic", "coffee", "sustainable"},
		},
		{
			ID:          "6",
			Title:       "Gaming Mechanical Keyboard",
			Description: "High-performance mechanical keyboard designed for gaming enthusiasts.",
			Price:       decimal.RequireFromString("149.99"),
			Image:       "https://images.pexels.com/photos/1194713/pexels-photo-1194713.jpeg" + imageQuery,
			Category:    "Electronics",
			Rating:      4.7,
			Stock:       40,
			Brand:       "GameGear",
			Tags:        []string{"gaming", "mechanical", "keyboard"},
		},
		{
			ID:          "7",
			Title:       "Minimalist Desk Lamp",
			Description: "Modern LED desk lamp with adjustable brightness and sleek design.",
			Price:       decimal.RequireFromString("89.99"),
			Image:       "https://images.pexels.com/photos/1112598/pexels-photo-1112598.jpeg" + imageQuery,
			Category:    "Home",
			Rating:      4.4,
			Stock:       60,
			Brand:       "LightCo",
			Tags:        []string{"led", "desk", "minimalist"},
			Featured:    true,
		},
		{
			ID:          "8",
			Title:       "Yoga Mat Premium",
			Description: "High-quality yoga mat with superior grip and cushioning.",
			Price:       decimal.RequireFromString("59.99"),
			Image:       "https://images.pexels.com/photos/3822356/pexels-photo-3822356.jpeg" + imageQuery,
			Category:    "Sports",
			Rating:      4.6,
			Stock:       80,
			Brand:       "ZenFit",
			Tags:        []string{"yoga", "fitness", "mat"},
		},
	}
}
