package domain

import "time"

// Product is a catalog item shown on the storefront.
type Product struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Category     string    `json:"category"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Image        string    `json:"image,omitempty"`
	Description  string    `json:"description,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	CreatedAt    time.Time `json:"createdAt"`
}
