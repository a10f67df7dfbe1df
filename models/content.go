package models

import "time"

// Carousel is a homepage slide.
type Carousel struct {
	ID        string    `bson:"id" json:"id"`
	Title     string    `bson:"title" json:"title"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	Images    []string  `bson:"images" json:"images"`
	AltText   string    `bson:"altText,omitempty" json:"altText,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type CarouselInput struct {
	Title          string   `form:"title"`
	IsActive       *bool    `form:"isActive"`
	AltText        string   `form:"altText"`
	PreviousImages []string `form:"previousImages"`
}

// Prep holds pre-appointment preparation notes for a booking.
type Prep struct {
	ID        string    `bson:"id" json:"id"`
	Customer  string    `bson:"customer" json:"customer"`
	Booking   string    `bson:"booking" json:"booking"`
	Notes     string    `bson:"notes" json:"notes"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type PrepRequest struct {
	Customer string `json:"customer"`
	Booking  string `json:"booking" binding:"required"`
	Notes    string `json:"notes" binding:"required"`
}

type PrepUpdateRequest struct {
	Notes *string `json:"notes,omitempty"`
}

type PrepFilter struct {
	Customer string
	Booking  string
}
