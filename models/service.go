package models

import "time"

const (
	CategorySingle = "Single Services"
	CategoryClass  = "Class Services"
	CategoryEvent  = "Event Services"

	PublishPublished = "published"
	PublishDraft     = "draft"
)

// ValidCategory reports whether c is one of the catalog categories.
func ValidCategory(c string) bool {
	switch c {
	case CategorySingle, CategoryClass, CategoryEvent:
		return true
	}
	return false
}

// Service is a bookable catalog entry.
type Service struct {
	ID                 string     `bson:"id" json:"id"`
	Title              string     `bson:"title" json:"title"`
	Price              float64    `bson:"price" json:"price"`
	Description        string     `bson:"description,omitempty" json:"description,omitempty"`
	Images             []string   `bson:"images" json:"images"`
	Category           string     `bson:"category" json:"category"`
	Availability       string     `bson:"availability,omitempty" json:"availability,omitempty"` // free-form note shown to customers
	IsAvailable        bool       `bson:"isAvailable" json:"isAvailable"`
	Publish            string     `bson:"publish" json:"publish"`
	IsClean            bool       `bson:"isClean" json:"isClean"`
	LastCheckoutTime   *time.Time `bson:"lastCheckoutTime,omitempty" json:"lastCheckoutTime,omitempty"`
	ReservationVersion int64      `bson:"reservationVersion" json:"-"` // bumped by every reserving transaction
	CreatedAt          time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// Summary returns the subset embedded into booking responses.
func (s *Service) Summary() ServiceSummary {
	return ServiceSummary{
		ID:       s.ID,
		Title:    s.Title,
		Price:    s.Price,
		Images:   s.Images,
		Category: s.Category,
	}
}

type ServiceSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Images   []string `json:"images,omitempty"`
	Category string   `json:"category"`
}

// ServiceInput is bound from the multipart form on create and update.
type ServiceInput struct {
	Title          string   `form:"title"`
	Price          *float64 `form:"price"`
	Description    string   `form:"description"`
	Category       string   `form:"category"`
	Availability   string   `form:"availability"`
	IsAvailable    *bool    `form:"isAvailable"`
	Publish        string   `form:"publish"`
	PreviousImages []string `form:"previousImages"`
}

// ServiceFilter narrows catalog listings.
type ServiceFilter struct {
	Category string
	Publish  string
}
