package models

import "time"

// Experience categories and difficulty levels accepted on creation.
var (
	ExperienceTypes = []string{
		"hiking",
		"wildlife-watching",
		"cultural",
		"adventure",
		"educational",
		"conservation",
	}
	DifficultyLevels = []string{"easy", "moderate", "challenging", "expert"}
)

type Experience struct {
	ID                     string    `bson:"_id,omitempty" json:"id"`
	ProviderID             string    `bson:"provider_id" json:"providerId"`
	ProviderName           string    `bson:"provider_name,omitempty" json:"provider,omitempty"`
	Title                  string    `bson:"title" json:"title"`
	Description            string    `bson:"description" json:"description"`
	Location               string    `bson:"location" json:"location"`
	Type                   string    `bson:"type" json:"type"`
	Price                  float64   `bson:"price" json:"price"`
	SustainabilityRating   float64   `bson:"sustainability_rating" json:"sustainabilityRating"`
	SustainabilityFeatures []string  `bson:"sustainability_features,omitempty" json:"sustainabilityFeatures,omitempty"`
	MaxParticipants        int       `bson:"max_participants" json:"maxParticipants"`
	Duration               float64   `bson:"duration" json:"duration"` // in hours
	Difficulty             string    `bson:"difficulty" json:"difficulty"`
	Image                  string    `bson:"image,omitempty" json:"image,omitempty"`
	Gallery                []string  `bson:"gallery,omitempty" json:"gallery,omitempty"`
	Included               []string  `bson:"included,omitempty" json:"included,omitempty"`
	NotIncluded            []string  `bson:"not_included,omitempty" json:"notIncluded,omitempty"`
	AvailableDates         []string  `bson:"available_dates,omitempty" json:"availableDates,omitempty"`
	TotalReviews           int       `bson:"total_reviews" json:"totalReviews"`
	IsActive               bool      `bson:"is_active" json:"isActive"`
	CreatedAt              time.Time `bson:"created_at" json:"createdAt"`
}

// ExperienceFilter narrows experience listings. Zero values mean "no filter".
type ExperienceFilter struct {
	Location  string
	Type      string
	MaxPrice  float64
	MinRating float64
}
