package models

import "time"

// Business types a provider can register under.
var BusinessTypes = []string{
	"eco-lodge",
	"tour-operator",
	"activity-provider",
	"transportation",
	"restaurant",
	"other",
}

// PendingBusinessType marks the placeholder profile created at account
// registration, before the provider has filled in their business details.
const PendingBusinessType = "other"

// Provider is the business profile owned by a user with UserType "provider".
// A pending profile exists from the moment the account is created.
type Provider struct {
	ID                  string    `bson:"_id,omitempty" json:"id"`
	UserID              string    `bson:"user_id" json:"userId"`
	BusinessName        string    `bson:"business_name" json:"businessName"`
	BusinessType        string    `bson:"business_type" json:"businessType"`
	Description         string    `bson:"description,omitempty" json:"description,omitempty"`
	Location            string    `bson:"location,omitempty" json:"location,omitempty"`
	SustainabilityScore float64   `bson:"sustainability_score" json:"sustainabilityScore"`
	Certifications      []string  `bson:"certifications,omitempty" json:"certifications,omitempty"`
	Verified            bool      `bson:"verified" json:"verified"`
	Rating              float64   `bson:"rating" json:"rating"`
	TotalReviews        int       `bson:"total_reviews" json:"totalReviews"`
	CreatedAt           time.Time `bson:"created_at" json:"createdAt"`
}
