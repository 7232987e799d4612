package models

import "time"

// Booking statuses. Transitions are caller-driven; any listed status is a
// valid target from any other.
var BookingStatuses = []string{"pending", "confirmed", "cancelled", "completed"}

type Booking struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	ExperienceID     string    `bson:"experience_id" json:"experienceId"`
	ExperienceTitle  string    `bson:"experience_title" json:"experienceTitle"`
	UserID           string    `bson:"user_id" json:"userId"`
	ProviderID       string    `bson:"provider_id" json:"providerId"`
	ProviderName     string    `bson:"provider_name,omitempty" json:"provider,omitempty"`
	Date             string    `bson:"date" json:"date"` // requested experience date, YYYY-MM-DD
	Participants     int       `bson:"participants" json:"participants"`
	SpecialRequests  string    `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	Status           string    `bson:"status" json:"status"`
	TotalAmount      float64   `bson:"total_amount" json:"totalAmount"`
	ConfirmationCode string    `bson:"confirmation_code" json:"confirmationCode"`
	BookingDate      time.Time `bson:"booking_date" json:"bookingDate"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

func ValidBookingStatus(s string) bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}
