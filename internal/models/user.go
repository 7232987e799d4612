package models

import "time"

// User types. Assigned at registration and never changed afterwards.
const (
	UserTypeTraveler = "traveler"
	UserTypeProvider = "provider"
)

const DefaultAvatar = "https://via.placeholder.com/150"

type User struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Name       string    `bson:"name" json:"name"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password,omitempty" json:"-"` // Hashed. Never returned in JSON.
	UserType   string    `bson:"user_type" json:"userType"`
	Phone      string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Country    string    `bson:"country,omitempty" json:"country,omitempty"`
	Avatar     string    `bson:"avatar" json:"avatar"`
	IsVerified bool      `bson:"is_verified" json:"isVerified"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
}

// Sanitized returns a copy with the credential hash cleared, for handing to
// callers outside the auth path.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
