package models

import "time"

type Review struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	ExperienceID string    `bson:"experience_id" json:"experienceId"`
	ProviderID   string    `bson:"provider_id" json:"providerId"`
	UserID       string    `bson:"user_id" json:"userId"`
	UserName     string    `bson:"user_name" json:"userName"`
	Rating       int       `bson:"rating" json:"rating"`
	Comment      string    `bson:"comment,omitempty" json:"comment,omitempty"`
	Date         time.Time `bson:"date" json:"date"`
}
