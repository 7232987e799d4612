package store

import (
	"context"
	"errors"
	"time"

	"github.com/pasinduisuranga/traveler-app/internal/models"
)

// DemoPassword is the credential for both demo accounts.
const DemoPassword = "demo123"

// SeedDemo loads the demo traveler, provider, experiences and reviews into
// the given store. Registration and seeding share the same hash cost, so the
// demo credentials verify exactly like live ones. Safe to call twice: it
// backs off when the demo traveler already exists.
func SeedDemo(ctx context.Context, s Store) error {
	traveler, err := s.Users().Create(ctx, NewUser{
		Name:     "Demo Traveler",
		Email:    "traveler@demo.com",
		Password: DemoPassword,
		UserType: models.UserTypeTraveler,
		Phone:    "+1234567890",
		Country:  "United States",
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil
		}
		return err
	}

	providerUser, err := s.Users().Create(ctx, NewUser{
		Name:     "Eco Adventure Tours",
		Email:    "provider@demo.com",
		Password: DemoPassword,
		UserType: models.UserTypeProvider,
		Phone:    "+1987654321",
		Country:  "Costa Rica",
	})
	if err != nil {
		return err
	}

	profile, err := s.Providers().CreateProfile(ctx, &models.Provider{
		UserID:              providerUser.ID,
		BusinessName:        "Eco Adventure Tours",
		BusinessType:        "tour-operator",
		Description:         "Leading eco-tourism provider specializing in sustainable rainforest adventures",
		Verified:            true,
		SustainabilityScore: 4.5,
		Rating:              4.8,
		TotalReviews:        127,
		Certifications:      []string{"Green Tourism Certified", "Wildlife Conservation Partner"},
	})
	if err != nil {
		return err
	}

	experiences := []models.Experience{
		{
			ProviderID:           profile.ID,
			ProviderName:         profile.BusinessName,
			Title:                "Sinharaja Rainforest Trek",
			Location:             "Sinharaja Forest Reserve, Sri Lanka",
			Type:                 "hiking",
			SustainabilityRating: 4.8,
			Price:                85,
			Description:          "Explore the pristine biodiversity of UNESCO World Heritage Sinharaja Forest Reserve, home to endemic species and untouched ecosystems.",
			Image:                "/images/sinharaja.jpg",
			Gallery:              []string{"/images/sinharaja1.jpg", "/images/sinharaja2.jpg"},
			MaxParticipants:      12,
			Duration:             8,
			Difficulty:           "moderate",
			Included:             []string{"Expert guide", "Lunch", "Transportation", "Entry fees"},
			NotIncluded:          []string{"Personal gear", "Insurance"},
			SustainabilityFeatures: []string{
				"Local community employment",
				"Conservation fund contribution",
				"Zero plastic policy",
				"Carbon offset program",
			},
			AvailableDates: []string{"2025-10-15", "2025-10-22", "2025-10-29"},
			IsActive:       true,
		},
		{
			ProviderID:           profile.ID,
			ProviderName:         profile.BusinessName,
			Title:                "Whale Watching at Mirissa",
			Location:             "Mirissa, Sri Lanka",
			Type:                 "wildlife-watching",
			SustainabilityRating: 4.5,
			Price:                120,
			Description:          "Sustainable whale watching experience with blue whales and dolphins, run to strict marine-life distance guidelines.",
			Image:                "/images/whales.jpg",
			MaxParticipants:      20,
			Duration:             6,
			Difficulty:           "easy",
			SustainabilityFeatures: []string{
				"Engine-off observation",
				"Marine conservation levy",
			},
			IsActive: true,
		},
		{
			ProviderID:           profile.ID,
			ProviderName:         profile.BusinessName,
			Title:                "Mangrove Conservation Project",
			Location:             "Bentota, Sri Lanka",
			Type:                 "conservation",
			SustainabilityRating: 4.9,
			Price:                65,
			Description:          "Participate in mangrove restoration and learn about coastal ecosystems from resident marine biologists.",
			Image:                "/images/mangroves.jpg",
			MaxParticipants:      15,
			Duration:             4,
			Difficulty:           "easy",
			SustainabilityFeatures: []string{
				"Direct habitat restoration",
				"Community-led programming",
			},
			IsActive: true,
		},
	}

	var firstExperienceID string
	for i := range experiences {
		created, err := s.Experiences().Create(ctx, &experiences[i])
		if err != nil {
			return err
		}
		if firstExperienceID == "" {
			firstExperienceID = created.ID
		}
	}

	if _, err := s.Reviews().Create(ctx, &models.Review{
		ExperienceID: firstExperienceID,
		ProviderID:   profile.ID,
		UserID:       traveler.ID,
		UserName:     "Sarah J.",
		Rating:       5,
		Comment:      "Amazing experience! Learned so much about biodiversity.",
		Date:         time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		return err
	}

	conv, err := s.Conversations().EnsureConversation(ctx, profile.ID, traveler.ID, traveler.Name)
	if err != nil {
		return err
	}
	_, err = s.Conversations().AppendMessage(ctx, &models.Message{
		ConversationID: conv.ID,
		SenderID:       traveler.ID,
		SenderName:     traveler.Name,
		Text:           "Hi! Is the rainforest trek suitable for beginners?",
	})
	return err
}
