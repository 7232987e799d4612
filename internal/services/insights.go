package services

import (
	"context"
	"time"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/store"
)

// DashboardData is the provider console summary.
type DashboardData struct {
	Provider       ProviderSummary  `json:"provider"`
	Analytics      AnalyticsData    `json:"analytics"`
	RecentBookings []models.Booking `json:"recentBookings"`
}

type ProviderSummary struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Verified            bool    `json:"verified"`
	SustainabilityScore float64 `json:"sustainabilityScore"`
}

type AnalyticsData struct {
	Range             string    `json:"range,omitempty"`
	TotalBookings     int       `json:"totalBookings"`
	TotalRevenue      float64   `json:"totalRevenue"`
	AverageRating     float64   `json:"averageRating"`
	ActiveExperiences int       `json:"activeExperiences"`
	MonthlyBookings   []int     `json:"monthlyBookings"`
	ConversionRate    float64   `json:"conversionRate"`
	RepeatCustomers   int       `json:"repeatCustomers"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// PaymentRecord summarizes a payout line on the provider payments page.
type PaymentRecord struct {
	BookingID        string    `json:"bookingId"`
	ConfirmationCode string    `json:"confirmationCode"`
	ExperienceTitle  string    `json:"experienceTitle"`
	Amount           float64   `json:"amount"`
	PlatformFee      float64   `json:"platformFee"`
	NetPayout        float64   `json:"netPayout"`
	Status           string    `json:"status"` // "paid" for completed bookings, else "pending"
	Date             time.Time `json:"date"`
}

// InsightsProvider backs the provider dashboard, analytics and payments
// pages. Keeping it an explicit collaborator keeps the auth gate independent
// of whatever data source feeds the console.
type InsightsProvider interface {
	Dashboard(ctx context.Context, provider *models.Provider) (*DashboardData, error)
	Analytics(ctx context.Context, provider *models.Provider, rng string) (*AnalyticsData, error)
	Payments(ctx context.Context, provider *models.Provider) ([]PaymentRecord, error)
}

// platformFeeRate is the marketplace cut applied to every payout.
const platformFeeRate = 0.10

// StoreInsights computes insight data from the booking, experience and
// review stores.
type StoreInsights struct {
	store store.Store
}

func NewStoreInsights(s store.Store) *StoreInsights {
	return &StoreInsights{store: s}
}

func (si *StoreInsights) Dashboard(ctx context.Context, provider *models.Provider) (*DashboardData, error) {
	analytics, err := si.Analytics(ctx, provider, "")
	if err != nil {
		return nil, err
	}

	bookings, err := si.store.Bookings().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	if len(bookings) > 5 {
		bookings = bookings[:5]
	}

	return &DashboardData{
		Provider: ProviderSummary{
			ID:                  provider.ID,
			Name:                provider.BusinessName,
			Verified:            provider.Verified,
			SustainabilityScore: provider.SustainabilityScore,
		},
		Analytics:      *analytics,
		RecentBookings: bookings,
	}, nil
}

func (si *StoreInsights) Analytics(ctx context.Context, provider *models.Provider, rng string) (*AnalyticsData, error) {
	bookings, err := si.store.Bookings().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	experiences, err := si.store.Experiences().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}
	reviews, err := si.store.Reviews().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}

	months := rangeMonths(rng)
	cutoff := startOfMonth(time.Now().UTC()).AddDate(0, -(months - 1), 0)

	var revenue float64
	monthly := make([]int, months)
	customers := make(map[string]int)
	total := 0
	for _, b := range bookings {
		if b.Status == "cancelled" {
			continue
		}
		total++
		revenue += b.TotalAmount
		customers[b.UserID]++
		if !b.BookingDate.Before(cutoff) {
			idx := monthIndex(cutoff, b.BookingDate)
			if idx >= 0 && idx < months {
				monthly[idx]++
			}
		}
	}

	repeat := 0
	for _, n := range customers {
		if n > 1 {
			repeat++
		}
	}

	active := 0
	for _, e := range experiences {
		if e.IsActive {
			active++
		}
	}

	var ratingSum int
	for _, rv := range reviews {
		ratingSum += rv.Rating
	}
	avgRating := provider.Rating
	if len(reviews) > 0 {
		avgRating = float64(ratingSum) / float64(len(reviews))
	}

	// Confirmed-or-better share of all bookings, as a percentage.
	conversion := 0.0
	if len(bookings) > 0 {
		settled := 0
		for _, b := range bookings {
			if b.Status == "confirmed" || b.Status == "completed" {
				settled++
			}
		}
		conversion = float64(settled) / float64(len(bookings)) * 100
	}

	return &AnalyticsData{
		Range:             rng,
		TotalBookings:     total,
		TotalRevenue:      revenue,
		AverageRating:     avgRating,
		ActiveExperiences: active,
		MonthlyBookings:   monthly,
		ConversionRate:    conversion,
		RepeatCustomers:   repeat,
		GeneratedAt:       time.Now().UTC(),
	}, nil
}

func (si *StoreInsights) Payments(ctx context.Context, provider *models.Provider) ([]PaymentRecord, error) {
	bookings, err := si.store.Bookings().ListByProvider(ctx, provider.ID)
	if err != nil {
		return nil, err
	}

	records := make([]PaymentRecord, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == "cancelled" || b.Status == "pending" {
			continue
		}
		fee := b.TotalAmount * platformFeeRate
		status := "pending"
		if b.Status == "completed" {
			status = "paid"
		}
		records = append(records, PaymentRecord{
			BookingID:        b.ID,
			ConfirmationCode: b.ConfirmationCode,
			ExperienceTitle:  b.ExperienceTitle,
			Amount:           b.TotalAmount,
			PlatformFee:      fee,
			NetPayout:        b.TotalAmount - fee,
			Status:           status,
			Date:             b.BookingDate,
		})
	}
	return records, nil
}

func rangeMonths(rng string) int {
	switch rng {
	case "3m":
		return 3
	case "6m":
		return 6
	case "12m", "1y", "":
		return 12
	default:
		return 12
	}
}

func startOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func monthIndex(start, t time.Time) int {
	return (t.Year()-start.Year())*12 + int(t.Month()) - int(start.Month())
}
