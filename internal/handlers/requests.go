package handlers

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/internal/respond"
)

// Request body schemas. Each type implements middleware.Payload: Normalize
// coerces the decoded body (trim, lowercase email, defaults) and Validate
// collects every violation with its field path.

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	UserType string `json:"userType"`
}

func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Country = strings.TrimSpace(r.Country)
	if r.UserType == "" {
		r.UserType = models.UserTypeTraveler
	}
}

func (r *RegisterRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	switch {
	case r.Name == "":
		errs = append(errs, fieldErr("name", "Name is required"))
	case len(r.Name) < 2:
		errs = append(errs, fieldErr("name", "Name must be at least 2 characters long"))
	case len(r.Name) > 50:
		errs = append(errs, fieldErr("name", "Name cannot exceed 50 characters"))
	}

	switch {
	case r.Email == "":
		errs = append(errs, fieldErr("email", "Email is required"))
	case !validEmail(r.Email):
		errs = append(errs, fieldErr("email", "Please provide a valid email address"))
	}

	switch {
	case r.Password == "":
		errs = append(errs, fieldErr("password", "Password is required"))
	case len(r.Password) < 8:
		errs = append(errs, fieldErr("password", "Password must be at least 8 characters long"))
	case !strongPassword(r.Password):
		errs = append(errs, fieldErr("password", "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"))
	}

	if r.Phone != "" && !phonePattern.MatchString(r.Phone) {
		errs = append(errs, fieldErr("phone", "Please provide a valid phone number"))
	}

	if r.Country != "" && (len(r.Country) < 2 || len(r.Country) > 50) {
		errs = append(errs, fieldErr("country", "Country must be between 2 and 50 characters"))
	}

	if !validUserType(r.UserType) {
		errs = append(errs, fieldErr("userType", "User type must be either traveler or provider"))
	}

	return errs
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *LoginRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	switch {
	case r.Email == "":
		errs = append(errs, fieldErr("email", "Email is required"))
	case !validEmail(r.Email):
		errs = append(errs, fieldErr("email", "Please provide a valid email address"))
	}

	if r.Password == "" {
		errs = append(errs, fieldErr("password", "Password is required"))
	}

	switch {
	case r.UserType == "":
		errs = append(errs, fieldErr("userType", "User type is required"))
	case !validUserType(r.UserType):
		errs = append(errs, fieldErr("userType", "User type must be either traveler or provider"))
	}

	return errs
}

type BookingRequest struct {
	ExperienceID    string `json:"experienceId"`
	Date            string `json:"date"`
	Participants    int    `json:"participants"`
	SpecialRequests string `json:"specialRequests"`
}

func (r *BookingRequest) Normalize() {
	r.ExperienceID = strings.TrimSpace(r.ExperienceID)
	r.Date = strings.TrimSpace(r.Date)
	r.SpecialRequests = strings.TrimSpace(r.SpecialRequests)
}

func (r *BookingRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	if r.ExperienceID == "" {
		errs = append(errs, fieldErr("experienceId", "Experience ID is required"))
	}

	switch {
	case r.Date == "":
		errs = append(errs, fieldErr("date", "Booking date is required"))
	default:
		if d, ok := parseBookingDate(r.Date); !ok {
			errs = append(errs, fieldErr("date", "Booking date must be a valid date"))
		} else if !d.After(time.Now()) {
			errs = append(errs, fieldErr("date", "Booking date must be in the future"))
		}
	}

	switch {
	case r.Participants == 0:
		errs = append(errs, fieldErr("participants", "Number of participants is required"))
	case r.Participants < 1:
		errs = append(errs, fieldErr("participants", "At least 1 participant is required"))
	case r.Participants > 20:
		errs = append(errs, fieldErr("participants", "Maximum 20 participants allowed"))
	}

	if len(r.SpecialRequests) > 500 {
		errs = append(errs, fieldErr("specialRequests", "Special requests cannot exceed 500 characters"))
	}

	return errs
}

type BookingStatusRequest struct {
	Status string `json:"status"`
}

func (r *BookingStatusRequest) Normalize() {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *BookingStatusRequest) Validate() []respond.FieldError {
	if !models.ValidBookingStatus(r.Status) {
		return []respond.FieldError{fieldErr("status", "Invalid status")}
	}
	return nil
}

type ExperienceRequest struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Location               string   `json:"location"`
	Type                   string   `json:"type"`
	Price                  float64  `json:"price"`
	MaxParticipants        int      `json:"maxParticipants"`
	Duration               float64  `json:"duration"`
	Difficulty             string   `json:"difficulty"`
	SustainabilityFeatures []string `json:"sustainabilityFeatures"`
	Image                  string   `json:"image"`
	Gallery                []string `json:"gallery"`
	Included               []string `json:"included"`
	NotIncluded            []string `json:"notIncluded"`
	AvailableDates         []string `json:"availableDates"`
}

func (r *ExperienceRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
}

func (r *ExperienceRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	switch {
	case r.Title == "":
		errs = append(errs, fieldErr("title", "Title is required"))
	case len(r.Title) < 5 || len(r.Title) > 100:
		errs = append(errs, fieldErr("title", "Title must be between 5 and 100 characters"))
	}

	switch {
	case r.Description == "":
		errs = append(errs, fieldErr("description", "Description is required"))
	case len(r.Description) < 20 || len(r.Description) > 2000:
		errs = append(errs, fieldErr("description", "Description must be between 20 and 2000 characters"))
	}

	switch {
	case r.Location == "":
		errs = append(errs, fieldErr("location", "Location is required"))
	case len(r.Location) < 5 || len(r.Location) > 100:
		errs = append(errs, fieldErr("location", "Location must be between 5 and 100 characters"))
	}

	if !oneOf(r.Type, models.ExperienceTypes) {
		errs = append(errs, fieldErr("type", "Type must be one of: "+strings.Join(models.ExperienceTypes, ", ")))
	}

	switch {
	case r.Price <= 0:
		errs = append(errs, fieldErr("price", "Price must be a positive number"))
	case r.Price > 10000:
		errs = append(errs, fieldErr("price", "Price cannot exceed 10000"))
	}

	if r.MaxParticipants < 1 || r.MaxParticipants > 50 {
		errs = append(errs, fieldErr("maxParticipants", "Max participants must be between 1 and 50"))
	}

	switch {
	case r.Duration <= 0:
		errs = append(errs, fieldErr("duration", "Duration must be a positive number of hours"))
	case r.Duration > 168:
		errs = append(errs, fieldErr("duration", "Duration cannot exceed 168 hours"))
	}

	if !oneOf(r.Difficulty, models.DifficultyLevels) {
		errs = append(errs, fieldErr("difficulty", "Difficulty must be one of: "+strings.Join(models.DifficultyLevels, ", ")))
	}

	if len(r.SustainabilityFeatures) < 1 {
		errs = append(errs, fieldErr("sustainabilityFeatures", "At least one sustainability feature is required"))
	}

	return errs
}

type ProviderRegisterRequest struct {
	BusinessName string `json:"businessName"`
	BusinessType string `json:"businessType"`
	Description  string `json:"description"`
	Location     string `json:"location"`
}

func (r *ProviderRegisterRequest) Normalize() {
	r.BusinessName = strings.TrimSpace(r.BusinessName)
	r.BusinessType = strings.ToLower(strings.TrimSpace(r.BusinessType))
	r.Description = strings.TrimSpace(r.Description)
	r.Location = strings.TrimSpace(r.Location)
}

func (r *ProviderRegisterRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	if r.BusinessName == "" {
		errs = append(errs, fieldErr("businessName", "Business name is required"))
	}

	switch {
	case r.BusinessType == "":
		errs = append(errs, fieldErr("businessType", "Business type is required"))
	case !oneOf(r.BusinessType, models.BusinessTypes):
		errs = append(errs, fieldErr("businessType", "Business type must be one of: "+strings.Join(models.BusinessTypes, ", ")))
	}

	return errs
}

type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
	Avatar  string `json:"avatar"`
}

func (r *UpdateProfileRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Country = strings.TrimSpace(r.Country)
	r.Avatar = strings.TrimSpace(r.Avatar)
}

func (r *UpdateProfileRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	if r.Name != "" && (len(r.Name) < 2 || len(r.Name) > 50) {
		errs = append(errs, fieldErr("name", "Name must be between 2 and 50 characters"))
	}
	if r.Phone != "" && !phonePattern.MatchString(r.Phone) {
		errs = append(errs, fieldErr("phone", "Please provide a valid phone number"))
	}
	if r.Country != "" && (len(r.Country) < 2 || len(r.Country) > 50) {
		errs = append(errs, fieldErr("country", "Country must be between 2 and 50 characters"))
	}

	return errs
}

type MessageRequest struct {
	Text string `json:"text"`
}

func (r *MessageRequest) Normalize() {
	r.Text = strings.TrimSpace(r.Text)
}

func (r *MessageRequest) Validate() []respond.FieldError {
	var errs []respond.FieldError

	switch {
	case r.Text == "":
		errs = append(errs, fieldErr("text", "Message text is required"))
	case len(r.Text) > 2000:
		errs = append(errs, fieldErr("text", "Message cannot exceed 2000 characters"))
	}

	return errs
}

// --- helpers ---

func fieldErr(field, message string) respond.FieldError {
	return respond.FieldError{Field: field, Message: message}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func validUserType(t string) bool {
	return t == models.UserTypeTraveler || t == models.UserTypeProvider
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// strongPassword requires lower, upper, digit and one of @$!%*?&.
func strongPassword(pw string) bool {
	var lower, upper, digit, special bool
	for _, c := range pw {
		switch {
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", c):
			special = true
		}
	}
	return lower && upper && digit && special
}

func parseBookingDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
