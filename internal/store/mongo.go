package store

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pasinduisuranga/traveler-app/internal/models"
	"github.com/pasinduisuranga/traveler-app/pkg/utils"
)

// Mongo is the document-store implementation. Record IDs are ObjectID hex
// strings so the Store interfaces stay identifier-agnostic.
type Mongo struct {
	db         *mongo.Database
	bcryptCost int
}

func NewMongo(db *mongo.Database, bcryptCost int) *Mongo {
	return &Mongo{db: db, bcryptCost: bcryptCost}
}

// EnsureIndexes creates the indexes the store relies on. The unique index on
// users.email backs the duplicate-registration check under concurrency.
func (s *Mongo) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		"users": {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_email_unique"),
		}},
		"providers": {{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_provider_user"),
		}},
		"experiences": {{
			Keys:    bson.D{{Key: "provider_id", Value: 1}},
			Options: options.Index().SetName("idx_experience_provider"),
		}},
		"bookings": {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "booking_date", Value: -1}},
				Options: options.Index().SetName("idx_booking_user"),
			},
			{
				Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "booking_date", Value: -1}},
				Options: options.Index().SetName("idx_booking_provider"),
			},
		},
		"messages": {{
			Keys:    bson.D{{Key: "conversation_id", Value: 1}, {Key: "sent_at", Value: 1}},
			Options: options.Index().SetName("idx_message_conversation"),
		}},
		"reviews": {{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("idx_review_provider"),
		}},
	}

	for collection, ms := range indexes {
		if _, err := s.db.Collection(collection).Indexes().CreateMany(ctx, ms); err != nil {
			return err
		}
	}
	return nil
}

func (s *Mongo) Users() UserStore                 { return &mongoUsers{s} }
func (s *Mongo) Providers() ProviderStore         { return &mongoProviders{s} }
func (s *Mongo) Experiences() ExperienceStore     { return &mongoExperiences{s} }
func (s *Mongo) Bookings() BookingStore           { return &mongoBookings{s} }
func (s *Mongo) Conversations() ConversationStore { return &mongoConversations{s} }
func (s *Mongo) Reviews() ReviewStore             { return &mongoReviews{s} }

func translateFindErr(err error) error {
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

// --- users ---

type mongoUsers struct{ *Mongo }

func (s *mongoUsers) collection() *mongo.Collection { return s.db.Collection("users") }

func (s *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.collection().FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &u, nil
}

func (s *mongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0})
	err := s.collection().FindOne(ctx, bson.M{"_id": id}, opts).Decode(&u)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &u, nil
}

func (s *mongoUsers) Create(ctx context.Context, nu NewUser) (*models.User, error) {
	hash, err := utils.HashPassword(nu.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	avatar := nu.Avatar
	if avatar == "" {
		avatar = models.DefaultAvatar
	}

	user := models.User{
		ID:        primitive.NewObjectID().Hex(),
		Name:      nu.Name,
		Email:     strings.ToLower(nu.Email),
		Password:  hash,
		UserType:  nu.UserType,
		Phone:     nu.Phone,
		Country:   nu.Country,
		Avatar:    avatar,
		CreatedAt: time.Now().UTC(),
	}

	// The unique index on email makes the insert itself the uniqueness check,
	// so two concurrent registrations cannot both win.
	if _, err := s.collection().InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

func (s *mongoUsers) UpdateProfile(ctx context.Context, id string, up ProfileUpdate) (*models.User, error) {
	set := bson.M{}
	if up.Name != "" {
		set["name"] = up.Name
	}
	if up.Phone != "" {
		set["phone"] = up.Phone
	}
	if up.Country != "" {
		set["country"] = up.Country
	}
	if up.Avatar != "" {
		set["avatar"] = up.Avatar
	}
	if len(set) == 0 {
		return s.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0})

	var u models.User
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &u, nil
}

// --- providers ---

type mongoProviders struct{ *Mongo }

func (s *mongoProviders) collection() *mongo.Collection { return s.db.Collection("providers") }

func (s *mongoProviders) CreateProfile(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	created := *p
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection().InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *mongoProviders) UpdateProfile(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	set := bson.M{
		"business_name": p.BusinessName,
		"business_type": p.BusinessType,
		"description":   p.Description,
		"location":      p.Location,
	}

	var updated models.Provider
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &updated, nil
}

func (s *mongoProviders) FindByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	var p models.Provider
	err := s.collection().FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &p, nil
}

func (s *mongoProviders) FindByID(ctx context.Context, id string) (*models.Provider, error) {
	var p models.Provider
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &p, nil
}

func (s *mongoProviders) List(ctx context.Context) ([]models.Provider, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Provider
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- experiences ---

type mongoExperiences struct{ *Mongo }

func (s *mongoExperiences) collection() *mongo.Collection { return s.db.Collection("experiences") }

func (s *mongoExperiences) List(ctx context.Context, f models.ExperienceFilter) ([]models.Experience, error) {
	filter := bson.M{"is_active": true}
	if f.Location != "" {
		filter["location"] = bson.M{"$regex": primitive.Regex{Pattern: f.Location, Options: "i"}}
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.MaxPrice > 0 {
		filter["price"] = bson.M{"$lte": f.MaxPrice}
	}
	if f.MinRating > 0 {
		filter["sustainability_rating"] = bson.M{"$gte": f.MinRating}
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Experience
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoExperiences) ListByProvider(ctx context.Context, providerID string) ([]models.Experience, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.collection().Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Experience
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoExperiences) FindByID(ctx context.Context, id string) (*models.Experience, error) {
	var e models.Experience
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &e, nil
}

func (s *mongoExperiences) Create(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	created := *e
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	if _, err := s.collection().InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *mongoExperiences) Update(ctx context.Context, e *models.Experience) (*models.Experience, error) {
	res, err := s.collection().ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	updated := *e
	return &updated, nil
}

// --- bookings ---

type mongoBookings struct{ *Mongo }

func (s *mongoBookings) collection() *mongo.Collection { return s.db.Collection("bookings") }

func (s *mongoBookings) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "booking_date", Value: -1}})
	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Booking
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoBookings) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

func (s *mongoBookings) ListByProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	return s.list(ctx, bson.M{"provider_id": providerID})
}

func (s *mongoBookings) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &b, nil
}

func (s *mongoBookings) Create(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	created := *b
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if created.BookingDate.IsZero() {
		created.BookingDate = time.Now().UTC()
	}
	created.UpdatedAt = created.BookingDate
	if _, err := s.collection().InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *mongoBookings) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	err := s.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&b)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &b, nil
}

// --- conversations ---

type mongoConversations struct{ *Mongo }

func (s *mongoConversations) conversations() *mongo.Collection { return s.db.Collection("conversations") }
func (s *mongoConversations) messages() *mongo.Collection      { return s.db.Collection("messages") }

func (s *mongoConversations) ListByProvider(ctx context.Context, providerID string) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.conversations().Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoConversations) FindConversation(ctx context.Context, id string) (*models.Conversation, error) {
	var c models.Conversation
	err := s.conversations().FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		return nil, translateFindErr(err)
	}
	return &c, nil
}

func (s *mongoConversations) EnsureConversation(ctx context.Context, providerID, travelerID, travelerName string) (*models.Conversation, error) {
	filter := bson.M{"provider_id": providerID, "traveler_id": travelerID}

	var c models.Conversation
	err := s.conversations().FindOne(ctx, filter).Decode(&c)
	if err == nil {
		return &c, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now().UTC()
	c = models.Conversation{
		ID:           primitive.NewObjectID().Hex(),
		ProviderID:   providerID,
		TravelerID:   travelerID,
		TravelerName: travelerName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.conversations().InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *mongoConversations) ListMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "sent_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.messages().Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var newestFirst []models.Message
	if err := cur.All(ctx, &newestFirst); err != nil {
		return nil, err
	}

	// Callers expect chronological order.
	out := make([]models.Message, len(newestFirst))
	for i, m := range newestFirst {
		out[len(newestFirst)-1-i] = m
	}
	return out, nil
}

func (s *mongoConversations) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	created := *msg
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if created.SentAt.IsZero() {
		created.SentAt = time.Now().UTC()
	}
	if created.Status == "" {
		created.Status = "delivered"
	}

	if _, err := s.messages().InsertOne(ctx, created); err != nil {
		return nil, err
	}

	update := bson.M{"$set": bson.M{"last_message": created.Text, "updated_at": created.SentAt}}
	res, err := s.conversations().UpdateOne(ctx, bson.M{"_id": created.ConversationID}, update)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return &created, nil
}

// --- reviews ---

type mongoReviews struct{ *Mongo }

func (s *mongoReviews) collection() *mongo.Collection { return s.db.Collection("reviews") }

func (s *mongoReviews) list(ctx context.Context, filter bson.M) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := s.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Review
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *mongoReviews) ListByExperience(ctx context.Context, experienceID string) ([]models.Review, error) {
	return s.list(ctx, bson.M{"experience_id": experienceID})
}

func (s *mongoReviews) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	return s.list(ctx, bson.M{"provider_id": providerID})
}

func (s *mongoReviews) Create(ctx context.Context, rv *models.Review) (*models.Review, error) {
	created := *rv
	if created.ID == "" {
		created.ID = primitive.NewObjectID().Hex()
	}
	if created.Date.IsZero() {
		created.Date = time.Now().UTC()
	}
	if _, err := s.collection().InsertOne(ctx, created); err != nil {
		return nil, err
	}
	return &created, nil
}
