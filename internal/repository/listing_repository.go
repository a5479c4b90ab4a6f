package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/database"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ListingRepository interface {
	// Find returns the matching listings newest first, owners populated.
	Find(ctx context.Context, filter models.ListingFilter) ([]models.ListingView, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error)
	FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.ListingView, error)
	Create(ctx context.Context, listing *models.Listing) error
	// Update writes the fields set in patch and returns the updated listing.
	Update(ctx context.Context, id primitive.ObjectID, patch *models.ListingPatch) (*models.ListingView, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoListingRepository struct {
	listings *mongo.Collection
	users    *mongo.Collection
}

func NewMongoListingRepository(db *mongo.Database) ListingRepository {
	return &mongoListingRepository{
		listings: db.Collection(database.ListingsCollection),
		users:    db.Collection(database.UsersCollection),
	}
}

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

func (r *mongoListingRepository) Find(ctx context.Context, filter models.ListingFilter) ([]models.ListingView, error) {
	cursor, err := r.listings.Find(ctx, filterDocument(filter), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("mongoListingRepository.Find: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("mongoListingRepository.Find: decode: %w", err)
	}
	return r.populate(ctx, listings)
}

func (r *mongoListingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Listing, error) {
	var listing models.Listing
	if err := r.listings.FindOne(ctx, bson.M{"_id": id}).Decode(&listing); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoListingRepository.FindByID: %w", err)
	}
	return &listing, nil
}

func (r *mongoListingRepository) FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.ListingView, error) {
	listing, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, listing)
}

func (r *mongoListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	if _, err := r.listings.InsertOne(ctx, listing); err != nil {
		return fmt.Errorf("mongoListingRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoListingRepository) Update(ctx context.Context, id primitive.ObjectID, patch *models.ListingPatch) (*models.ListingView, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var listing models.Listing
	err := r.listings.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoListingRepository.Update: %w", err)
	}
	return r.populateOne(ctx, &listing)
}

func (r *mongoListingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.listings.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongoListingRepository.Delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *mongoListingRepository) populateOne(ctx context.Context, listing *models.Listing) (*models.ListingView, error) {
	views, err := r.populate(ctx, []models.Listing{*listing})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populate resolves the owner reference of every listing with a single
// query on the users collection.
func (r *mongoListingRepository) populate(ctx context.Context, listings []models.Listing) ([]models.ListingView, error) {
	owners, err := findOwnerSummaries(ctx, r.users, ownerIDs(listings))
	if err != nil {
		return nil, fmt.Errorf("mongoListingRepository.populate: %w", err)
	}
	return Join(listings, owners), nil
}

// Join pairs each listing with its owner summary, keeping the input order.
func Join(listings []models.Listing, owners map[primitive.ObjectID]*models.OwnerSummary) []models.ListingView {
	views := make([]models.ListingView, len(listings))
	for i := range listings {
		views[i] = models.ListingView{Listing: &listings[i], Owner: owners[listings[i].Owner]}
	}
	return views
}

func ownerIDs(listings []models.Listing) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(listings))
	ids := make([]primitive.ObjectID, 0, len(listings))
	for _, l := range listings {
		if _, ok := seen[l.Owner]; ok {
			continue
		}
		seen[l.Owner] = struct{}{}
		ids = append(ids, l.Owner)
	}
	return ids
}

// filterDocument translates f into a MongoDB query document.
func filterDocument(f models.ListingFilter) bson.M {
	filter := bson.M{}

	if f.OnlyAvailable {
		filter["isAvailable"] = true
	}
	if f.Owner != nil {
		filter["owner"] = *f.Owner
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.MinGuests != nil {
		filter["maxGuests"] = bson.M{"$gte": *f.MinGuests}
	}

	return filter
}
