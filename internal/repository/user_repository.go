package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/database"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

// Create inserts user. A unique index violation is reported as a conflict
// naming the offending field.
func (r *mongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return fmt.Errorf("mongoUserRepository.Create: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("mongoUserRepository.findOne: %w", err)
	}
	return &user, nil
}

// findOwnerSummaries loads username and email for every id in ids.
func findOwnerSummaries(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.OwnerSummary, error) {
	owners := make(map[primitive.ObjectID]*models.OwnerSummary, len(ids))
	if len(ids) == 0 {
		return owners, nil
	}

	opts := options.Find().SetProjection(bson.M{"username": 1, "email": 1})
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find owners: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []models.OwnerSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode owners: %w", err)
	}
	for i := range summaries {
		owners[summaries[i].ID] = &summaries[i]
	}
	return owners, nil
}

func duplicateUserError(err error) error {
	if strings.Contains(err.Error(), "username") {
		return fmt.Errorf("%w: %w", common.Conflict("Username already in use"), err)
	}
	return fmt.Errorf("%w: %w", common.Conflict("Email already in use"), err)
}
