package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/productapi/app/models"
	"github.com/shashiranjanraj/productapi/pkg/apperr"
)

var (
	// ErrUserNotFound is returned for unknown users.
	ErrUserNotFound = apperr.NewNotFound("User not found")
	// ErrUserExists is returned when the email or username is taken.
	ErrUserExists = apperr.NewConflict("Email or username already in use", nil)
)

// UserRepository persists users.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
}

// MongoUserRepository is the MongoDB-backed UserRepository.
type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(models.UserCollection)}
}

// EnsureIndexes creates the unique email index and the sparse unique
// username index. Safe to call on every start.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) (err error) {
	defer observe(models.UserCollection, "create_indexes", time.Now(), &err)

	_, err = r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("username_unique").SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return apperr.NewStore(err)
	}
	return nil
}

// Create inserts user and sets its store-assigned ID. A duplicate email or
// username yields ErrUserExists.
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) (err error) {
	defer observe(models.UserCollection, "insert", time.Now(), &err)

	user.ID = primitive.NilObjectID
	res, err := r.col.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperr.NewConflict(ErrUserExists.Message, err)
	}
	if err != nil {
		return apperr.NewStore(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findOne(ctx, "find_by_email", bson.D{{Key: "email", Value: email}})
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return r.findOne(ctx, "find_one", bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoUserRepository) findOne(ctx context.Context, operation string, filter bson.D) (user models.User, err error) {
	defer observe(models.UserCollection, operation, time.Now(), &err)

	err = r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, apperr.NewStore(err)
	}
	return user, nil
}
