package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marketloop/authd/core"
	"github.com/marketloop/authd/ports"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const usersCollection = "users"

// userDocument is the BSON shape of a user record
type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password"`
	Role         string    `bson:"role"`
	CreatedAt    time.Time `bson:"createdAt"`
}

// MongoStore is a MongoDB implementation of the UserStore interface
type MongoStore struct {
	users *mongo.Collection
}

// NewMongoStore creates a new MongoDB-backed user store
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique email index. The index is the real guard
// against concurrent signups with the same email; the pre-insert lookup in
// the service is only a fast path.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// FindByEmail returns the user registered under email
func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByID returns the user with the given identifier
func (s *MongoStore) FindByID(ctx context.Context, id string) (*core.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// Create inserts a new user record
func (s *MongoStore) Create(ctx context.Context, user *core.User) error {
	doc := userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (*core.User, error) {
	var doc userDocument
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, core.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &core.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Email:        doc.Email,
		PasswordHash: doc.PasswordHash,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

var _ ports.UserStore = (*MongoStore)(nil)
