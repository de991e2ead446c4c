package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/homefix/marketplace/internal/core/domain"
)

const (
	usersCollection     = "users"
	customersCollection = "customers"
	companiesCollection = "companies"
)

// UserRepository implements ports.UserRepository with one collection per table.
type UserRepository struct {
	users     *mongo.Collection
	customers *mongo.Collection
	companies *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:     db.Collection(usersCollection),
		customers: db.Collection(customersCollection),
		companies: db.Collection(companiesCollection),
	}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	IsCustomer   bool               `bson:"is_customer"`
	IsCompany    bool               `bson:"is_company"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

type mongoCustomer struct {
	UserID primitive.ObjectID `bson:"user_id"`
	Birth  time.Time          `bson:"birth"`
}

type mongoCompany struct {
	UserID primitive.ObjectID `bson:"user_id"`
	Field  string             `bson:"field"`
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.users.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		ID:           primitive.NewObjectID(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsCustomer:   user.IsCustomer,
		IsCompany:    user.IsCompany,
		CreatedAt:    user.CreatedAt.Unix(),
		UpdatedAt:    user.UpdatedAt.Unix(),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{
		ID:           mu.ID.Hex(),
		Username:     mu.Username,
		Email:        mu.Email,
		PasswordHash: mu.PasswordHash,
		IsCustomer:   mu.IsCustomer,
		IsCompany:    mu.IsCompany,
		CreatedAt:    unixToTime(mu.CreatedAt),
		UpdatedAt:    unixToTime(mu.UpdatedAt),
	}, nil
}

func (r *UserRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	oid, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.customers.InsertOne(ctx, mongoCustomer{UserID: oid, Birth: c.Birth.UTC()}); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateCompany(ctx context.Context, c *domain.Company) error {
	oid, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.companies.InsertOne(ctx, mongoCompany{UserID: oid, Field: string(c.Field)}); err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *UserRepository) FindCustomer(ctx context.Context, userID string) (*domain.Customer, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCustomer
	if err := r.customers.FindOne(ctx, bson.M{"user_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &domain.Customer{UserID: userID, Birth: mc.Birth.UTC()}, nil
}

func (r *UserRepository) FindCompany(ctx context.Context, userID string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mc mongoCompany
	if err := r.companies.FindOne(ctx, bson.M{"user_id": oid}).Decode(&mc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &domain.Company{UserID: userID, Field: domain.FieldOfWork(mc.Field)}, nil
}

// EnsureIndexes creates the unique indexes backing the one-to-one and
// uniqueness invariants.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	}); err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	profile := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: unique}
	if _, err := r.customers.Indexes().CreateOne(ctx, profile); err != nil {
		return fmt.Errorf("customers indexes: %w", err)
	}
	if _, err := r.companies.Indexes().CreateOne(ctx, profile); err != nil {
		return fmt.Errorf("companies indexes: %w", err)
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
