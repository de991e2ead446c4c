package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homefix/marketplace/internal/core/domain"
)

type userRow struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	IsCustomer   bool      `gorm:"not null;default:false"`
	IsCompany    bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (userRow) TableName() string { return "users" }

type customerRow struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
	User   userRow   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Birth  time.Time `gorm:"type:date;not null"`
}

func (customerRow) TableName() string { return "customers" }

type companyRow struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey"`
	User   userRow   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Field  string    `gorm:"size:3;not null"`
}

func (companyRow) TableName() string { return "companies" }

// UserRepository implements ports.UserRepository on PostgreSQL through GORM.
// The profile tables use the user id as primary key, which enforces one profile per user.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&userRow{}).Where(query, arg).Limit(1).Count(&n).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	row := userRow{
		ID:           uuid.New(),
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsCustomer:   user.IsCustomer,
		IsCompany:    user.IsCompany,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = row.ID.String()
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, "id = ?", uid)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &domain.User{
		ID:           row.ID.String(),
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		IsCustomer:   row.IsCustomer,
		IsCompany:    row.IsCompany,
		CreatedAt:    row.CreatedAt.UTC(),
		UpdatedAt:    row.UpdatedAt.UTC(),
	}, nil
}

func (r *UserRepository) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	row := customerRow{UserID: uid, Birth: c.Birth}
	if err := r.db.WithContext(ctx).Omit("User").Create(&row).Error; err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *UserRepository) CreateCompany(ctx context.Context, c *domain.Company) error {
	uid, err := uuid.Parse(c.UserID)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	row := companyRow{UserID: uid, Field: string(c.Field)}
	if err := r.db.WithContext(ctx).Omit("User").Create(&row).Error; err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *UserRepository) FindCustomer(ctx context.Context, userID string) (*domain.Customer, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	var row customerRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &domain.Customer{UserID: userID, Birth: row.Birth.UTC()}, nil
}

func (r *UserRepository) FindCompany(ctx context.Context, userID string) (*domain.Company, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	var row companyRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", uid).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return &domain.Company{UserID: userID, Field: domain.FieldOfWork(row.Field)}, nil
}
