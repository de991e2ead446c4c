package ports

import (
	"context"

	"github.com/homefix/marketplace/internal/core/domain"
)

// UserRepository defines persistence for users and their profile rows.
type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// CreateUser inserts the user and sets its ID.
	CreateUser(ctx context.Context, user *domain.User) error
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	CreateCompany(ctx context.Context, company *domain.Company) error

	FindCustomer(ctx context.Context, userID string) (*domain.Customer, error)
	FindCompany(ctx context.Context, userID string) (*domain.Company, error)
}
