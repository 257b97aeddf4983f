package account

import (
	"context"

	"museo/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) error
	GetByID(ctx context.Context, id int64) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByConfirmToken(ctx context.Context, token string) (*domain.Account, error)
	ListStaff(ctx context.Context, search string) ([]domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, id int64) error
}

type InternRepository interface {
	Create(ctx context.Context, i *domain.Intern) error
	GetByID(ctx context.Context, id int64) (*domain.Intern, error)
	GetByEmail(ctx context.Context, email string) (*domain.Intern, error)
	List(ctx context.Context, search string) ([]domain.Intern, error)
	Update(ctx context.Context, i *domain.Intern) error
	Delete(ctx context.Context, id int64) error
}

// TokenIssuer signs session tokens; implemented by the jwt package.
type TokenIssuer interface {
	GenerateToken(accountID int64, role string) (string, error)
}
