package donation

import (
	"context"

	"museo/internal/domain"
	"museo/internal/repository"
)

// DonationRepository is the store for both donation kinds.
type DonationRepository interface {
	CreateMoney(ctx context.Context, d *domain.MoneyDonation) error
	GetMoneyByID(ctx context.Context, id int64) (*domain.MoneyDonation, error)
	GetMoneyBySession(ctx context.Context, sessionID string) (*domain.MoneyDonation, error)
	SetMoneySession(ctx context.Context, id int64, sessionID string) error
	UpdateMoneyStatus(ctx context.Context, id int64, status domain.MoneyDonationStatus) error
	ListMoney(ctx context.Context) ([]domain.MoneyDonation, error)

	CreateGoods(ctx context.Context, d *domain.GoodsDonation) error
	GetGoodsByID(ctx context.Context, id int64) (*domain.GoodsDonation, error)
	UpdateGoodsStatus(ctx context.Context, id int64, status domain.GoodsDonationStatus, note string) error
	ListGoods(ctx context.Context) ([]domain.GoodsDonation, error)

	DeleteMoney(ctx context.Context, id int64) error
	DeleteGoods(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*repository.DonationStats, error)
}

// CheckoutGateway abstracts the hosted payment page provider.
type CheckoutGateway interface {
	// CreateSession opens a checkout session for the donation and returns
	// the session id and the URL the donor is redirected to.
	CreateSession(ctx context.Context, d *domain.MoneyDonation) (sessionID, checkoutURL string, err error)

	// ParseWebhook verifies a webhook payload and reports the session it
	// concerns and whether the payment went through.
	ParseWebhook(payload []byte, signature string) (sessionID string, paid bool, err error)
}
