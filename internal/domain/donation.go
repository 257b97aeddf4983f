package domain

import "time"

type MoneyDonationStatus string

const (
	MoneyDonationPending   MoneyDonationStatus = "pending"
	MoneyDonationCompleted MoneyDonationStatus = "completed"
	MoneyDonationFailed    MoneyDonationStatus = "failed"
)

type GoodsDonationStatus string

const (
	GoodsDonationPending  GoodsDonationStatus = "pending"
	GoodsDonationAccepted GoodsDonationStatus = "accepted"
	GoodsDonationRejected GoodsDonationStatus = "rejected"
)

type ItemCondition string

const (
	ItemNew  ItemCondition = "new"
	ItemUsed ItemCondition = "used"
)

// MoneyDonation is a monetary pledge paid through the checkout gateway.
// Money and goods donations are separate record kinds with separate state
// sets; they never share a table.
type MoneyDonation struct {
	ID                int64               `json:"id"`
	DonorName         string              `json:"donor_name" validate:"required,min=3,max=100"`
	Institution       string              `json:"institution" validate:"required"`
	Amount            float64             `json:"amount" validate:"required,gt=0"`
	Status            MoneyDonationStatus `json:"status"`
	CheckoutSessionID string              `json:"-"`
	Date              time.Time           `json:"date"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// GoodsDonation is a donation of physical items reviewed by staff.
type GoodsDonation struct {
	ID             int64               `json:"id"`
	DonorName      string              `json:"donor_name" validate:"required,min=3,max=100"`
	Institution    string              `json:"institution" validate:"required"`
	ItemDetail     string              `json:"item_detail" validate:"required,max=500"`
	Condition      ItemCondition       `json:"condition"`
	Status         GoodsDonationStatus `json:"status"`
	EvaluationNote string              `json:"evaluation_note"`
	Date           time.Time           `json:"date"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}
