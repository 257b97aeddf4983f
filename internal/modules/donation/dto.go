package donation

type CreateMoneyDonationRequest struct {
	DonorName   string  `json:"donor_name" binding:"required"`
	Institution string  `json:"institution" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
}

// MoneyDonationResponse pairs the stored record with the gateway redirect.
type MoneyDonationResponse struct {
	ID          int64   `json:"id"`
	DonorName   string  `json:"donor_name"`
	Institution string  `json:"institution"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	CheckoutURL string  `json:"checkout_url,omitempty"`
}

type CreateGoodsDonationRequest struct {
	DonorName   string `json:"donor_name" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	ItemDetail  string `json:"item_detail" binding:"required"`
	Condition   string `json:"condition" binding:"required"`
}

type ReviewGoodsRequest struct {
	Status         string `json:"status" binding:"required"`
	EvaluationNote string `json:"evaluation_note"`
}
