package donation

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"museo/internal/config"
	"museo/internal/domain"
)

// StripeGateway implements CheckoutGateway on Stripe hosted checkout.
type StripeGateway struct {
	webhookSecret string
	successURL    string
	cancelURL     string
}

// NewStripeGateway returns nil when no secret key is configured, which
// disables online payment.
func NewStripeGateway(cfg config.PaymentsConfig) *StripeGateway {
	if cfg.StripeSecretKey == "" {
		return nil
	}
	stripe.Key = cfg.StripeSecretKey
	return &StripeGateway{
		webhookSecret: cfg.StripeWebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
	}
}

func (g *StripeGateway) CreateSession(ctx context.Context, d *domain.MoneyDonation) (string, string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Donation to Museo Gustavo Orces"),
					},
					UnitAmount: stripe.Int64(int64(math.Round(d.Amount * 100))),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("donation_id", strconv.FormatInt(d.ID, 10))

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.ID, sess.URL, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (string, bool, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return "", false, err
	}

	switch event.Type {
	case "checkout.session.completed", "checkout.session.async_payment_succeeded":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return "", false, err
		}
		return cs.ID, true, nil

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return "", false, err
		}
		return cs.ID, false, nil
	}

	// Event types we did not subscribe to are acknowledged and dropped.
	return "", false, nil
}
