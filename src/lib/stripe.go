package lib

import (
	"context"
	"os"

	"github.com/stripe/stripe-go/v82"
)

var stripeClient *stripe.Client

// GetStripeClient returns the shared client, or nil when STRIPE_SECRET_KEY
// is not configured.
func GetStripeClient() *stripe.Client {
	if stripeClient != nil {
		return stripeClient
	}
	apiKey := os.Getenv("STRIPE_SECRET_KEY")
	if apiKey == "" {
		return nil
	}
	sc := stripe.NewClient(apiKey)
	stripeClient = sc

	return sc
}

func NewStripeClient(c *stripe.Client) {
	stripeClient = c
}

// CreatePaymentIntent registers a card charge with Stripe and returns the
// intent id. A nil id with nil error means Stripe is not configured.
func CreatePaymentIntent(monto float64, metadata map[string]string) (*string, error) {
	sc := GetStripeClient()
	if sc == nil {
		return nil, nil
	}
	params := stripe.PaymentIntentCreateParams{
		Amount:   stripe.Int64(int64(monto * 100)),
		Currency: stripe.String(string(stripe.CurrencyARS)),
		Metadata: metadata,
	}
	intent, err := sc.V1PaymentIntents.Create(context.Background(), &params)
	if err != nil {
		return nil, err
	}
	return &intent.ID, nil
}
