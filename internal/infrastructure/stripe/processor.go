package stripe

import (
	"context"
	"errors"
	"strings"

	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"

	"samplehub/internal/domain"
	apperrors "samplehub/internal/errors"
)

// Processor talks to Stripe for customers and payment intents.
type Processor struct {
	api    *client.API
	logger *zap.Logger
}

func NewProcessor(secretKey string, logger *zap.Logger) *Processor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Processor{api: api, logger: logger}
}

// NewProcessorWithBackend points the client at a custom API backend.
func NewProcessorWithBackend(secretKey string, backend stripego.Backend, logger *zap.Logger) *Processor {
	api := &client.API{}
	api.Init(secretKey, &stripego.Backends{API: backend, Connect: backend, Uploads: backend})
	return &Processor{api: api, logger: logger}
}

// CreateCustomer uses the brand id as idempotency key so retries and
// concurrent first requests yield the same customer.
func (p *Processor) CreateCustomer(ctx context.Context, brand domain.Brand) (string, error) {
	params := &stripego.CustomerParams{
		Name: stripego.String(brand.Name),
	}
	if brand.Email != nil && *brand.Email != "" {
		params.Email = brand.Email
	}
	params.Context = ctx
	params.SetIdempotencyKey("customer-" + brand.ID)
	params.AddMetadata("brand_id", brand.ID)

	customer, err := p.api.Customers.New(params)
	if err != nil {
		return "", gatewayError("creating customer", err)
	}

	return customer.ID, nil
}

func (p *Processor) CreateIntent(ctx context.Context, customerID, sampleID string, amountMinor int64, currency string) (*domain.PaymentIntent, error) {
	params := &stripego.PaymentIntentParams{
		Amount:   stripego.Int64(amountMinor),
		Currency: stripego.String(strings.ToLower(currency)),
		Customer: stripego.String(customerID),
		AutomaticPaymentMethods: &stripego.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripego.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("sample_request_id", sampleID)

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, gatewayError("creating payment intent", err)
	}

	return &domain.PaymentIntent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}

func (p *Processor) CancelIntent(ctx context.Context, intentID string) error {
	params := &stripego.PaymentIntentCancelParams{}
	params.Context = ctx

	if _, err := p.api.PaymentIntents.Cancel(intentID, params); err != nil {
		return gatewayError("canceling payment intent", err)
	}
	return nil
}

func gatewayError(message string, err error) error {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		return apperrors.NewPaymentGatewayError(message+": "+string(stripeErr.Code), err)
	}
	return apperrors.NewPaymentGatewayError(message, err)
}
