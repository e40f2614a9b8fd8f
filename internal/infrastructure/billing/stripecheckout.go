package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"

	domainbilling "inboxlift/internal/domain/billing"
	"inboxlift/internal/domain/pricing"
	sharedConfig "inboxlift/internal/shared/config"
	"inboxlift/internal/shared/logger"
)

// StripeCheckoutProvider creates hosted subscription checkout sessions. Each
// tier maps to a pre-created Stripe price.
type StripeCheckoutProvider struct {
	cfg    *sharedConfig.BillingConfig
	logger logger.Interface
}

func NewStripeCheckoutProvider(cfg *sharedConfig.BillingConfig, logger logger.Interface) *StripeCheckoutProvider {
	return &StripeCheckoutProvider{
		cfg:    cfg,
		logger: logger,
	}
}

func (p *StripeCheckoutProvider) CreateSession(ctx context.Context, email, tierName string) (*domainbilling.CheckoutSession, error) {
	priceID, err := p.priceIDFor(tierName)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.cfg.SuccessURL),
		CancelURL:  stripe.String(p.cfg.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("tier", tierName)

	s, err := session.New(params)
	if err != nil {
		p.logger.Errorw("stripe checkout session creation failed", "error", err, "email", email, "tier", tierName)
		return nil, fmt.Errorf("stripe checkout session creation failed: %w", err)
	}

	return &domainbilling.CheckoutSession{
		ProviderSessionID: s.ID,
		URL:               s.URL,
	}, nil
}

func (p *StripeCheckoutProvider) priceIDFor(tierName string) (string, error) {
	switch tierName {
	case pricing.TierFoundersProgram:
		return p.cfg.FoundersPriceID, nil
	case pricing.TierRegularProgram:
		return p.cfg.RegularPriceID, nil
	default:
		return "", fmt.Errorf("no price configured for tier %q", tierName)
	}
}
