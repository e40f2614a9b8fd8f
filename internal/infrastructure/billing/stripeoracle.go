// Package billing adapts the Stripe API to the domain billing contracts.
package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/subscription"

	"inboxlift/internal/shared/logger"
)

// Init wires the Stripe API key. Must be called once at startup before any
// oracle or checkout call.
func Init(secretKey string) {
	stripe.Key = secretKey
}

// StripeSubscriptionOracle answers subscription status by listing the
// customers registered under an email and checking each for a live
// subscription. Errors are returned as-is so callers can fail closed.
type StripeSubscriptionOracle struct {
	logger logger.Interface
}

func NewStripeSubscriptionOracle(logger logger.Interface) *StripeSubscriptionOracle {
	return &StripeSubscriptionOracle{logger: logger}
}

func (o *StripeSubscriptionOracle) IsSubscribed(ctx context.Context, email string) (bool, error) {
	customerParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	customerParams.Context = ctx
	customerParams.Limit = stripe.Int64(10)

	customers := customer.List(customerParams)
	for customers.Next() {
		live, err := o.hasLiveSubscription(ctx, customers.Customer().ID)
		if err != nil {
			return false, err
		}
		if live {
			return true, nil
		}
	}
	if err := customers.Err(); err != nil {
		o.logger.Errorw("stripe customer lookup failed", "error", err, "email", email)
		return false, fmt.Errorf("stripe customer lookup failed: %w", err)
	}

	return false, nil
}

func (o *StripeSubscriptionOracle) hasLiveSubscription(ctx context.Context, customerID string) (bool, error) {
	subParams := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	subParams.Context = ctx
	subParams.Limit = stripe.Int64(10)

	subs := subscription.List(subParams)
	for subs.Next() {
		switch subs.Subscription().Status {
		case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
			return true, nil
		}
	}
	if err := subs.Err(); err != nil {
		o.logger.Errorw("stripe subscription lookup failed", "error", err, "customer_id", customerID)
		return false, fmt.Errorf("stripe subscription lookup failed: %w", err)
	}

	return false, nil
}
