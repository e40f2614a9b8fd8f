// Package billing defines the contracts against the external billing
// provider and the checkout reservation lifecycle. The provider's internals
// are out of scope; the accounting engine only ever asks "is this email a
// paying subscriber" and "start a checkout for this email".
package billing

import "context"

// SubscriptionOracle answers whether an email currently holds a paying
// subscription. An error means the truth is unknown; callers must fail
// closed to free rather than assume paid.
type SubscriptionOracle interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

// CheckoutSession is the provider-side session a visitor is redirected to.
type CheckoutSession struct {
	ProviderSessionID string
	URL               string
}

// CheckoutProvider creates hosted checkout sessions at the billing provider.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, email, tierName string) (*CheckoutSession, error)
}
