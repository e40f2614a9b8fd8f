package billing

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Webhook event types the accounting engine reacts to.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventCheckoutExpired     = "checkout.session.expired"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// WebhookEvent is the provider-neutral projection of a Stripe event. Only
// the fields the usecases act on are extracted.
type WebhookEvent struct {
	ID            string
	Type          string
	SessionID     string
	CustomerEmail string
}

// StripeWebhookVerifier checks webhook signatures and projects events.
type StripeWebhookVerifier struct {
	secret string
}

func NewStripeWebhookVerifier(secret string) *StripeWebhookVerifier {
	return &StripeWebhookVerifier{secret: secret}
}

// VerifyAndParse validates the signature against the endpoint secret and
// extracts the session fields for checkout events. Unrecognized event types
// come back with only ID and Type set; callers acknowledge and ignore them.
func (v *StripeWebhookVerifier) VerifyAndParse(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	parsed := &WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session event: %w", err)
		}
		parsed.SessionID = session.ID
		parsed.CustomerEmail = session.CustomerEmail
		if parsed.CustomerEmail == "" && session.CustomerDetails != nil {
			parsed.CustomerEmail = session.CustomerDetails.Email
		}
	case EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription event: %w", err)
		}
		if sub.Customer != nil {
			parsed.CustomerEmail = sub.Customer.Email
		}
	}

	return parsed, nil
}
