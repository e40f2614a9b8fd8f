package dto

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"inboxlift/internal/domain/pricing"
)

// TierDTO is the pricing offer the client renders on the paywall.
type TierDTO struct {
	Name           string `json:"name"`
	PriceCents     int64  `json:"price_cents"`
	DisplayPrice   string `json:"display_price"`
	SeatLimited    bool   `json:"seat_limited"`
	SeatsRemaining int    `json:"seats_remaining,omitempty"`
	SoldOut        bool   `json:"sold_out"`
}

// CheckoutSessionDTO points the client at the provider's hosted checkout.
type CheckoutSessionDTO struct {
	SessionID      string `json:"session_id"`
	URL            string `json:"url"`
	TierName       string `json:"tier_name"`
	ReservationSID string `json:"reservation_sid,omitempty"`
}

// ToTierDTO converts a pricing tier to its wire form.
func ToTierDTO(tier *pricing.Tier) *TierDTO {
	if tier == nil {
		return nil
	}
	d := &TierDTO{
		Name:         tier.Name(),
		PriceCents:   tier.PriceCents(),
		DisplayPrice: FormatPriceUSD(tier.PriceCents()),
		SeatLimited:  tier.SeatLimited(),
	}
	if tier.SeatLimited() {
		d.SeatsRemaining = tier.SeatsRemaining()
		d.SoldOut = !tier.HasSeatsAvailable()
	}
	return d
}

// FormatPriceUSD renders cents as a dollar amount, e.g. "$5.00". The
// message printer handles digit grouping for prices past $999.
func FormatPriceUSD(cents int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("$%.2f", float64(cents)/100)
}
