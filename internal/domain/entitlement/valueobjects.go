// Package entitlement holds the credit accounting rules: free-use metering,
// social bonus credits, and the paywall / email-capture derivation.
package entitlement

// SubscriptionStatus is the tier a usage record is accounted under. It is
// always re-derived from the billing oracle; the stored value only records
// the last observation so tier transitions can be detected.
type SubscriptionStatus string

const (
	StatusFree SubscriptionStatus = "free"
	StatusPaid SubscriptionStatus = "paid"
)

// IsValid checks if the subscription status is valid
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case StatusFree, StatusPaid:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status
func (s SubscriptionStatus) String() string {
	return string(s)
}

// CreditType identifies which social bonus rule awarded a batch of credits.
type CreditType string

const (
	// CreditTypeOneTime is the single bonus a free-tier user can ever claim.
	CreditTypeOneTime CreditType = "one_time"
	// CreditTypeMonthly is the bonus a subscriber can claim once per
	// calendar month.
	CreditTypeMonthly CreditType = "monthly"
)

// IsValid checks if the credit type is valid
func (ct CreditType) IsValid() bool {
	switch ct {
	case CreditTypeOneTime, CreditTypeMonthly:
		return true
	default:
		return false
	}
}

// String returns the string representation of the credit type
func (ct CreditType) String() string {
	return string(ct)
}

// CreditTypeFor returns the credit type the given tier claims under.
func CreditTypeFor(status SubscriptionStatus) CreditType {
	if status == StatusPaid {
		return CreditTypeMonthly
	}
	return CreditTypeOneTime
}

// EvidenceStatus is the review state of a submitted share proof.
type EvidenceStatus string

const (
	EvidenceStatusPending  EvidenceStatus = "pending"
	EvidenceStatusApproved EvidenceStatus = "approved"
	EvidenceStatusRejected EvidenceStatus = "rejected"
)

// IsValid checks if the evidence status is valid
func (es EvidenceStatus) IsValid() bool {
	switch es {
	case EvidenceStatusPending, EvidenceStatusApproved, EvidenceStatusRejected:
		return true
	default:
		return false
	}
}

// String returns the string representation of the evidence status
func (es EvidenceStatus) String() string {
	return string(es)
}
