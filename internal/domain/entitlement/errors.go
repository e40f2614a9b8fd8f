package entitlement

import "errors"

var (
	ErrAlreadyClaimed          = errors.New("one-time bonus already claimed")
	ErrAlreadyClaimedThisMonth = errors.New("monthly bonus already claimed this month")
	ErrNoIdentity              = errors.New("no email on file")
	ErrMissingEvidence         = errors.New("share evidence is required")
	ErrRecordNotFound          = errors.New("usage record not found")
	ErrNoUsageYet              = errors.New("no usage recorded for this email")
	ErrNegativeCounter         = errors.New("counter cannot be negative")
)
