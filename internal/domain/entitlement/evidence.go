package entitlement

import (
	"fmt"
	"strings"
	"time"

	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/id"
)

// Evidence is the share proof submitted with a social bonus claim. One row
// is written per successful claim so every credit award has an audit trail.
type Evidence struct {
	evidenceID     uint
	sid            string
	email          string
	imageURL       string
	note           string
	status         EvidenceStatus
	creditsAwarded int
	creditType     CreditType
	metadata       map[string]string
	reviewedAt     *time.Time
	createdAt      time.Time
}

// NewEvidence validates and creates a share proof submission.
func NewEvidence(email, imageURL, note string) (*Evidence, error) {
	if email == "" {
		return nil, ErrNoIdentity
	}
	trimmed := strings.TrimSpace(imageURL)
	if trimmed == "" {
		return nil, ErrMissingEvidence
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return nil, fmt.Errorf("%w: evidence must be an http(s) URL", ErrMissingEvidence)
	}

	sid, err := id.GenerateWithPrefix(id.PrefixSocialCredit, id.DefaultLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evidence sid: %w", err)
	}

	return &Evidence{
		sid:       sid,
		email:     email,
		imageURL:  trimmed,
		note:      note,
		status:    EvidenceStatusPending,
		createdAt: biztime.NowUTC(),
	}, nil
}

// ReconstructEvidence rebuilds evidence from persistence.
func ReconstructEvidence(
	evidenceID uint,
	sid string,
	email string,
	imageURL string,
	note string,
	status EvidenceStatus,
	creditsAwarded int,
	creditType CreditType,
	metadata map[string]string,
	reviewedAt *time.Time,
	createdAt time.Time,
) (*Evidence, error) {
	if evidenceID == 0 {
		return nil, fmt.Errorf("evidence ID cannot be zero")
	}
	if err := id.ValidatePrefix(sid, id.PrefixSocialCredit); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid evidence status: %s", status)
	}

	return &Evidence{
		evidenceID:     evidenceID,
		sid:            sid,
		email:          email,
		imageURL:       imageURL,
		note:           note,
		status:         status,
		creditsAwarded: creditsAwarded,
		creditType:     creditType,
		metadata:       metadata,
		reviewedAt:     reviewedAt,
		createdAt:      createdAt,
	}, nil
}

// ID returns the evidence ID
func (e *Evidence) ID() uint { return e.evidenceID }

// SID returns the Stripe-style public identifier (smc_xxx)
func (e *Evidence) SID() string { return e.sid }

// Email returns the claiming email
func (e *Evidence) Email() string { return e.email }

// ImageURL returns the share screenshot URL
func (e *Evidence) ImageURL() string { return e.imageURL }

// Note returns the optional submitter note
func (e *Evidence) Note() string { return e.note }

// Status returns the review status
func (e *Evidence) Status() EvidenceStatus { return e.status }

// CreditsAwarded returns how many credits this claim awarded
func (e *Evidence) CreditsAwarded() int { return e.creditsAwarded }

// CreditType returns which bonus rule awarded the credits
func (e *Evidence) CreditType() CreditType { return e.creditType }

// Metadata returns the client context captured with the submission
func (e *Evidence) Metadata() map[string]string { return e.metadata }

// AttachMetadata records client context (share platform, user agent) for
// the audit trail.
func (e *Evidence) AttachMetadata(metadata map[string]string) {
	if len(metadata) == 0 {
		return
	}
	e.metadata = metadata
}

// ReviewedAt returns when the evidence was reviewed
func (e *Evidence) ReviewedAt() *time.Time { return e.reviewedAt }

// CreatedAt returns when the evidence was submitted
func (e *Evidence) CreatedAt() time.Time { return e.createdAt }

// SetID sets the evidence ID (only for persistence layer use)
func (e *Evidence) SetID(evidenceID uint) error {
	if e.evidenceID != 0 {
		return fmt.Errorf("evidence ID is already set")
	}
	if evidenceID == 0 {
		return fmt.Errorf("evidence ID cannot be zero")
	}
	e.evidenceID = evidenceID
	return nil
}

// Approve marks the evidence approved with the credits it produced.
// Awarding happens at claim time in the same transaction as the counter
// update, so approval is recorded immediately rather than via a separate
// review queue.
func (e *Evidence) Approve(credits int, creditType CreditType, now time.Time) error {
	if credits <= 0 {
		return fmt.Errorf("credits awarded must be positive, got %d", credits)
	}
	if !creditType.IsValid() {
		return fmt.Errorf("invalid credit type: %s", creditType)
	}

	reviewed := now.UTC()
	e.status = EvidenceStatusApproved
	e.creditsAwarded = credits
	e.creditType = creditType
	e.reviewedAt = &reviewed
	return nil
}
