// Package identity resolves who a request is accounting against: either an
// anonymous visitor (no email on file yet) or an identified email address.
package identity

import (
	"fmt"
	"regexp"
	"strings"
)

// emailPattern is deliberately permissive: one @, no whitespace, a dot in
// the domain part. Anything stricter rejects real addresses.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Identity is the key every entitlement decision is made against.
// The zero value is the anonymous identity.
type Identity struct {
	email string
}

// Anonymous returns the identity of a visitor with no email on file.
func Anonymous() Identity {
	return Identity{}
}

// FromEmail builds an identified identity, validating the address first.
// The address is lowercased and trimmed so the same mailbox always maps to
// the same entitlement record.
func FromEmail(email string) (Identity, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return Identity{}, fmt.Errorf("email cannot be empty")
	}
	if !emailPattern.MatchString(normalized) {
		return Identity{}, fmt.Errorf("invalid email address: %q", email)
	}
	return Identity{email: normalized}, nil
}

// IsAnonymous reports whether no email is on file.
func (i Identity) IsAnonymous() bool {
	return i.email == ""
}

// Email returns the normalized email address, empty for anonymous.
func (i Identity) Email() string {
	return i.email
}

// String returns a loggable representation.
func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.email
}

// ValidEmail reports whether the given address would be accepted by FromEmail.
func ValidEmail(email string) bool {
	_, err := FromEmail(email)
	return err == nil
}
