package utils

import "strings"

// MaskEmail redacts the local part of an email for log output. Email is
// the primary identity key here, so it must never appear whole in logs.
// "user@example.com" becomes "u***@example.com".
func MaskEmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return "***"
	}
	if len(local) <= 1 {
		return local + "***@" + domain
	}
	return local[:1] + "***@" + domain
}
