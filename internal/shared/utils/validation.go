package utils

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"inboxlift/internal/shared/errors"
)

var validate *validator.Validate

// init initializes the validator
func init() {
	validate = validator.New()

	// Use JSON tag names for validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStruct validates a struct and returns a user-friendly error
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors := err.(validator.ValidationErrors)
	if len(validationErrors) == 0 {
		return nil
	}

	return errors.NewValidationError(
		"Validation failed",
		FormatValidationErrors(validationErrors),
	)
}

// FormatValidationErrors renders field validation errors into one
// user-facing details string.
func FormatValidationErrors(validationErrors validator.ValidationErrors) string {
	var errorMessages []string
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, getFieldErrorMessage(fieldError))
	}
	return strings.Join(errorMessages, "; ")
}

// getFieldErrorMessage returns a user-friendly error message for a field validation error
func getFieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, tag)
	}
}

// ValidateEvidenceImageURL checks a user-submitted share proof URL. The URL
// may be fetched later during manual review, so hosts that resolve into
// private or reserved address space are rejected (SSRF protection).
func ValidateEvidenceImageURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return errors.NewValidationError("image_url is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.NewValidationError("image_url must be a valid URL")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return errors.NewValidationError("image_url must use http or https")
	}
	host := parsed.Hostname()
	if host == "" {
		return errors.NewValidationError("image_url must have a host")
	}

	if ip := parseIP(host); ip != nil {
		if isPrivateOrReservedIP(ip) {
			return errors.NewValidationError("image_url cannot point to a private or reserved address")
		}
		return nil
	}

	lowerHost := strings.ToLower(host)
	if lowerHost == "localhost" || strings.HasSuffix(lowerHost, ".localhost") ||
		strings.HasSuffix(lowerHost, ".local") || strings.HasSuffix(lowerHost, ".internal") {
		return errors.NewValidationError("image_url cannot point to localhost or an internal domain")
	}

	return nil
}

// parseIP parses an IP address string, handling IPv4-mapped IPv6 addresses.
func parseIP(address string) net.IP {
	ip := net.ParseIP(address)
	if ip == nil {
		return nil
	}
	if v4 := ip.To4(); v4 != nil {
		return v4
	}
	return ip
}

// isPrivateOrReservedIP checks if an IP address is private, loopback, or reserved.
func isPrivateOrReservedIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	for _, network := range reservedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// reservedNetworks contains pre-parsed reserved CIDR networks for efficient lookup.
var reservedNetworks []*net.IPNet

func init() {
	cidrs := []string{
		"100.64.0.0/10",   // Carrier-grade NAT (RFC 6598)
		"192.0.0.0/24",    // IETF Protocol Assignments
		"192.0.2.0/24",    // TEST-NET-1
		"198.51.100.0/24", // TEST-NET-2
		"203.0.113.0/24",  // TEST-NET-3
		"224.0.0.0/4",     // Multicast
		"240.0.0.0/4",     // Reserved for future use
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err == nil {
			reservedNetworks = append(reservedNetworks, network)
		}
	}
}
