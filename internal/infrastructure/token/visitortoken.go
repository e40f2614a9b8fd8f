// Package token issues the long-lived visitor identity tokens handed out
// when an email is first captured. The token binds a browser to its email so
// later requests carry a verified identity instead of a client-asserted one.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"inboxlift/internal/shared/biztime"
	"inboxlift/internal/shared/id"
)

type VisitorClaims struct {
	VisitorID string `json:"visitor_id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

type VisitorTokenService struct {
	secret     []byte
	expiryDays int
}

func NewVisitorTokenService(secret string, expiryDays int) *VisitorTokenService {
	return &VisitorTokenService{
		secret:     []byte(secret),
		expiryDays: expiryDays,
	}
}

// Issue signs a visitor token for the given email and returns the token
// along with the generated visitor ID (vis_xxx).
func (s *VisitorTokenService) Issue(email string) (tokenString string, visitorID string, err error) {
	visitorID, err = id.GenerateWithPrefix(id.PrefixVisitor, id.DefaultLength)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate visitor ID: %w", err)
	}

	now := biztime.NowUTC()
	claims := &VisitorClaims{
		VisitorID: visitorID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.expiryDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err = token.SignedString(s.secret)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign visitor token: %w", err)
	}

	return tokenString, visitorID, nil
}

// Verify parses and validates a visitor token.
func (s *VisitorTokenService) Verify(tokenString string) (*VisitorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &VisitorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse visitor token: %w", err)
	}

	claims, ok := token.Claims.(*VisitorClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid visitor token")
	}
	if err := id.ValidatePrefix(claims.VisitorID, id.PrefixVisitor); err != nil {
		return nil, fmt.Errorf("invalid visitor token: %w", err)
	}
	return claims, nil
}
