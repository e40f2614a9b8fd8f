package token

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitorTokenService_IssueAndVerify(t *testing.T) {
	svc := NewVisitorTokenService("test-secret", 180)

	tokenString, visitorID, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.True(t, strings.HasPrefix(visitorID, "vis_"))

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, visitorID, claims.VisitorID)
}

func TestVisitorTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewVisitorTokenService("secret-a", 180)
	verifier := NewVisitorTokenService("secret-b", 180)

	tokenString, _, err := issuer.Issue("user@example.com")
	require.NoError(t, err)

	claims, err := verifier.Verify(tokenString)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestVisitorTokenService_Verify_Garbage(t *testing.T) {
	svc := NewVisitorTokenService("test-secret", 180)

	claims, err := svc.Verify("not-a-token")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestVisitorTokenService_Issue_UniqueVisitorIDs(t *testing.T) {
	svc := NewVisitorTokenService("test-secret", 180)

	_, first, err := svc.Issue("user@example.com")
	require.NoError(t, err)
	_, second, err := svc.Issue("user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
