package usecases

import (
	"fmt"

	"inboxlift/internal/domain/identity"
	"inboxlift/internal/shared/logger"
)

type StartSessionCommand struct {
	Email string
}

// SessionDTO carries the signed visitor token the client stores after
// email capture.
type SessionDTO struct {
	Token     string `json:"token"`
	VisitorID string `json:"visitor_id"`
	Email     string `json:"email"`
}

// TokenIssuer signs visitor identity tokens.
type TokenIssuer interface {
	Issue(email string) (token string, visitorID string, err error)
}

// StartSessionUseCase turns a captured email into a signed visitor
// session. Identity is email-only: no password, no account record.
type StartSessionUseCase struct {
	tokens TokenIssuer
	logger logger.Interface
}

func NewStartSessionUseCase(tokens TokenIssuer, logger logger.Interface) *StartSessionUseCase {
	return &StartSessionUseCase{
		tokens: tokens,
		logger: logger,
	}
}

func (uc *StartSessionUseCase) Execute(cmd StartSessionCommand) (*SessionDTO, error) {
	ident, err := identity.FromEmail(cmd.Email)
	if err != nil {
		return nil, err
	}

	token, visitorID, err := uc.tokens.Issue(ident.Email())
	if err != nil {
		uc.logger.Errorw("failed to issue visitor token", "error", err)
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	uc.logger.Infow("visitor session started", "visitor_id", visitorID)
	return &SessionDTO{
		Token:     token,
		VisitorID: visitorID,
		Email:     ident.Email(),
	}, nil
}
