package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/application/identity/usecases"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/utils"
)

// SessionHandler issues visitor sessions from captured emails.
type SessionHandler struct {
	startSessionUC *usecases.StartSessionUseCase
	cookieMaxAge   int
	secureCookies  bool
	logger         logger.Interface
}

func NewSessionHandler(startSessionUC *usecases.StartSessionUseCase, cookieMaxAge int, secureCookies bool) *SessionHandler {
	return &SessionHandler{
		startSessionUC: startSessionUC,
		cookieMaxAge:   cookieMaxAge,
		secureCookies:  secureCookies,
		logger:         logger.NewLogger(),
	}
}

type StartSessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// StartSession exchanges a captured email for a signed visitor token. The
// token is returned in the body and also set as an HTTP-only cookie so
// browser clients pick it up automatically.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start session", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.startSessionUC.Execute(usecases.StartSessionCommand{Email: req.Email})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetVisitorCookie(c, result.Token, h.cookieMaxAge, h.secureCookies)
	utils.SuccessResponse(c, http.StatusCreated, "Session started", result)
}

// EndSession clears the visitor cookie. The token itself stays valid until
// expiry; this only removes it from the browser.
func (h *SessionHandler) EndSession(c *gin.Context) {
	utils.ClearVisitorCookie(c, h.secureCookies)
	utils.NoContentResponse(c)
}
