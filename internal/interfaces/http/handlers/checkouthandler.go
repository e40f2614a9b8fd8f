package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/application/billing/usecases"
	"inboxlift/internal/shared/errors"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/utils"
)

// CheckoutHandler starts hosted checkout sessions.
type CheckoutHandler struct {
	createCheckoutUC *usecases.CreateCheckoutUseCase
	logger           logger.Interface
}

func NewCheckoutHandler(createCheckoutUC *usecases.CreateCheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{
		createCheckoutUC: createCheckoutUC,
		logger:           logger.NewLogger(),
	}
}

// CreateCheckout reserves a founders seat when one is available and returns
// the provider's hosted checkout URL. The email comes from the visitor
// session so checkout is always tied to a captured identity.
func (h *CheckoutHandler) CreateCheckout(c *gin.Context) {
	email := visitorEmail(c)
	if email == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("visitor session required to start checkout"))
		return
	}

	result, err := h.createCheckoutUC.Execute(c.Request.Context(), usecases.CreateCheckoutCommand{Email: email})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("checkout session created",
		"email", utils.MaskEmail(email),
		"tier", result.TierName,
		"session_id", result.SessionID)
	utils.SuccessResponse(c, http.StatusCreated, "Checkout session created", result)
}
