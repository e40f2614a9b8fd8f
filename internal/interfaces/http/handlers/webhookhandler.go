package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/application/billing/usecases"
	infrabilling "inboxlift/internal/infrastructure/billing"
	"inboxlift/internal/shared/constants"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/utils"
)

// maxWebhookBodyBytes caps webhook payload reads. Stripe events are small;
// anything larger is not a legitimate event.
const maxWebhookBodyBytes = 1 << 16

// WebhookHandler receives billing provider callbacks. Signature
// verification happens here; the usecase only sees verified events.
type WebhookHandler struct {
	verifier         *infrabilling.StripeWebhookVerifier
	processWebhookUC *usecases.ProcessWebhookUseCase
	logger           logger.Interface
}

func NewWebhookHandler(
	verifier *infrabilling.StripeWebhookVerifier,
	processWebhookUC *usecases.ProcessWebhookUseCase,
) *WebhookHandler {
	return &WebhookHandler{
		verifier:         verifier,
		processWebhookUC: processWebhookUC,
		logger:           logger.NewLogger(),
	}
}

// HandleStripeWebhook verifies the event signature and applies the billing
// event. Returning non-2xx makes the provider retry, so only transient
// processing failures produce error statuses; bad signatures are 400 and
// will never succeed on retry.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read webhook payload")
		return
	}

	signature := c.GetHeader(constants.HeaderStripeSignature)
	event, err := h.verifier.VerifyAndParse(payload, signature)
	if err != nil {
		h.logger.Warnw("webhook signature verification failed", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid webhook signature")
		return
	}

	appEvent := usecases.WebhookEvent{
		ID:            event.ID,
		Type:          event.Type,
		SessionID:     event.SessionID,
		CustomerEmail: event.CustomerEmail,
	}

	if err := h.processWebhookUC.Execute(c.Request.Context(), appEvent); err != nil {
		h.logger.Errorw("webhook processing failed",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
