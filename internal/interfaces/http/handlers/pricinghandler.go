package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/application/billing/usecases"
	"inboxlift/internal/shared/utils"
)

// PricingHandler exposes the tier catalog and the price a new subscriber
// would pay right now.
type PricingHandler struct {
	getCurrentTierUC *usecases.GetCurrentTierUseCase
}

func NewPricingHandler(getCurrentTierUC *usecases.GetCurrentTierUseCase) *PricingHandler {
	return &PricingHandler{getCurrentTierUC: getCurrentTierUC}
}

// GetCurrentTier returns the tier offered to the next subscriber: the
// founders program while seats remain, the regular program after.
func (h *PricingHandler) GetCurrentTier(c *gin.Context) {
	result, err := h.getCurrentTierUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Current tier retrieved", result)
}

// ListTiers returns all active tiers with live seat counts.
func (h *PricingHandler) ListTiers(c *gin.Context) {
	tiers, err := h.getCurrentTierUC.ListTiers(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Tiers retrieved", gin.H{"tiers": tiers})
}
