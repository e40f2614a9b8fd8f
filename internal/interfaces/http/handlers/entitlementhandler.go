package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"inboxlift/internal/application/entitlement/usecases"
	"inboxlift/internal/shared/constants"
	"inboxlift/internal/shared/errors"
	"inboxlift/internal/shared/logger"
	"inboxlift/internal/shared/utils"
)

// EntitlementHandler exposes the credit accounting operations: snapshot
// lookup, usage recording, and social share bonus claims.
type EntitlementHandler struct {
	getSnapshotUC      *usecases.GetSnapshotUseCase
	recordUsageUC      *usecases.RecordUsageUseCase
	claimSocialBonusUC *usecases.ClaimSocialBonusUseCase
	getBonusHistoryUC  *usecases.GetBonusHistoryUseCase
	logger             logger.Interface
}

func NewEntitlementHandler(
	getSnapshotUC *usecases.GetSnapshotUseCase,
	recordUsageUC *usecases.RecordUsageUseCase,
	claimSocialBonusUC *usecases.ClaimSocialBonusUseCase,
	getBonusHistoryUC *usecases.GetBonusHistoryUseCase,
) *EntitlementHandler {
	return &EntitlementHandler{
		getSnapshotUC:      getSnapshotUC,
		recordUsageUC:      recordUsageUC,
		claimSocialBonusUC: claimSocialBonusUC,
		getBonusHistoryUC:  getBonusHistoryUC,
		logger:             logger.NewLogger(),
	}
}

// GetSnapshot returns the entitlement state the client renders its gating
// UI from. Identified visitors resolve from the session; anonymous
// visitors pass their local counter as a query parameter.
func (h *EntitlementHandler) GetSnapshot(c *gin.Context) {
	query := usecases.GetSnapshotQuery{
		Email: visitorEmail(c),
	}

	if query.Email == "" {
		query.AnonymousUses = parseNonNegativeInt(c.Query("anonymous_uses"))
	}

	result, err := h.getSnapshotUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Snapshot retrieved", result)
}

// RecordUsage counts one completed rewrite against the session's email and
// returns the refreshed snapshot.
func (h *EntitlementHandler) RecordUsage(c *gin.Context) {
	email := visitorEmail(c)
	if email == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("visitor session required to record usage"))
		return
	}

	result, err := h.recordUsageUC.Execute(c.Request.Context(), usecases.RecordUsageCommand{Email: email})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Usage recorded", result)
}

type ClaimSocialBonusRequest struct {
	ImageURL string `json:"image_url" binding:"required,url"`
	Note     string `json:"note" binding:"max=1000"`
	Platform string `json:"platform" binding:"max=50"`
}

// ClaimSocialBonus awards share bonus credits against submitted proof.
func (h *EntitlementHandler) ClaimSocialBonus(c *gin.Context) {
	email := visitorEmail(c)
	if email == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("visitor session required to claim bonus"))
		return
	}

	var req ClaimSocialBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for bonus claim",
			"email", utils.MaskEmail(email),
			"error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := utils.ValidateEvidenceImageURL(req.ImageURL); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	cmd := usecases.ClaimSocialBonusCommand{
		Email:     email,
		ImageURL:  req.ImageURL,
		Note:      req.Note,
		Platform:  req.Platform,
		UserAgent: c.GetHeader(constants.HeaderUserAgent),
	}

	result, err := h.claimSocialBonusUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Bonus claimed", result)
}

// GetBonusHistory lists the session's share bonus claims, newest first.
func (h *EntitlementHandler) GetBonusHistory(c *gin.Context) {
	email := visitorEmail(c)
	if email == "" {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("visitor session required"))
		return
	}

	claims, err := h.getBonusHistoryUC.Execute(c.Request.Context(), usecases.GetBonusHistoryQuery{Email: email})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	start, end := utils.ApplyPagination(len(claims), pagination.Page, pagination.PageSize)

	utils.SuccessResponse(c, http.StatusOK, "Bonus history retrieved", gin.H{
		"claims":      claims[start:end],
		"total":       len(claims),
		"total_pages": utils.TotalPages(int64(len(claims)), pagination.PageSize),
		"page":        pagination.Page,
		"page_size":   pagination.PageSize,
	})
}

// visitorEmail reads the email resolved by the visitor token middleware.
func visitorEmail(c *gin.Context) string {
	if email, exists := c.Get(constants.ContextKeyVisitorEmail); exists {
		if s, ok := email.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func parseNonNegativeInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
