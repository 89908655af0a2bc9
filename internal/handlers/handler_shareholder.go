package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// shareholderHandler serves the cap table.
type shareholderHandler struct {
	shareholderService portssvc.ShareholderSvcFacade
}

func newShareholderHandler(ss portssvc.ShareholderSvcFacade) *shareholderHandler {
	return &shareholderHandler{shareholderService: ss}
}

// RegisterShareholderRoutes registers all shareholder-related routes.
func RegisterShareholderRoutes(rg *gin.RouterGroup, shareholderService portssvc.ShareholderSvcFacade) {
	h := newShareholderHandler(shareholderService)

	shareholders := rg.Group("/shareholders")
	{
		shareholders.POST("", h.createShareholder)
		shareholders.GET("", h.listShareholders)
		shareholders.GET("/stats", h.getCapTableStats)
		shareholders.GET("/:id", h.getShareholder)
		shareholders.PATCH("/:id", h.updateShareholder)
		shareholders.POST("/equity-issues", h.registerEquityIssue)
	}
}

// createShareholder godoc
// @Summary Add a shareholder
// @Description Registers a new cap table entry.
// @Tags shareholders
// @Accept json
// @Produce json
// @Param shareholder body dto.CreateShareholderRequest true "Shareholder"
// @Success 201 {object} dto.ShareholderResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /shareholders [post]
func (h *shareholderHandler) createShareholder(c *gin.Context) {
	var req dto.CreateShareholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	shareholder, err := h.shareholderService.AddShareholder(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToShareholderResponse(shareholder, decimal.Zero))
}

// listShareholders godoc
// @Summary List shareholders
// @Description Returns the full cap table with derived ownership percentages.
// @Tags shareholders
// @Produce json
// @Success 200 {array} dto.ShareholderResponse
// @Security BearerAuth
// @Router /shareholders [get]
func (h *shareholderHandler) listShareholders(c *gin.Context) {
	shareholders, err := h.shareholderService.ListShareholders(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	ownership, err := h.shareholderService.GetOwnershipPercentages(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	percentages := make(map[string]decimal.Decimal, len(ownership))
	for _, o := range ownership {
		percentages[o.ShareholderID] = o.Percentage
	}

	responses := make([]dto.ShareholderResponse, len(shareholders))
	for i := range shareholders {
		responses[i] = dto.ToShareholderResponse(&shareholders[i], percentages[shareholders[i].ShareholderID])
	}
	c.JSON(http.StatusOK, responses)
}

// getShareholder godoc
// @Summary Get a shareholder
// @Tags shareholders
// @Produce json
// @Param id path string true "Shareholder ID"
// @Success 200 {object} dto.ShareholderResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shareholders/{id} [get]
func (h *shareholderHandler) getShareholder(c *gin.Context) {
	shareholder, err := h.shareholderService.GetShareholderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	percentage := decimal.Zero
	if ownership, err := h.shareholderService.GetOwnershipPercentages(c.Request.Context()); err == nil {
		for _, o := range ownership {
			if o.ShareholderID == shareholder.ShareholderID {
				percentage = o.Percentage
			}
		}
	}

	c.JSON(http.StatusOK, dto.ToShareholderResponse(shareholder, percentage))
}

// updateShareholder godoc
// @Summary Update a shareholder
// @Description Patches name, org number, share count or class. Omitted fields
// @Description are left untouched.
// @Tags shareholders
// @Accept json
// @Produce json
// @Param id path string true "Shareholder ID"
// @Param patch body dto.UpdateShareholderRequest true "Fields to update"
// @Success 200 {object} dto.ShareholderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /shareholders/{id} [patch]
func (h *shareholderHandler) updateShareholder(c *gin.Context) {
	var req dto.UpdateShareholderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	shareholder, err := h.shareholderService.UpdateShareholder(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToShareholderResponse(shareholder, decimal.Zero))
}

// getCapTableStats godoc
// @Summary Cap table statistics
// @Description Summarizes total shares, total votes and holder count.
// @Tags shareholders
// @Produce json
// @Success 200 {object} domain.CapTableStats
// @Security BearerAuth
// @Router /shareholders/stats [get]
func (h *shareholderHandler) getCapTableStats(c *gin.Context) {
	stats, err := h.shareholderService.GetCapTableStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// registerEquityIssue godoc
// @Summary Register an equity issue
// @Description Books the issuance verification and creates or increments the
// @Description recipient's holding.
// @Tags shareholders
// @Accept json
// @Produce json
// @Param issue body dto.RegisterEquityIssueRequest true "Equity issue"
// @Success 201 {object} dto.VerificationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /shareholders/equity-issues [post]
func (h *shareholderHandler) registerEquityIssue(c *gin.Context) {
	var req dto.RegisterEquityIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	verification, err := h.shareholderService.RegisterEquityIssue(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVerificationResponse(verification))
}
