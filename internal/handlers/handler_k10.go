package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// k10Handler serves the K10 declaration lifecycle.
type k10Handler struct {
	k10Service portssvc.K10SvcFacade
}

func newK10Handler(ks portssvc.K10SvcFacade) *k10Handler {
	return &k10Handler{k10Service: ks}
}

// registerK10Routes registers all K10-related routes.
func registerK10Routes(rg *gin.RouterGroup, k10Service portssvc.K10SvcFacade) {
	h := newK10Handler(k10Service)

	k10 := rg.Group("/k10")
	{
		k10.POST("", h.createDraft)
		k10.GET("/:shareholderID/:year", h.getK10)
		k10.POST("/:shareholderID/:year/submit", h.submitK10)
	}
}

func parseYearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year"})
		return 0, false
	}
	return year, true
}

// createDraft godoc
// @Summary Create a K10 draft
// @Description Opens a draft K10 declaration for a shareholder and tax year.
// @Tags k10
// @Accept json
// @Produce json
// @Param declaration body dto.CreateK10Request true "Declaration"
// @Success 201 {object} dto.K10Response
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /k10 [post]
func (h *k10Handler) createDraft(c *gin.Context) {
	var req dto.CreateK10Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	declaration, err := h.k10Service.CreateDraft(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToK10Response(declaration))
}

// getK10 godoc
// @Summary Get a K10 declaration
// @Tags k10
// @Produce json
// @Param shareholderID path string true "Shareholder ID"
// @Param year path int true "Tax year"
// @Success 200 {object} dto.K10Response
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /k10/{shareholderID}/{year} [get]
func (h *k10Handler) getK10(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	declaration, err := h.k10Service.GetK10(c.Request.Context(), c.Param("shareholderID"), year)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToK10Response(declaration))
}

// submitK10 godoc
// @Summary Submit a K10 declaration
// @Description Transitions a draft to submitted. Submitting twice fails.
// @Tags k10
// @Produce json
// @Param shareholderID path string true "Shareholder ID"
// @Param year path int true "Tax year"
// @Success 200 {object} dto.K10Response
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /k10/{shareholderID}/{year}/submit [post]
func (h *k10Handler) submitK10(c *gin.Context) {
	year, ok := parseYearParam(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	declaration, err := h.k10Service.Submit(c.Request.Context(), c.Param("shareholderID"), year, userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToK10Response(declaration))
}
