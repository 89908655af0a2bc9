package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// closingHandler serves the monthly closing checklist and the external
// monthly review.
type closingHandler struct {
	closingService portssvc.ClosingSvcFacade
}

func newClosingHandler(cs portssvc.ClosingSvcFacade) *closingHandler {
	return &closingHandler{closingService: cs}
}

// registerClosingRoutes registers all closing-related routes.
func registerClosingRoutes(rg *gin.RouterGroup, closingService portssvc.ClosingSvcFacade) {
	h := newClosingHandler(closingService)

	closing := rg.Group("/closing/:year/:month")
	{
		closing.GET("", h.getPeriod)
		closing.POST("/checks/:checkID/toggle", h.toggleCheck)
		closing.PUT("/notes", h.saveNotes)
		closing.GET("/review", h.getMonthlyReview)
	}
}

func parsePeriodParams(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid month"})
		return 0, 0, false
	}
	return year, month, true
}

func checkProgress(checks []domain.ClosingCheck) domain.CheckProgress {
	progress := domain.CheckProgress{Total: len(checks)}
	for _, check := range checks {
		if check.Done {
			progress.Completed++
		}
	}
	return progress
}

// getPeriod godoc
// @Summary Get a closing period
// @Description Returns the merged checklist for the month. Future months come
// @Description back not-started with all checks false.
// @Tags closing
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} dto.ClosingPeriodResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /closing/{year}/{month} [get]
func (h *closingHandler) getPeriod(c *gin.Context) {
	year, month, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	period, err := h.closingService.GetPeriod(c.Request.Context(), year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingPeriodResponse(period, checkProgress(period.Checks)))
}

// toggleCheck godoc
// @Summary Toggle a manual closing check
// @Description Flips a manual check. Derived checks cannot be toggled.
// @Tags closing
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param checkID path string true "Check ID"
// @Success 200 {object} dto.ClosingPeriodResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /closing/{year}/{month}/checks/{checkID}/toggle [post]
func (h *closingHandler) toggleCheck(c *gin.Context) {
	year, month, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	period, err := h.closingService.ToggleCheck(c.Request.Context(), year, month, c.Param("checkID"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToClosingPeriodResponse(period, checkProgress(period.Checks)))
}

// saveNotes godoc
// @Summary Save closing notes
// @Description Schedules a debounced write of the period notes. Rapid
// @Description successive saves collapse into one write.
// @Tags closing
// @Accept json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Param notes body dto.SaveNotesRequest true "Notes"
// @Success 202 "Accepted"
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /closing/{year}/{month}/notes [put]
func (h *closingHandler) saveNotes(c *gin.Context) {
	year, month, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	var req dto.SaveNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.closingService.SaveNotes(c.Request.Context(), year, month, req.Notes, userID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// getMonthlyReview godoc
// @Summary Get the monthly review
// @Description Proxies the external read-only monthly review API.
// @Tags closing
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} domain.MonthlyReview
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /closing/{year}/{month}/review [get]
func (h *closingHandler) getMonthlyReview(c *gin.Context) {
	year, month, ok := parsePeriodParams(c)
	if !ok {
		return
	}

	review, err := h.closingService.GetMonthlyReview(c.Request.Context(), year, month)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}
