package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// wizardHandler drives the corporate action flow.
type wizardHandler struct {
	wizardService portssvc.WizardSvcFacade
}

func newWizardHandler(ws portssvc.WizardSvcFacade) *wizardHandler {
	return &wizardHandler{wizardService: ws}
}

// registerWizardRoutes registers all wizard-related routes.
func registerWizardRoutes(rg *gin.RouterGroup, wizardService portssvc.WizardSvcFacade) {
	h := newWizardHandler(wizardService)

	sessions := rg.Group("/wizard/sessions")
	{
		sessions.POST("", h.startSession)
		sessions.GET("/:id", h.getSession)
		sessions.POST("/:id/action", h.selectAction)
		sessions.POST("/:id/configure", h.configure)
		sessions.POST("/:id/back", h.back)
		sessions.POST("/:id/complete", h.complete)
		sessions.DELETE("/:id", h.cancel)
	}
}

// startSession godoc
// @Summary Start a wizard session
// @Description Opens a new corporate action session at the selection step.
// @Tags wizard
// @Produce json
// @Success 201 {object} dto.WizardSessionResponse
// @Security BearerAuth
// @Router /wizard/sessions [post]
func (h *wizardHandler) startSession(c *gin.Context) {
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	session, err := h.wizardService.StartSession(c.Request.Context(), creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToWizardSessionResponse(session))
}

// getSession godoc
// @Summary Get a wizard session
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.WizardSessionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id} [get]
func (h *wizardHandler) getSession(c *gin.Context) {
	session, err := h.wizardService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWizardSessionResponse(session))
}

// selectAction godoc
// @Summary Select the corporate action type
// @Tags wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param action body dto.SelectActionRequest true "Action type"
// @Success 200 {object} dto.WizardSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id}/action [post]
func (h *wizardHandler) selectAction(c *gin.Context) {
	var req dto.SelectActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.wizardService.SelectAction(c.Request.Context(), c.Param("id"), req.ActionType)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWizardSessionResponse(session))
}

// configure godoc
// @Summary Configure the selected action
// @Description Stores the per-type payload and advances to preview.
// @Tags wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param data body dto.ConfigureActionRequest true "Action payload"
// @Success 200 {object} dto.WizardSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id}/configure [post]
func (h *wizardHandler) configure(c *gin.Context) {
	var req dto.ConfigureActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.wizardService.Configure(c.Request.Context(), c.Param("id"), req.Data)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWizardSessionResponse(session))
}

// back godoc
// @Summary Step back in the wizard
// @Description Moves one step towards selection, keeping configured data.
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.WizardSessionResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id}/back [post]
func (h *wizardHandler) back(c *gin.Context) {
	session, err := h.wizardService.Back(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToWizardSessionResponse(session))
}

// complete godoc
// @Summary Complete the wizard session
// @Description Materializes the configured action: a roadmap, or a draft
// @Description document plus (for dividends) the booking verification. A
// @Description failure leaves the session on preview so completion can be
// @Description retried.
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} dto.WizardCompletionResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id}/complete [post]
func (h *wizardHandler) complete(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.wizardService.Complete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// cancel godoc
// @Summary Cancel a wizard session
// @Description Discards the session entirely.
// @Tags wizard
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /wizard/sessions/{id} [delete]
func (h *wizardHandler) cancel(c *gin.Context) {
	if err := h.wizardService.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
