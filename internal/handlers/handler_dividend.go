package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
)

// dividendHandler serves dividend planning: allowance evaluation and the
// per-shareholder split.
type dividendHandler struct {
	dividendService portssvc.DividendSvcFacade
}

func newDividendHandler(ds portssvc.DividendSvcFacade) *dividendHandler {
	return &dividendHandler{dividendService: ds}
}

// registerDividendRoutes registers all dividend-related routes.
func registerDividendRoutes(rg *gin.RouterGroup, dividendService portssvc.DividendSvcFacade) {
	h := newDividendHandler(dividendService)

	dividends := rg.Group("/dividends")
	{
		dividends.POST("/evaluate", h.evaluateDividend)
		dividends.POST("/split", h.splitDividend)
	}
}

// evaluateDividend godoc
// @Summary Evaluate a dividend plan
// @Description Computes the gränsbelopp for the year and the tax split of the
// @Description planned amount against it.
// @Tags dividends
// @Accept json
// @Produce json
// @Param plan body dto.EvaluateDividendRequest true "Dividend plan"
// @Success 200 {object} dto.DividendEvaluationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /dividends/evaluate [post]
func (h *dividendHandler) evaluateDividend(c *gin.Context) {
	var req dto.EvaluateDividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	resp, err := h.dividendService.EvaluateDividend(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// splitDividend godoc
// @Summary Split a dividend across the cap table
// @Description Distributes a total in whole kronor, proportional to share
// @Description counts. Allocations always sum exactly to the total.
// @Tags dividends
// @Accept json
// @Produce json
// @Param split body dto.SplitDividendRequest true "Total to distribute"
// @Success 200 {object} dto.SplitDividendResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /dividends/split [post]
func (h *dividendHandler) splitDividend(c *gin.Context) {
	var req dto.SplitDividendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	allocations, err := h.dividendService.SplitDividend(c.Request.Context(), req.TotalAmount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SplitDividendResponse{
		TotalAmount: req.TotalAmount,
		Allocations: allocations,
	})
}
