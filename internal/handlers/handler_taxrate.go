package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
)

// taxRateHandler exposes the statutory parameters per tax year.
type taxRateHandler struct {
	taxRateService portssvc.TaxRateSvcFacade
}

func newTaxRateHandler(ts portssvc.TaxRateSvcFacade) *taxRateHandler {
	return &taxRateHandler{taxRateService: ts}
}

// registerTaxRateRoutes registers the tax parameter routes.
func registerTaxRateRoutes(rg *gin.RouterGroup, taxRateService portssvc.TaxRateSvcFacade) {
	h := newTaxRateHandler(taxRateService)

	rg.GET("/tax-rates/:year", h.getTaxRates)
}

// getTaxRates godoc
// @Summary Get statutory tax parameters for a year
// @Description Returns the inkomstbasbelopp and the dividend tax rates used by
// @Description the gränsbelopp calculations.
// @Tags tax-rates
// @Produce json
// @Param year path int true "Tax year"
// @Success 200 {object} domain.TaxRates
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /tax-rates/{year} [get]
func (h *taxRateHandler) getTaxRates(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid year: " + c.Param("year")})
		return
	}

	rates, err := h.taxRateService.GetTaxRates(c.Request.Context(), year)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rates)
}
