package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// verificationHandler serves the ledger: creating balanced verifications and
// the derived read views.
type verificationHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	userService   portssvc.UserSvcFacade
}

func newVerificationHandler(ls portssvc.LedgerSvcFacade, us portssvc.UserSvcFacade) *verificationHandler {
	return &verificationHandler{ledgerService: ls, userService: us}
}

// registerVerificationRoutes registers ledger routes.
func registerVerificationRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade, userService portssvc.UserSvcFacade) {
	h := newVerificationHandler(ledgerService, userService)

	verifications := rg.Group("/verifications")
	{
		verifications.POST("", h.createVerification)
		verifications.GET("", h.listVerifications)
		verifications.GET("/:id", h.getVerification)
	}

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/accounts/:code/rows", h.listAccountRows)
		ledger.GET("/employee-balances", h.listEmployeeBalances)
		ledger.GET("/share-transactions", h.listShareTransactions)
	}
}

// createVerification godoc
// @Summary Create a verification
// @Description Creates a new balanced bookkeeping verification with its rows.
// @Tags ledger
// @Accept json
// @Produce json
// @Param verification body dto.CreateVerificationRequest true "Verification"
// @Success 201 {object} dto.VerificationResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /verifications [post]
func (h *verificationHandler) createVerification(c *gin.Context) {
	var req dto.CreateVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	verification, err := h.ledgerService.CreateVerification(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToVerificationResponse(verification))
}

// getVerification godoc
// @Summary Get a verification
// @Description Retrieves a verification with its rows.
// @Tags ledger
// @Produce json
// @Param id path string true "Verification ID"
// @Success 200 {object} dto.VerificationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /verifications/{id} [get]
func (h *verificationHandler) getVerification(c *gin.Context) {
	verification, err := h.ledgerService.GetVerificationByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToVerificationResponse(verification))
}

// listVerifications godoc
// @Summary List verifications
// @Description Retrieves a token-paginated page of the ledger, newest first.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListVerificationsResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /verifications [get]
func (h *verificationHandler) listVerifications(c *gin.Context) {
	var params dto.ListVerificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters"})
		return
	}

	resp, err := h.ledgerService.ListVerifications(c.Request.Context(), params)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listAccountRows godoc
// @Summary List rows on an account
// @Description Returns all ledger rows on the given BAS account code with
// @Description their entry context.
// @Tags ledger
// @Produce json
// @Param code path string true "BAS account code"
// @Success 200 {array} domain.AccountRowView
// @Security BearerAuth
// @Router /ledger/accounts/{code}/rows [get]
func (h *verificationHandler) listAccountRows(c *gin.Context) {
	views, err := h.ledgerService.FilterRowsByAccount(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// listEmployeeBalances godoc
// @Summary List employee reimbursement balances
// @Description Aggregates reimbursement debt and mileage totals per employee
// @Description from the ledger.
// @Tags ledger
// @Produce json
// @Success 200 {array} domain.EmployeeBalance
// @Security BearerAuth
// @Router /ledger/employee-balances [get]
func (h *verificationHandler) listEmployeeBalances(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	employees := make([]domain.Employee, len(users))
	for i, u := range users {
		employees[i] = domain.Employee{EmployeeID: u.UserID, Name: u.Name}
	}

	balances, err := h.ledgerService.DeriveEmployeeBalances(c.Request.Context(), employees)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, balances)
}

// listShareTransactions godoc
// @Summary List equity issuances
// @Description Reconstructs the equity issuance history from the ledger.
// @Tags ledger
// @Produce json
// @Success 200 {array} domain.ShareTransaction
// @Security BearerAuth
// @Router /ledger/share-transactions [get]
func (h *verificationHandler) listShareTransactions(c *gin.Context) {
	transactions, err := h.ledgerService.DeriveShareTransactions(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, transactions)
}
