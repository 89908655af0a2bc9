package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// documentHandler serves protocol documents.
type documentHandler struct {
	documentService portssvc.DocumentSvcFacade
}

func newDocumentHandler(ds portssvc.DocumentSvcFacade) *documentHandler {
	return &documentHandler{documentService: ds}
}

// registerDocumentRoutes registers all document-related routes.
func registerDocumentRoutes(rg *gin.RouterGroup, documentService portssvc.DocumentSvcFacade) {
	h := newDocumentHandler(documentService)

	documents := rg.Group("/documents")
	{
		documents.POST("", h.createDocument)
		documents.GET("", h.listDocuments)
		documents.GET("/:id", h.getDocument)
		documents.POST("/:id/finalize", h.finalizeDocument)
	}
}

// createDocument godoc
// @Summary Create a document
// @Description Persists a new draft protocol document.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body dto.CreateDocumentRequest true "Document"
// @Success 201 {object} dto.DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents [post]
func (h *documentHandler) createDocument(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	document, err := h.documentService.AddDocument(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDocumentResponse(document))
}

// listDocuments godoc
// @Summary List documents
// @Description Returns documents, optionally filtered by type.
// @Tags documents
// @Produce json
// @Param type query string false "Document type filter"
// @Success 200 {array} dto.DocumentResponse
// @Security BearerAuth
// @Router /documents [get]
func (h *documentHandler) listDocuments(c *gin.Context) {
	var docType *domain.DocumentType
	if raw := c.Query("type"); raw != "" {
		t := domain.DocumentType(raw)
		docType = &t
	}

	documents, err := h.documentService.ListDocuments(c.Request.Context(), docType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	responses := make([]dto.DocumentResponse, len(documents))
	for i := range documents {
		responses[i] = dto.ToDocumentResponse(&documents[i])
	}
	c.JSON(http.StatusOK, responses)
}

// getDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *documentHandler) getDocument(c *gin.Context) {
	document, err := h.documentService.GetDocumentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}

// finalizeDocument godoc
// @Summary Finalize a document
// @Description Transitions a draft to final. Finalized documents are
// @Description immutable.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.DocumentResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /documents/{id}/finalize [post]
func (h *documentHandler) finalizeDocument(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	document, err := h.documentService.FinalizeDocument(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDocumentResponse(document))
}
