package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portsrepo "github.com/egetab/compliance_backend/internal/core/ports/repositories"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
	"github.com/egetab/compliance_backend/internal/dto"
	"github.com/egetab/compliance_backend/internal/middleware"
)

// documentService manages protocol documents. Documents start as drafts and
// can be finalized once; finalized documents are immutable.
type documentService struct {
	documentRepo portsrepo.DocumentRepository
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(documentRepo portsrepo.DocumentRepository) portssvc.DocumentSvcFacade {
	return &documentService{documentRepo: documentRepo}
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

// AddDocument persists a new draft document.
func (s *documentService) AddDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch req.Type {
	case domain.DocBoardMeetingMinutes, domain.DocGeneralMeetingMinutes:
	default:
		return nil, fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, req.Type)
	}

	now := time.Now().UTC()
	document := domain.Document{
		DocumentID: uuid.NewString(),
		Type:       req.Type,
		Title:      req.Title,
		Date:       req.Date,
		Content:    req.Content,
		Status:     domain.DocDraft,
		Source:     req.Source,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.documentRepo.SaveDocument(ctx, document); err != nil {
		logger.Error("Failed to save document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	logger.Info("Document created",
		slog.String("document_id", document.DocumentID),
		slog.String("type", string(document.Type)),
	)
	return &document, nil
}

// GetDocumentByID retrieves a single document.
func (s *documentService) GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	document, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	return document, nil
}

// ListDocuments returns documents, optionally filtered by type.
func (s *documentService) ListDocuments(ctx context.Context, docType *domain.DocumentType) ([]domain.Document, error) {
	documents, err := s.documentRepo.ListDocuments(ctx, docType)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}

// FinalizeDocument transitions a draft to final. Finalizing twice is a
// conflict.
func (s *documentService) FinalizeDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	document, err := s.documentRepo.FindDocumentByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}

	if document.Status == domain.DocFinal {
		return nil, fmt.Errorf("%w: document %s is already final", apperrors.ErrConflict, documentID)
	}

	now := time.Now().UTC()
	if err := s.documentRepo.UpdateDocumentStatus(ctx, documentID, domain.DocFinal, userID, now); err != nil {
		logger.Error("Failed to finalize document", slog.String("error", err.Error()), slog.String("document_id", documentID))
		return nil, fmt.Errorf("failed to finalize document %s: %w", documentID, err)
	}

	document.Status = domain.DocFinal
	document.LastUpdatedAt = now
	document.LastUpdatedBy = userID

	logger.Info("Document finalized", slog.String("document_id", documentID))
	return document, nil
}
