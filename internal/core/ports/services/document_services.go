package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
	"github.com/egetab/compliance_backend/internal/dto"
)

// DocumentSvcFacade manages protocol documents produced by corporate actions.
type DocumentSvcFacade interface {
	AddDocument(ctx context.Context, req dto.CreateDocumentRequest, creatorUserID string) (*domain.Document, error)
	GetDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
	ListDocuments(ctx context.Context, docType *domain.DocumentType) ([]domain.Document, error)
	FinalizeDocument(ctx context.Context, documentID string, userID string) (*domain.Document, error)
}
