package services

import (
	"context"

	"github.com/egetab/compliance_backend/internal/core/domain"
)

// RoadmapCreator is the external roadmap service. Failures surface as
// apperrors.ErrExternalService; the engine never retries.
type RoadmapCreator interface {
	CreateRoadmap(ctx context.Context, title string, description string, steps []domain.RoadmapStep) (*domain.Roadmap, error)
}

// MonthlyReviewFetcher is the external read-only monthly review API.
type MonthlyReviewFetcher interface {
	FetchMonthlyReview(ctx context.Context, year int, month int) (*domain.MonthlyReview, error)
}
