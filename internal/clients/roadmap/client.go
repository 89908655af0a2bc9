// Package roadmap is the HTTP client for the external roadmap service, which
// turns a free-text corporate action into a structured plan.
package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/egetab/compliance_backend/internal/apperrors"
	"github.com/egetab/compliance_backend/internal/core/domain"
	portssvc "github.com/egetab/compliance_backend/internal/core/ports/services"
)

const defaultTimeout = 10 * time.Second

// Client calls the roadmap service. Failures surface as
// apperrors.ErrExternalService; the caller decides whether to retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a roadmap client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ portssvc.RoadmapCreator = (*Client)(nil)

type createRoadmapRequest struct {
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Steps       []domain.RoadmapStep `json:"steps"`
}

// CreateRoadmap posts the plan request and returns the created roadmap.
func (c *Client) CreateRoadmap(ctx context.Context, title string, description string, steps []domain.RoadmapStep) (*domain.Roadmap, error) {
	body, err := json.Marshal(createRoadmapRequest{
		Title:       title,
		Description: description,
		Steps:       steps,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode roadmap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/roadmaps", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build roadmap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: roadmap service unreachable: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: roadmap service returned %s", apperrors.ErrExternalService, resp.Status)
	}

	var roadmap domain.Roadmap
	if err := json.NewDecoder(resp.Body).Decode(&roadmap); err != nil {
		return nil, fmt.Errorf("%w: failed to decode roadmap response: %v", apperrors.ErrExternalService, err)
	}
	return &roadmap, nil
}
