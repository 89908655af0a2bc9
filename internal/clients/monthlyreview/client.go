// Package monthlyreview is the read-only HTTP client for the external monthly
// review API.
package monthlyreview

import (
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

// Client fetches monthly review summaries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a monthly review client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

var _ portssvc.MonthlyReviewFetcher = (*Client)(nil)

// FetchMonthlyReview retrieves the review for one calendar month.
func (c *Client) FetchMonthlyReview(ctx context.Context, year int, month int) (*domain.MonthlyReview, error) {
	url := fmt.Sprintf("%s/reviews/%d/%02d", c.baseURL, year, month)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build monthly review request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: monthly review service unreachable: %v", apperrors.ErrExternalService, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: no review for %d-%02d", apperrors.ErrNotFound, year, month)
	default:
		return nil, fmt.Errorf("%w: monthly review service returned %s", apperrors.ErrExternalService, resp.Status)
	}

	var review domain.MonthlyReview
	if err := json.NewDecoder(resp.Body).Decode(&review); err != nil {
		return nil, fmt.Errorf("%w: failed to decode monthly review: %v", apperrors.ErrExternalService, err)
	}
	return &review, nil
}
