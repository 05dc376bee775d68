package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/sonarlens/api/schemas"
	"github.com/xkilldash9x/sonarlens/internal/config"
	"github.com/xkilldash9x/sonarlens/internal/network"
	"github.com/xkilldash9x/sonarlens/internal/results"
)

const (
	// PageSize is the fixed page size requested from the search endpoint.
	PageSize = 500

	searchPath = "/api/issues/search"

	// bodyPreviewLimit bounds the response excerpt written to the debug log.
	bodyPreviewLimit = 200
)

// Client retrieves issues from a SonarCloud/SonarQube issue-search endpoint
// and reassembles paginated responses into a single logical result set.
type Client struct {
	cfg        config.SonarConfig
	httpClient *network.Client
	normalizer *results.Normalizer
	logger     *zap.Logger

	// concurrency bounds the parallel page fan-out; zero means one
	// goroutine per remaining page.
	concurrency int
}

// New creates a Client for the given query configuration. A nil httpClient
// or logger falls back to package defaults; a nil normalizer uses the
// built-in rule-name table.
func New(cfg config.SonarConfig, httpClient *network.Client, normalizer *results.Normalizer, logger *zap.Logger, concurrency int) *Client {
	if httpClient == nil {
		httpClient = network.NewClient(nil)
	}
	if normalizer == nil {
		normalizer = results.NewNormalizer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:         cfg,
		httpClient:  httpClient,
		normalizer:  normalizer,
		logger:      logger.Named("sonar"),
		concurrency: concurrency,
	}
}

// searchURL builds the fully-qualified query for one page. Pure; assumes the
// configuration has already passed Validate.
func (c *Client) searchURL(page int) string {
	params := url.Values{}
	params.Set("organization", c.cfg.Organization)
	params.Set("projects", c.cfg.Project)
	params.Set("ps", strconv.Itoa(PageSize))
	params.Set("p", strconv.Itoa(page))
	if len(c.cfg.Types) > 0 {
		params.Set("types", strings.Join(c.cfg.Types, ","))
	}
	if len(c.cfg.Severities) > 0 {
		params.Set("severities", strings.Join(c.cfg.Severities, ","))
	}
	if c.cfg.CreatedAfter != "" {
		params.Set("createdAfter", c.cfg.CreatedAfter)
	}
	return strings.TrimRight(c.cfg.Server, "/") + searchPath + "?" + params.Encode()
}

// fetchPage performs exactly one GET against the search endpoint and decodes
// the envelope.
func (c *Client) fetchPage(ctx context.Context, page int) (*schemas.SearchResponse, error) {
	reqURL := c.searchURL(page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for page %d: %w", page, err)
	}
	// The API expects the token as the Basic-Auth username with an empty
	// password.
	req.SetBasicAuth(c.cfg.Token, "")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request for page %d failed: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body for page %d: %w", page, err)
	}

	c.logger.Debug("Fetched issue page",
		zap.String("url", reqURL),
		zap.Int("status", resp.StatusCode),
		zap.String("body_preview", preview(body)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var envelope schemas.SearchResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ProtocolError{Reason: fmt.Sprintf("undecodable search envelope for page %d", page), Err: err}
	}
	return &envelope, nil
}

// FetchFirstPage validates the configuration and retrieves page 1 only,
// bounded at PageSize issues.
func (c *Client) FetchFirstPage(ctx context.Context) (*schemas.SearchResponse, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	return c.fetchPage(ctx, 1)
}

// FetchAllPages retrieves the complete result set. Page 1 is fetched
// synchronously to learn the page count; remaining pages are fetched
// concurrently and merged in ascending page order regardless of completion
// order. If any page fails, the whole operation fails with that page's
// error and no partial result: a merge with missing pages would silently
// corrupt downstream statistics.
func (c *Client) FetchAllPages(ctx context.Context) (*schemas.ExportResult, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	first, err := c.fetchPage(ctx, 1)
	if err != nil {
		return nil, &AggregateFetchError{Page: 1, Err: err}
	}

	totalPages := first.TotalPages()
	pages := make([][]schemas.RawIssue, totalPages+1)
	pages[1] = first.Issues

	if totalPages > 1 {
		c.logger.Info("Fetching remaining pages",
			zap.Int("total_issues", first.TotalIssues()),
			zap.Int("total_pages", totalPages))

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			fetchErr error
		)
		var sem chan struct{}
		if c.concurrency > 0 {
			sem = make(chan struct{}, c.concurrency)
		}

		for p := 2; p <= totalPages; p++ {
			wg.Add(1)
			go func(page int) {
				defer wg.Done()
				if sem != nil {
					sem <- struct{}{}
					defer func() { <-sem }()
				}
				resp, err := c.fetchPage(ctx, page)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if fetchErr == nil {
						fetchErr = &AggregateFetchError{Page: page, Err: err}
					}
					return
				}
				pages[page] = resp.Issues
			}(p)
		}
		wg.Wait()

		if fetchErr != nil {
			return nil, fetchErr
		}
	}

	merged := make([]schemas.RawIssue, 0, first.TotalIssues())
	for p := 1; p <= totalPages; p++ {
		merged = append(merged, pages[p]...)
	}

	// The server's bookkeeping and the delivered issues must agree; a
	// silent truncation or padding would skew every derived statistic.
	if len(merged) != first.TotalIssues() {
		return nil, &ProtocolError{
			Reason: fmt.Sprintf("server reported %d issues but %d were delivered across %d pages",
				first.TotalIssues(), len(merged), totalPages),
		}
	}

	issues := make([]schemas.Issue, 0, len(merged))
	for _, raw := range merged {
		issues = append(issues, c.normalizer.Normalize(raw))
	}

	// Page and TotalPages collapse to 1: pagination is exhausted from the
	// consumer's point of view.
	return &schemas.ExportResult{
		Issues:     issues,
		Total:      len(issues),
		Page:       1,
		TotalPages: 1,
	}, nil
}

func preview(body []byte) string {
	if len(body) > bodyPreviewLimit {
		return string(body[:bodyPreviewLimit]) + "..."
	}
	return string(body)
}
