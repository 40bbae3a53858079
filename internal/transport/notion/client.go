// Package notion is the page store backed by a Notion database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/domain"
	"github.com/kailas-cloud/snapnote/internal/metrics"
)

const provider = "notion"

// maxTextLen is the per-segment limit Notion applies to rich text content.
const maxTextLen = 2000

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Properties names the database columns a page is written to.
type Properties struct {
	Title   string
	Summary string
	Tags    string
}

// Client creates pages in one database with one integration token.
type Client struct {
	http       *http.Client
	baseURL    string
	version    string
	apiKey     string
	databaseID string
	props      Properties
	logger     *zap.Logger
}

// CreatePage implements domain.PageStore. Every call creates a new page.
func (c *Client) CreatePage(ctx context.Context, title, body, tags string) (domain.PageDescriptor, error) {
	payload := map[string]any{
		"parent": map[string]string{"database_id": c.databaseID},
		"properties": map[string]any{
			c.props.Title:   map[string]any{"title": richText(title)},
			c.props.Summary: map[string]any{"rich_text": richText(body)},
			c.props.Tags:    map[string]any{"rich_text": richText(tags)},
		},
	}

	raw, err := c.do(ctx, http.MethodPost, "/pages", payload)
	if err != nil {
		return domain.PageDescriptor{}, err
	}

	page := domain.NewPageDescriptor(raw)
	c.logger.Info("notion page created",
		zap.String("page_id", page.ID()),
		zap.Int("summary_len", len(body)),
	)
	return page, nil
}

// PropertyNames returns the database's declared property names, sorted.
func (c *Client) PropertyNames(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/databases/"+c.databaseID, nil)
	if err != nil {
		return nil, err
	}

	var db struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(raw, &db); err != nil {
		return nil, fmt.Errorf("decode database: %v: %w", err, domain.ErrPageStoreProvider)
	}

	names := make([]string, 0, len(db.Properties))
	for name := range db.Properties {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

// HealthCheck verifies the token and database by reading the schema.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.PropertyNames(ctx)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveUpstream(metrics.StageNotion, provider, time.Since(start), "transport_error")
		return nil, fmt.Errorf("notion request failed: %v: %w", err, domain.ErrPageStoreProvider)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveUpstream(metrics.StageNotion, provider, time.Since(start), "api_error")
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, parseAPIError(resp.StatusCode, data)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(metrics.StageNotion, provider, time.Since(start), "transport_error")
		return nil, fmt.Errorf("read response: %v: %w", err, domain.ErrPageStoreProvider)
	}
	metrics.ObserveUpstream(metrics.StageNotion, provider, time.Since(start), "")
	return data, nil
}

// parseAPIError turns a Notion error object into an error wrapping ErrPageStoreProvider.
func parseAPIError(status int, body []byte) error {
	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
		return fmt.Errorf("notion API error %d (%s): %s: %w",
			status, parsed.Code, parsed.Message, domain.ErrPageStoreProvider)
	}
	return fmt.Errorf("notion API error %d: %s: %w",
		status, strings.TrimSpace(string(body)), domain.ErrPageStoreProvider)
}

type textSegment struct {
	Type string      `json:"type"`
	Text textContent `json:"text"`
}

type textContent struct {
	Content string `json:"content"`
}

// richText splits s into segments no longer than maxTextLen runes.
func richText(s string) []textSegment {
	segments := []textSegment{}
	runes := []rune(s)
	for len(runes) > 0 {
		n := min(len(runes), maxTextLen)
		segments = append(segments, textSegment{Type: "text", Text: textContent{Content: string(runes[:n])}})
		runes = runes[n:]
	}
	return segments
}
