package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/relscope/relscope/internal/domain"
)

// DefaultAPIKey is the placeholder used when no key is supplied via
// flag or environment. Requests made with it will fail and the run
// falls back to rule-based analysis only.
const DefaultAPIKey = "your-openai-api-key-here"

const (
	defaultEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultModel    = "gpt-4o"
)

// ResolveAPIKey picks the first non-empty key from the flag value and
// the conventional environment variables, else the placeholder.
func ResolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv("RELSCOPE_OPENAI_API_KEY"); v != "" {
		return v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		return v
	}
	return DefaultAPIKey
}

// Client calls a chat-completion API to enrich incident batches
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
	endpoint   string
	model      string
	apiKey     string
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithEndpoint overrides the completion endpoint (tests point it at a
// local server)
func WithEndpoint(url string) ClientOption {
	return func(c *Client) { c.endpoint = url }
}

// WithModel selects the model name sent with each request
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an enrichment client
func NewClient(apiKey string, logger *zap.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
		endpoint:   defaultEndpoint,
		model:      defaultModel,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AnalyzeIncidents runs the two-pass enrichment: peers first to
// establish the category vocabulary, then the target constrained to
// those categories, then a locally computed comparative section.
//
// Model failures are absorbed: the affected report comes back empty
// and the run continues.
func (c *Client) AnalyzeIncidents(ctx context.Context, target, peer []domain.Incident) *domain.AIAnalysis {
	c.logger.Info("starting AI analysis",
		zap.Int("target_incidents", len(target)),
		zap.Int("peer_incidents", len(peer)))

	peerReport := c.analyzeBatch(ctx, peer, "peer", nil)

	var existing []domain.AICategory
	if len(peerReport.Categories) > 0 {
		existing = peerReport.Categories
	}
	targetReport := c.analyzeBatch(ctx, target, "target", existing)

	analysis := &domain.AIAnalysis{
		Target:      targetReport,
		Peer:        peerReport,
		Comparative: Compare(targetReport, peerReport),
	}

	ApplyToIncidents(target, targetReport.CategorizedIncidents)
	ApplyToIncidents(peer, peerReport.CategorizedIncidents)

	c.logger.Info("AI analysis complete")
	return analysis
}

func (c *Client) analyzeBatch(ctx context.Context, incidents []domain.Incident, kind string, existing []domain.AICategory) domain.AIReport {
	if len(incidents) == 0 {
		c.logger.Warn("no incidents to analyze", zap.String("batch", kind))
		return emptyReport(fmt.Sprintf("No incidents found for %s companies.", kind))
	}

	body, err := c.complete(ctx, incidents, kind, existing)
	if err != nil {
		c.logger.Warn("AI analysis failed, continuing without it",
			zap.String("batch", kind),
			zap.Error(err))
		return emptyReport(fmt.Sprintf("Error analyzing %s incidents: %v", kind, err))
	}

	report, err := parseReport(body)
	if err != nil {
		c.logger.Warn("could not parse AI response",
			zap.String("batch", kind),
			zap.Error(err))
		return emptyReport(fmt.Sprintf("Error analyzing %s incidents: %v", kind, err))
	}

	c.logger.Info("analyzed batch",
		zap.String("batch", kind),
		zap.Int("incidents", len(incidents)),
		zap.Int("categories", len(report.Categories)))
	return report
}

func emptyReport(summary string) domain.AIReport {
	return domain.AIReport{
		Categories: []domain.AICategory{},
		KeyIssues:  []domain.AIKeyIssue{},
		Trends:     domain.AITrends{Overall: "No data available"},
		Summary:    summary,
	}
}

// complete posts one chat-completion request and returns the content
// of the first choice, which is expected to be a JSON object.
func (c *Client) complete(ctx context.Context, incidents []domain.Incident, kind string, existing []domain.AICategory) (string, error) {
	payload := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt(kind, existing)},
			{"role": "user", "content": userMessage(incidents)},
		},
		"response_format": map[string]string{"type": "json_object"},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API returned %s: %s", resp.Status, truncate(string(body), 200))
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() || content.String() == "" {
		return "", fmt.Errorf("completion response has no content")
	}
	return content.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
