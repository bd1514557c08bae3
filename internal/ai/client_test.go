package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap/zaptest"

	"github.com/relscope/relscope/internal/domain"
)

// completionResponse wraps model content the way the chat API does
func completionResponse(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return body
}

const modelReport = `{
  "categories": [{"name": "API", "description": "API issues", "example_incident": "API latency spike"}],
  "categorized_incidents": [{"incident_id": 0, "category": "API", "severity": "Major", "duration_hours": 0.5, "root_cause": "bad deploy"}],
  "key_issues": [{"title": "Recurring latency", "description": "spikes", "impact": "High", "frequency": "3"}],
  "trends": {"overall": "increasing", "by_category": {"API": "increasing"}},
  "summary": "Reliability is trending worse."
}`

func TestClient_AnalyzeIncidents(t *testing.T) {
	var requests []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		requests = append(requests, string(body))
		_, _ = w.Write(completionResponse(t, modelReport))
	}))
	defer srv.Close()

	target := []domain.Incident{
		{Title: "API latency spike", Duration: domain.DurationUnknown},
	}
	peer := []domain.Incident{
		{Title: "Peer API outage", Duration: "2 hours"},
	}

	c := NewClient("test-key", zaptest.NewLogger(t), WithEndpoint(srv.URL))
	analysis := c.AnalyzeIncidents(context.Background(), target, peer)

	require.Len(t, requests, 2)

	// Peer batch goes first; its categories constrain the target prompt.
	peerPrompt := gjson.Get(requests[0], "messages.0.content").String()
	targetPrompt := gjson.Get(requests[1], "messages.0.content").String()
	assert.Contains(t, peerPrompt, "peer companies")
	assert.Contains(t, targetPrompt, "the target company")
	assert.Contains(t, targetPrompt, "existing categories from peer analysis")

	assert.Equal(t, "Reliability is trending worse.", analysis.Target.Summary)
	assert.Equal(t, "increasing", analysis.Target.Trends.Overall)
	require.Len(t, analysis.Target.Categories, 1)

	// Enrichment applied back onto the incidents by index.
	assert.Equal(t, "API", target[0].Category)
	assert.Equal(t, domain.SeverityMajor, target[0].Severity)
	assert.Equal(t, "bad deploy", target[0].RootCause)
	assert.Equal(t, "30 minutes", target[0].Duration)
	// Known durations are left alone.
	assert.Equal(t, "2 hours", peer[0].Duration)
}

func TestClient_AnalyzeIncidents_APIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	target := []domain.Incident{{Title: "Something broke"}}
	c := NewClient("test-key", zaptest.NewLogger(t), WithEndpoint(srv.URL))

	analysis := c.AnalyzeIncidents(context.Background(), target, nil)

	// Failures never abort the run: empty reports come back instead.
	require.NotNil(t, analysis)
	assert.Empty(t, analysis.Target.Categories)
	assert.Contains(t, analysis.Target.Summary, "Error analyzing target incidents")
	assert.Equal(t, "No data available", analysis.Peer.Trends.Overall)
	assert.Empty(t, target[0].Category)
}

func TestClient_AnalyzeIncidents_MalformedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completionResponse(t, "this is not json {"))
	}))
	defer srv.Close()

	c := NewClient("test-key", zaptest.NewLogger(t), WithEndpoint(srv.URL))
	analysis := c.AnalyzeIncidents(context.Background(), []domain.Incident{{Title: "x"}}, nil)

	assert.Contains(t, analysis.Target.Summary, "Error analyzing target incidents")
}

func TestClient_AnalyzeIncidents_EmptyBatchSkipsAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called for empty batches")
	}))
	defer srv.Close()

	c := NewClient("test-key", zaptest.NewLogger(t), WithEndpoint(srv.URL))
	analysis := c.AnalyzeIncidents(context.Background(), nil, nil)

	assert.Contains(t, analysis.Target.Summary, "No incidents found for target companies")
	assert.Contains(t, analysis.Peer.Summary, "No incidents found for peer companies")
}

func TestClient_RespectsContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write(completionResponse(t, modelReport))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	c := NewClient("test-key", zaptest.NewLogger(t), WithEndpoint(srv.URL))
	analysis := c.AnalyzeIncidents(ctx, []domain.Incident{{Title: "x"}}, nil)

	assert.Contains(t, analysis.Target.Summary, "Error analyzing target incidents")
}

func TestResolveAPIKey(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("RELSCOPE_OPENAI_API_KEY", "env-key")
		assert.Equal(t, "flag-key", ResolveAPIKey("flag-key"))
	})

	t.Run("scoped env over generic env", func(t *testing.T) {
		t.Setenv("RELSCOPE_OPENAI_API_KEY", "scoped")
		t.Setenv("OPENAI_API_KEY", "generic")
		assert.Equal(t, "scoped", ResolveAPIKey(""))
	})

	t.Run("generic env", func(t *testing.T) {
		t.Setenv("RELSCOPE_OPENAI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "generic")
		assert.Equal(t, "generic", ResolveAPIKey(""))
	})

	t.Run("placeholder fallback", func(t *testing.T) {
		t.Setenv("RELSCOPE_OPENAI_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		assert.Equal(t, DefaultAPIKey, ResolveAPIKey(""))
	})
}
