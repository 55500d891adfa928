package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"growest_connect/config"
	"growest_connect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorerConfig(baseURL string) *config.Config {
	cfg := testConfig()
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.Model = "test-model"
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.MaxTokens = 500
	cfg.LLM.Temperature = 0.3
	return cfg
}

func completionServer(t *testing.T, content string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error":"upstream failure"}`)
			return
		}

		resp := map[string]interface{}{
			"id":    "cmpl-1",
			"model": "test-model",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testCandidates(n int) []models.Candidate {
	candidates := make([]models.Candidate, 0, n)
	for i := 0; i < n; i++ {
		candidates = append(candidates, models.Candidate{
			ID:         fmt.Sprintf("proj-%d", i),
			TargetType: models.TargetProject,
			Name:       fmt.Sprintf("Project %d", i),
			Sector:     "technology",
		})
	}
	return candidates
}

func testProfile() *models.UserProfile {
	return &models.UserProfile{
		UserID:   "user-1",
		FullName: "Chidi Eze",
		Role:     models.RoleInvestor,
		Sector:   "technology",
		Location: "Lagos",
	}
}

func TestScoreCandidatesParsesAssessment(t *testing.T) {
	content := `Here is my assessment:
{"0": {"score": 85, "reasons": ["Sector match", "Funding fits"]}, "1": {"score": 42, "reasons": ["Different sector"]}}`
	server := completionServer(t, content, http.StatusOK)
	defer server.Close()

	scorer := NewLLMScorer(scorerConfig(server.URL))
	scores, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(2))
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 85.0, scores[0].Score)
	assert.Equal(t, []string{"Sector match", "Funding fits"}, scores[0].Reasons)
	assert.Equal(t, 42.0, scores[1].Score)
}

func TestScoreCandidatesClampsAndTrims(t *testing.T) {
	content := `{"0": {"score": 150, "reasons": ["a", "b", "c", "d"]}, "1": {"score": -10, "reasons": ["x"]}}`
	server := completionServer(t, content, http.StatusOK)
	defer server.Close()

	scorer := NewLLMScorer(scorerConfig(server.URL))
	scores, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(2))
	require.NoError(t, err)
	assert.Equal(t, 100.0, scores[0].Score)
	assert.Len(t, scores[0].Reasons, 3)
	assert.Equal(t, 0.0, scores[1].Score)
}

func TestScoreCandidatesDropsInvalidIndexes(t *testing.T) {
	content := `{"0": {"score": 70, "reasons": ["ok"]}, "7": {"score": 90, "reasons": ["out of range"]}, "nope": {"score": 50, "reasons": []}}`
	server := completionServer(t, content, http.StatusOK)
	defer server.Close()

	scorer := NewLLMScorer(scorerConfig(server.URL))
	scores, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(2))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 70.0, scores[0].Score)
}

func TestScoreCandidatesMalformedPayload(t *testing.T) {
	server := completionServer(t, "I cannot answer that in JSON, sorry.", http.StatusOK)
	defer server.Close()

	scorer := NewLLMScorer(scorerConfig(server.URL))
	_, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(2))
	assert.Error(t, err)
}

func TestScoreCandidatesUpstreamError(t *testing.T) {
	server := completionServer(t, "", http.StatusInternalServerError)
	defer server.Close()

	scorer := NewLLMScorer(scorerConfig(server.URL))
	_, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(1))
	assert.Error(t, err)
}

func TestScoreCandidatesMissingAPIKey(t *testing.T) {
	cfg := testConfig() // no key configured
	scorer := NewLLMScorer(cfg)
	_, err := scorer.ScoreCandidates(context.Background(), testProfile(), testCandidates(1))
	assert.Error(t, err)
}

func TestScoreCandidatesEmptyCandidates(t *testing.T) {
	cfg := scorerConfig("http://unused")
	scorer := NewLLMScorer(cfg)
	scores, err := scorer.ScoreCandidates(context.Background(), testProfile(), nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestExtractJSONFromText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"0": {"score": 1}}`, `{"0": {"score": 1}}`},
		{"object with prose", `Sure: {"0": {"score": 1}} hope that helps`, `{"0": {"score": 1}}`},
		{"no json at all", `no structured data here`, `no structured data here`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONFromText(tt.in))
		})
	}
}

func TestParseScorePayloadRejectsNonObject(t *testing.T) {
	_, err := parseScorePayload(`[1,2,3]`, 3)
	assert.Error(t, err)
}
