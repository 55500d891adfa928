package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"growest_connect/config"
	"growest_connect/logger"
	"growest_connect/models"
	"growest_connect/utils"
)

// OpenAI-compatible chat completion wire structures.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// LLMScorer scores candidates through an external chat-completion API.
// Exactly one outbound call per pipeline run, no retries.
type LLMScorer struct {
	cfg    *config.Config
	client *http.Client
}

func NewLLMScorer(cfg *config.Config) *LLMScorer {
	timeout := time.Duration(cfg.LLM.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &LLMScorer{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// ScoreCandidates asks the completion API for a score and reasons per
// candidate index. Every failure mode returns an error and no scores; the
// caller degrades to baseline scoring.
func (s *LLMScorer) ScoreCandidates(ctx context.Context, profile *models.UserProfile, candidates []models.Candidate) (map[int]models.AIScore, error) {
	if s.cfg.LLM.APIKey == "" {
		return nil, fmt.Errorf("llm api key not configured")
	}
	if len(candidates) == 0 {
		return map[int]models.AIScore{}, nil
	}

	prompt := buildMatchPrompt(profile, candidates)

	maxTokens := s.cfg.LLM.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	temperature := s.cfg.LLM.Temperature
	if temperature <= 0 {
		temperature = 0.3
	}

	reqBody := chatCompletionRequest{
		Model: s.cfg.LLM.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := s.cfg.LLM.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.LLM.APIKey)

	startTime := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Info("completion response received",
		"status_code", resp.StatusCode,
		"response_size", len(body),
		"duration_ms", time.Since(startTime).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion API returned %d: %s", resp.StatusCode, utils.TruncateForLog(string(body), 500))
	}

	var ccResp chatCompletionResponse
	if err := json.Unmarshal(body, &ccResp); err != nil {
		return nil, fmt.Errorf("decode completion response: %w", err)
	}
	if len(ccResp.Choices) == 0 {
		return nil, fmt.Errorf("completion response has no choices")
	}

	content := ccResp.Choices[0].Message.Content
	logger.Debug("completion content preview", "content", utils.TruncateForLog(content, 200))

	scores, err := parseScorePayload(content, len(candidates))
	if err != nil {
		return nil, err
	}

	logger.Info("candidates scored",
		"scored", len(scores),
		"candidates", len(candidates),
		"tokens_total", ccResp.Usage.TotalTokens)

	return scores, nil
}

// parseScorePayload extracts the {index: {score, reasons}} mapping from the
// model output. Individual malformed entries are skipped so one bad candidate
// does not discard the rest; an unparseable payload fails the whole call.
func parseScorePayload(content string, candidateCount int) (map[int]models.AIScore, error) {
	jsonContent := extractJSONFromText(content)

	var raw map[string]models.AIScore
	if err := json.Unmarshal([]byte(jsonContent), &raw); err != nil {
		return nil, fmt.Errorf("parse score payload: %w", err)
	}

	scores := make(map[int]models.AIScore, len(raw))
	for key, assessment := range raw {
		idx, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil || idx < 0 || idx >= candidateCount {
			logger.Warn("dropping assessment with invalid candidate index", "key", key)
			continue
		}
		scores[idx] = normalizeScore(assessment)
	}
	return scores, nil
}

// normalizeScore clamps the score into [0,100] and keeps at most 3 reasons.
func normalizeScore(a models.AIScore) models.AIScore {
	if a.Score < 0 {
		a.Score = 0
	}
	if a.Score > 100 {
		a.Score = 100
	}
	if len(a.Reasons) > 3 {
		a.Reasons = a.Reasons[:3]
	}
	return a
}

// extractJSONFromText finds the JSON object inside free-form model output,
// handling both bare objects and ```json fenced blocks.
func extractJSONFromText(text string) string {
	startIdx := strings.Index(text, "{")
	endIdx := strings.LastIndex(text, "}")
	if startIdx >= 0 && endIdx > startIdx {
		return text[startIdx : endIdx+1]
	}

	startMarker := "```json"
	endMarker := "```"
	startIdx = strings.Index(text, startMarker)
	if startIdx >= 0 {
		startIdx += len(startMarker)
		if endIdx := strings.Index(text[startIdx:], endMarker); endIdx > 0 {
			return strings.TrimSpace(text[startIdx : startIdx+endIdx])
		}
	}

	return text
}
