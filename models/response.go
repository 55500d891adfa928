package models

import "time"

// MatchResponse is the success body of POST /api/match/advanced. Partial
// scorer/persistence/notification failures still produce this shape; only
// profile lookup and candidate fetch failures yield an ErrorResponse.
type MatchResponse struct {
	Success    bool          `json:"success"`
	Matches    []ScoredMatch `json:"matches"`
	Total      int           `json:"total"`
	AIAnalyzed int           `json:"aiAnalyzed"`
	Timestamp  string        `json:"timestamp"`
}

// ErrorResponse is the failure body for every endpoint.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// DataResponse wraps the secondary read endpoints (persisted matches,
// notifications).
type DataResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func NewMatchResponse(result *MatchResult) MatchResponse {
	matches := result.Matches
	if matches == nil {
		matches = []ScoredMatch{}
	}
	return MatchResponse{
		Success:    true,
		Matches:    matches,
		Total:      result.Total,
		AIAnalyzed: result.AIAnalyzed,
		Timestamp:  result.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func NewDataResponse(data interface{}) DataResponse {
	return DataResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
