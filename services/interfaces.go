package services

import (
	"context"

	"growest_connect/models"
)

// Scorer produces AI compatibility assessments for a candidate set, keyed by
// the candidate's index in the fetched slice. A failed or unavailable scorer
// returns an error; the pipeline logs it and falls back to baseline scores.
type Scorer interface {
	ScoreCandidates(ctx context.Context, profile *models.UserProfile, candidates []models.Candidate) (map[int]models.AIScore, error)
}

// MatchGenerator runs the full matching pipeline for one request.
type MatchGenerator interface {
	GenerateMatches(ctx context.Context, req *models.MatchRequest) (*models.MatchResult, error)
}
