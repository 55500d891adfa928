package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"growest_connect/config"
	"growest_connect/logger"
	"growest_connect/models"
	"growest_connect/repository"
)

// Reasons attached to candidates the language model did not assess.
var baselineReasons = []string{
	"Matches your stated preferences",
	"Active on the platform",
}

// MatchingService runs the matching pipeline: fetch candidates, score them,
// rank, persist, notify. One synchronous pass per request.
type MatchingService struct {
	cfg    *config.Config
	scorer Scorer
	cache  *ScoreCache

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

func NewMatchingService(cfg *config.Config, scorer Scorer, cache *ScoreCache) *MatchingService {
	return &MatchingService{
		cfg:    cfg,
		scorer: scorer,
		cache:  cache,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// WithRand replaces the baseline randomness source. Tests pin the seed here.
func (s *MatchingService) WithRand(rng *rand.Rand) *MatchingService {
	s.rng = rng
	return s
}

// GenerateMatches executes the full pipeline for one request. Only profile
// lookup and candidate fetch failures abort it; scoring degrades to baseline
// and persistence/notification failures are logged and dropped.
func (s *MatchingService) GenerateMatches(ctx context.Context, req *models.MatchRequest) (*models.MatchResult, error) {
	profile, err := repository.GetProfile(req.UserID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}

	var candidates []models.Candidate
	var targetType models.TargetType
	switch req.Role {
	case models.RoleInvestor:
		candidates, err = repository.ListProjectCandidates(req.Preferences, s.cfg.Matching.CandidateLimit)
		targetType = models.TargetProject
	default:
		candidates, err = repository.ListInvestorCandidates(req.Preferences, s.cfg.Matching.CandidateLimit)
		targetType = models.TargetProfile
	}
	if err != nil {
		return nil, fmt.Errorf("candidate fetch failed: %w", err)
	}

	logger.Info("candidates fetched",
		"user_id", req.UserID,
		"role", req.Role,
		"target_type", targetType,
		"count", len(candidates))

	if len(candidates) == 0 {
		return &models.MatchResult{
			Matches:     []models.ScoredMatch{},
			GeneratedAt: time.Now(),
		}, nil
	}

	aiScores := s.collectScores(ctx, profile, req, candidates)

	matches := s.rank(candidates, aiScores)

	aiAnalyzed := 0
	for _, m := range matches {
		if m.AIDerived {
			aiAnalyzed++
		}
	}

	s.persist(req, matches)
	s.notify(req.UserID, matches)

	return &models.MatchResult{
		Matches:     matches,
		Total:       len(matches),
		AIAnalyzed:  aiAnalyzed,
		GeneratedAt: time.Now(),
	}, nil
}

// collectScores merges cached assessments with one scorer call for whatever
// the cache missed. Scorer failure leaves the missing candidates on the
// baseline path and never aborts the run.
func (s *MatchingService) collectScores(ctx context.Context, profile *models.UserProfile, req *models.MatchRequest, candidates []models.Candidate) map[int]models.AIScore {
	scores := s.cache.GetScores(ctx, req.UserID, req.Preferences, candidates)
	if len(scores) == len(candidates) {
		logger.Info("all candidate scores served from cache", "user_id", req.UserID, "count", len(scores))
		return scores
	}

	fresh, err := s.scorer.ScoreCandidates(ctx, profile, candidates)
	if err != nil {
		logger.Warn("scorer unavailable, falling back to baseline scores",
			"user_id", req.UserID,
			"cached", len(scores),
			"error", err)
		return scores
	}

	s.cache.PutScores(ctx, req.UserID, req.Preferences, candidates, fresh)

	// Fresh assessments win over cached ones.
	for i, score := range fresh {
		scores[i] = score
	}
	return scores
}

// rank assigns every candidate its final score, orders by score descending
// and truncates to the configured top N. The sort is stable, so candidates
// with equal scores keep their fetch order.
func (s *MatchingService) rank(candidates []models.Candidate, aiScores map[int]models.AIScore) []models.ScoredMatch {
	matches := make([]models.ScoredMatch, 0, len(candidates))
	for i, candidate := range candidates {
		if assessment, ok := aiScores[i]; ok {
			matches = append(matches, models.ScoredMatch{
				Candidate: candidate,
				Score:     assessment.Score,
				Reasons:   assessment.Reasons,
				AIDerived: true,
			})
			continue
		}
		matches = append(matches, models.ScoredMatch{
			Candidate: candidate,
			Score:     s.baselineScore(),
			Reasons:   baselineReasons,
			AIDerived: false,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > s.cfg.Matching.TopN {
		matches = matches[:s.cfg.Matching.TopN]
	}
	return matches
}

// baselineScore draws uniformly from [BaselineMin, BaselineMax).
func (s *MatchingService) baselineScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	min := s.cfg.Matching.BaselineMin
	max := s.cfg.Matching.BaselineMax
	return min + s.rng.Float64()*(max-min)
}

// persist upserts each ranked match. Individual failures are logged and the
// remaining upserts continue.
func (s *MatchingService) persist(req *models.MatchRequest, matches []models.ScoredMatch) {
	saved := 0
	for _, m := range matches {
		err := repository.UpsertMatch(&models.PersistedMatch{
			UserID:          req.UserID,
			TargetID:        m.ID,
			TargetType:      m.TargetType,
			MatchScore:      m.Score,
			MatchReasons:    m.Reasons,
			PreferencesUsed: req.Preferences,
		})
		if err != nil {
			logger.Error("match upsert failed", "user_id", req.UserID, "target_id", m.ID, "error", err)
			continue
		}
		saved++
	}
	logger.Info("matches persisted", "user_id", req.UserID, "saved", saved, "total", len(matches))
}

// notify inserts a single summary notification when any match scores strictly
// above the threshold. Insert failure is logged and swallowed.
func (s *MatchingService) notify(userID string, matches []models.ScoredMatch) {
	threshold := s.cfg.Matching.NotifyThreshold

	count := 0
	sum := 0.0
	for _, m := range matches {
		if m.Score > threshold {
			count++
			sum += m.Score
		}
	}
	if count == 0 {
		return
	}

	avg := int(math.Round(sum / float64(count)))
	notification := &models.Notification{
		UserID:  userID,
		Type:    models.NotificationTypeNewMatch,
		Title:   "New high-quality matches",
		Message: fmt.Sprintf("We found %d strong matches for you with an average compatibility score of %d.", count, avg),
		Data: models.NotificationData{
			MatchCount:   count,
			AverageScore: avg,
		},
	}

	if err := repository.InsertNotification(notification); err != nil {
		logger.Error("notification insert failed", "user_id", userID, "error", err)
		return
	}
	logger.Info("match notification created", "user_id", userID, "match_count", count, "average_score", avg)
}
