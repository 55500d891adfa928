package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"growest_connect/logger"
	"growest_connect/models"
	"growest_connect/utils"

	"github.com/redis/go-redis/v9"
)

// ScoreCache keeps AI-derived scores in Redis so that repeated runs for the
// same user and preferences reuse earlier assessments instead of spending
// another completion call. Strictly best-effort: every cache error is logged
// and treated as a miss.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewScoreCache(client *redis.Client, ttl time.Duration) *ScoreCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ScoreCache{client: client, ttl: ttl}
}

func (c *ScoreCache) key(userID, prefsHash, targetID string) string {
	return fmt.Sprintf("match:score:%s:%s:%s", userID, prefsHash, targetID)
}

// GetScores looks up cached assessments for the candidate set, keyed by
// candidate index. Misses are simply absent from the result.
func (c *ScoreCache) GetScores(ctx context.Context, userID string, prefs models.Preferences, candidates []models.Candidate) map[int]models.AIScore {
	scores := make(map[int]models.AIScore)
	if c == nil || c.client == nil {
		return scores
	}

	prefsHash := utils.HashJSON(prefs)
	for i, candidate := range candidates {
		val, err := c.client.Get(ctx, c.key(userID, prefsHash, candidate.ID)).Result()
		if err != nil {
			continue
		}
		var score models.AIScore
		if err := json.Unmarshal([]byte(val), &score); err != nil {
			logger.Warn("dropping unreadable cached score", "user_id", userID, "target_id", candidate.ID, "error", err)
			continue
		}
		scores[i] = score
	}
	return scores
}

// PutScores caches fresh assessments for later runs.
func (c *ScoreCache) PutScores(ctx context.Context, userID string, prefs models.Preferences, candidates []models.Candidate, scores map[int]models.AIScore) {
	if c == nil || c.client == nil {
		return
	}

	prefsHash := utils.HashJSON(prefs)
	for i, score := range scores {
		if i < 0 || i >= len(candidates) {
			continue
		}
		data, err := json.Marshal(score)
		if err != nil {
			continue
		}
		if err := c.client.Set(ctx, c.key(userID, prefsHash, candidates[i].ID), data, c.ttl).Err(); err != nil {
			logger.Warn("score cache write failed", "user_id", userID, "target_id", candidates[i].ID, "error", err)
		}
	}
}
