package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"growest_connect/db"
	"growest_connect/models"
)

// UpsertMatch writes one ranked match keyed by (user_id, target_id,
// target_type). Recomputation overwrites score, reasons and the preferences
// snapshot instead of duplicating the row.
func UpsertMatch(m *models.PersistedMatch) error {
	reasonsJSON, err := json.Marshal(m.MatchReasons)
	if err != nil {
		return err
	}
	prefsJSON, err := json.Marshal(m.PreferencesUsed)
	if err != nil {
		return err
	}

	_, err = db.DB.Exec(`
		INSERT INTO matches (user_id, target_id, target_type, match_score, match_reasons, preferences_used, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())
		ON DUPLICATE KEY UPDATE
			match_score = VALUES(match_score),
			match_reasons = VALUES(match_reasons),
			preferences_used = VALUES(preferences_used),
			updated_at = NOW()
	`, m.UserID, m.TargetID, string(m.TargetType), m.MatchScore, string(reasonsJSON), string(prefsJSON))
	return err
}

// GetMatchesForUser returns the user's persisted matches, best first.
func GetMatchesForUser(userID string) ([]models.PersistedMatch, error) {
	rows, err := db.DB.Query(`
		SELECT user_id, target_id, target_type, match_score, match_reasons, preferences_used, updated_at
		FROM matches
		WHERE user_id = ?
		ORDER BY match_score DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.PersistedMatch, 0)
	for rows.Next() {
		var m models.PersistedMatch
		var reasonsJSON, prefsJSON sql.NullString
		if err := rows.Scan(&m.UserID, &m.TargetID, &m.TargetType, &m.MatchScore, &reasonsJSON, &prefsJSON, &m.UpdatedAt); err != nil {
			return nil, err
		}
		if reasonsJSON.Valid {
			if err := json.Unmarshal([]byte(reasonsJSON.String), &m.MatchReasons); err != nil {
				m.MatchReasons = nil
			}
		}
		if prefsJSON.Valid {
			if err := json.Unmarshal([]byte(prefsJSON.String), &m.PreferencesUsed); err != nil {
				m.PreferencesUsed = models.Preferences{}
			}
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// ListStaleMatchUsers returns users whose newest match is older than the
// given age. The scheduler re-runs the pipeline for them.
func ListStaleMatchUsers(staleAfterHours int) ([]string, error) {
	rows, err := db.DB.Query(`
		SELECT user_id
		FROM matches
		GROUP BY user_id
		HAVING MAX(updated_at) < DATE_SUB(NOW(), INTERVAL ? HOUR)
	`, staleAfterHours)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			continue
		}
		users = append(users, userID)
	}
	return users, rows.Err()
}

// GetLatestRequest rebuilds a MatchRequest from the user's newest persisted
// match: the stored preferences snapshot plus the role implied by the target
// type (investors are matched to projects, entrepreneurs to profiles).
func GetLatestRequest(userID string) (*models.MatchRequest, error) {
	row := db.DB.QueryRow(`
		SELECT target_type, preferences_used
		FROM matches
		WHERE user_id = ?
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID)

	var targetType string
	var prefsJSON sql.NullString
	if err := row.Scan(&targetType, &prefsJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}

	req := &models.MatchRequest{UserID: userID}
	if targetType == string(models.TargetProject) {
		req.Role = models.RoleInvestor
	} else {
		req.Role = models.RoleEntrepreneur
	}
	if prefsJSON.Valid && prefsJSON.String != "" {
		if err := json.Unmarshal([]byte(prefsJSON.String), &req.Preferences); err != nil {
			req.Preferences = models.Preferences{}
		}
	}
	return req, nil
}
