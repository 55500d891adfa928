package repository

import (
	"database/sql"
	"errors"

	"growest_connect/db"
	"growest_connect/models"
)

// GetProfile loads the requesting user's profile. A missing profile is a
// fatal pipeline error, surfaced as sql.ErrNoRows.
func GetProfile(userID string) (*models.UserProfile, error) {
	row := db.DB.QueryRow(`
		SELECT user_id, full_name, role, bio, sector, location, updated_at
		FROM profiles WHERE user_id = ?`, userID)

	p := &models.UserProfile{}
	var bio, sector, location sql.NullString
	if err := row.Scan(&p.UserID, &p.FullName, &p.Role, &bio, &sector, &location, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	p.Bio = bio.String
	p.Sector = sector.String
	p.Location = location.String
	return p, nil
}
