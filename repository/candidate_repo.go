package repository

import (
	"database/sql"
	"strings"

	"growest_connect/db"
	"growest_connect/models"
)

// ListProjectCandidates returns up to limit active projects matching the
// preferences, in the store's default order. Used when an investor requests
// matches.
func ListProjectCandidates(prefs models.Preferences, limit int) ([]models.Candidate, error) {
	query := `
		SELECT id, title, description, sector, location, funding_goal, owner_id
		FROM projects
		WHERE status = 'active'`
	args := make([]interface{}, 0, 6)

	if len(prefs.Sectors) > 0 {
		query += ` AND sector IN (` + placeholders(len(prefs.Sectors)) + `)`
		for _, s := range prefs.Sectors {
			args = append(args, s)
		}
	}
	if prefs.Location != "" {
		query += ` AND location LIKE ?`
		args = append(args, "%"+prefs.Location+"%")
	}
	if fr := prefs.FundingRange; fr != nil {
		query += ` AND funding_goal BETWEEN ? AND ?`
		args = append(args, fr.Min, fr.Max)
	}

	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, limit)
	for rows.Next() {
		var p models.Project
		var description, location sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &description, &p.Sector, &location, &p.FundingGoal, &p.OwnerID); err != nil {
			return nil, err
		}
		p.Description = description.String
		p.Location = location.String
		candidates = append(candidates, models.CandidateFromProject(p))
	}
	return candidates, rows.Err()
}

// ListInvestorCandidates returns up to limit active investor profiles
// matching the preferences. Used when an entrepreneur requests matches. A
// funding range filter keeps investors whose ticket range overlaps it.
func ListInvestorCandidates(prefs models.Preferences, limit int) ([]models.Candidate, error) {
	query := `
		SELECT user_id, full_name, bio, sector, location, min_investment, max_investment
		FROM investor_profiles
		WHERE status = 'active'`
	args := make([]interface{}, 0, 6)

	if len(prefs.Sectors) > 0 {
		query += ` AND sector IN (` + placeholders(len(prefs.Sectors)) + `)`
		for _, s := range prefs.Sectors {
			args = append(args, s)
		}
	}
	if prefs.Location != "" {
		query += ` AND location LIKE ?`
		args = append(args, "%"+prefs.Location+"%")
	}
	if fr := prefs.FundingRange; fr != nil {
		query += ` AND max_investment >= ? AND min_investment <= ?`
		args = append(args, fr.Min, fr.Max)
	}

	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := db.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := make([]models.Candidate, 0, limit)
	for rows.Next() {
		var ip models.InvestorProfile
		var bio, location sql.NullString
		if err := rows.Scan(&ip.UserID, &ip.FullName, &bio, &ip.Sector, &location, &ip.MinInvestment, &ip.MaxInvestment); err != nil {
			return nil, err
		}
		ip.Bio = bio.String
		ip.Location = location.String
		candidates = append(candidates, models.CandidateFromInvestor(ip))
	}
	return candidates, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
