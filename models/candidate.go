package models

// TargetType discriminates what kind of record a candidate (or persisted
// match) points at.
type TargetType string

const (
	TargetProject TargetType = "project"
	TargetProfile TargetType = "profile"
)

// Candidate is the common shape the pipeline ranks, tagged by TargetType.
// Projects and investor profiles are converted through the constructors below
// so downstream stages never inspect the source row type.
type Candidate struct {
	ID          string     `json:"id"`
	TargetType  TargetType `json:"targetType"`
	Name        string     `json:"name"`
	Sector      string     `json:"sector"`
	Location    string     `json:"location,omitempty"`
	FundingGoal float64    `json:"fundingGoal,omitempty"`
	OwnerID     string     `json:"ownerId,omitempty"`
	Summary     string     `json:"summary,omitempty"`
}

// Project is a row of the projects table.
type Project struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Sector      string  `json:"sector"`
	Location    string  `json:"location"`
	FundingGoal float64 `json:"funding_goal"`
	Status      string  `json:"status"`
	OwnerID     string  `json:"owner_id"`
}

// InvestorProfile is a row of the investor_profiles table.
type InvestorProfile struct {
	UserID        string  `json:"user_id"`
	FullName      string  `json:"full_name"`
	Bio           string  `json:"bio"`
	Sector        string  `json:"sector"`
	Location      string  `json:"location"`
	MinInvestment float64 `json:"min_investment"`
	MaxInvestment float64 `json:"max_investment"`
	Status        string  `json:"status"`
}

// CandidateFromProject converts a project row for ranking by an investor.
func CandidateFromProject(p Project) Candidate {
	return Candidate{
		ID:          p.ID,
		TargetType:  TargetProject,
		Name:        p.Title,
		Sector:      p.Sector,
		Location:    p.Location,
		FundingGoal: p.FundingGoal,
		OwnerID:     p.OwnerID,
		Summary:     p.Description,
	}
}

// CandidateFromInvestor converts an investor profile row for ranking by an
// entrepreneur. FundingGoal carries the investor's maximum ticket size so the
// prompt builder has a single numeric field to describe.
func CandidateFromInvestor(ip InvestorProfile) Candidate {
	return Candidate{
		ID:          ip.UserID,
		TargetType:  TargetProfile,
		Name:        ip.FullName,
		Sector:      ip.Sector,
		Location:    ip.Location,
		FundingGoal: ip.MaxInvestment,
		OwnerID:     ip.UserID,
		Summary:     ip.Bio,
	}
}
