package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Role of the requesting user. Investors are matched against projects,
// entrepreneurs against investor profiles.
type Role string

const (
	RoleInvestor     Role = "investor"
	RoleEntrepreneur Role = "entrepreneur"
)

// FundingRange is serialized on the wire as a two-element [min, max] array.
type FundingRange struct {
	Min float64
	Max float64
}

func (f FundingRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{f.Min, f.Max})
}

func (f *FundingRange) UnmarshalJSON(b []byte) error {
	var arr []float64
	if err := json.Unmarshal(b, &arr); err != nil {
		return err
	}
	if len(arr) != 2 {
		return fmt.Errorf("fundingRange must contain exactly two elements, got %d", len(arr))
	}
	f.Min, f.Max = arr[0], arr[1]
	return nil
}

// Preferences narrows the candidate pool. All filters are optional.
type Preferences struct {
	Sectors      []string      `json:"sectors,omitempty"`
	Location     string        `json:"location,omitempty"`
	FundingRange *FundingRange `json:"fundingRange,omitempty"`
}

// MatchRequest is the body of POST /api/match/advanced.
type MatchRequest struct {
	UserID      string      `json:"requestingUserId"`
	Role        Role        `json:"requestingUserRole"`
	Preferences Preferences `json:"preferences"`
}

func (r MatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserID, validation.Required),
		validation.Field(&r.Role, validation.Required, validation.In(RoleInvestor, RoleEntrepreneur)),
		validation.Field(&r.Preferences, validation.By(validatePreferences)),
	)
}

func validatePreferences(value interface{}) error {
	prefs, ok := value.(Preferences)
	if !ok {
		return errors.New("invalid preferences")
	}
	if fr := prefs.FundingRange; fr != nil {
		if fr.Min < 0 {
			return errors.New("fundingRange minimum cannot be negative")
		}
		if fr.Max < fr.Min {
			return errors.New("fundingRange maximum cannot be below minimum")
		}
	}
	return nil
}

// AIScore is one candidate's assessment from the language model.
type AIScore struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// ScoredMatch is a ranked candidate with the candidate's own fields merged
// into the wire object.
type ScoredMatch struct {
	Candidate
	Score     float64  `json:"score"`
	Reasons   []string `json:"reasons"`
	AIDerived bool     `json:"aiDerived"`
}

// MatchResult is what one pipeline run produces.
type MatchResult struct {
	Matches     []ScoredMatch
	Total       int
	AIAnalyzed  int
	GeneratedAt time.Time
}

// PersistedMatch mirrors one row of the matches table, unique per
// (user_id, target_id, target_type).
type PersistedMatch struct {
	UserID          string      `json:"userId"`
	TargetID        string      `json:"targetId"`
	TargetType      TargetType  `json:"targetType"`
	MatchScore      float64     `json:"matchScore"`
	MatchReasons    []string    `json:"matchReasons"`
	PreferencesUsed Preferences `json:"preferencesUsed"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}
