package services

import (
	"fmt"
	"strings"

	"growest_connect/models"
	"growest_connect/utils"
)

// Per-candidate budget for free-text fields so the whole prompt stays inside
// the completion API's context window.
const candidateSummaryTokens = 60

// buildMatchPrompt describes the requesting user and every candidate in one
// prompt and asks for a JSON object keyed by candidate index.
func buildMatchPrompt(profile *models.UserProfile, candidates []models.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a matching assistant for an investment marketplace connecting entrepreneurs and investors.\n\n")
	fmt.Fprintf(&b, "Requesting user:\n")
	fmt.Fprintf(&b, "- Name: %s\n", profile.FullName)
	fmt.Fprintf(&b, "- Role: %s\n", profile.Role)
	if profile.Sector != "" {
		fmt.Fprintf(&b, "- Sector: %s\n", profile.Sector)
	}
	if profile.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", profile.Location)
	}
	if profile.Bio != "" {
		fmt.Fprintf(&b, "- About: %s\n", utils.TruncateByTokens(profile.Bio, candidateSummaryTokens))
	}

	fmt.Fprintf(&b, "\nCandidates:\n")
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s (%s)", i, c.Name, c.TargetType)
		if c.Sector != "" {
			fmt.Fprintf(&b, ", sector: %s", c.Sector)
		}
		if c.Location != "" {
			fmt.Fprintf(&b, ", location: %s", c.Location)
		}
		if c.FundingGoal > 0 {
			fmt.Fprintf(&b, ", funding: %.0f", c.FundingGoal)
		}
		if c.Summary != "" {
			fmt.Fprintf(&b, ". %s", utils.TruncateByTokens(c.Summary, candidateSummaryTokens))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Assess the compatibility between the requesting user and each candidate.
Respond with only a JSON object mapping each candidate index to an assessment:
{
  "0": {"score": 85, "reasons": ["reason one", "reason two"]},
  "1": {"score": 42, "reasons": ["reason one", "reason two", "reason three"]}
}
Scores are integers from 0 to 100. Give 2 to 3 short reasons per candidate.
`)

	return b.String()
}
