package services

import (
	"strings"
	"testing"

	"growest_connect/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildMatchPromptDescribesBothSides(t *testing.T) {
	profile := testProfile()
	candidates := []models.Candidate{
		{ID: "p1", TargetType: models.TargetProject, Name: "Solar Farm", Sector: "energy", Location: "Abuja", FundingGoal: 250000},
		{ID: "p2", TargetType: models.TargetProject, Name: "Agri Hub", Sector: "agriculture"},
	}

	prompt := buildMatchPrompt(profile, candidates)

	assert.Contains(t, prompt, "Chidi Eze")
	assert.Contains(t, prompt, "investor")
	assert.Contains(t, prompt, "0. Solar Farm")
	assert.Contains(t, prompt, "1. Agri Hub")
	assert.Contains(t, prompt, "funding: 250000")
	assert.Contains(t, prompt, `"score"`)
	assert.Contains(t, prompt, "0 to 100")
}

func TestBuildMatchPromptTruncatesLongSummaries(t *testing.T) {
	profile := testProfile()
	long := strings.Repeat("word ", 500)
	candidates := []models.Candidate{
		{ID: "p1", TargetType: models.TargetProject, Name: "Verbose", Summary: long},
	}

	prompt := buildMatchPrompt(profile, candidates)
	assert.Less(t, len(prompt), len(long))
}
