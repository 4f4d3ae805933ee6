package challenges

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestShapedFillsDefaultsOnEmptyRow(t *testing.T) {
	var c Challenge
	shaped := c.Shaped()

	assert.Equal(t, "Untitled Challenge", shaped.Title)
	assert.Equal(t, "No description available", shaped.Description)
	assert.Equal(t, "No description available", shaped.LongDescription)
	assert.Equal(t, "easy", shaped.Difficulty)
	assert.Equal(t, "medium", shaped.Frequency)
	assert.Equal(t, "Unknown", shaped.Author)
	assert.False(t, shaped.CreatedAt.IsZero())

	// List fields are empty slices, never nil.
	assert.NotNil(t, shaped.Tags)
	assert.NotNil(t, shaped.Companies)
	assert.NotNil(t, shaped.Deliverables)
	assert.NotNil(t, shaped.Resources)
	assert.NotNil(t, shaped.Requirements)
	assert.Empty(t, shaped.Tags)

	assert.Equal(t, defaultInsights(), shaped.Insights)
}

func TestShapedKeepsPopulatedFields(t *testing.T) {
	c := Challenge{
		Title:       "Banking App Dashboard",
		Description: "Design a dark-mode dashboard",
		Difficulty:  "hard",
		Frequency:   "high",
		Author:      "LeetUIUX Team",
		Tags:        datatypes.JSON(`["mobile","fintech"]`),
		CreatedAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	shaped := c.Shaped()

	assert.Equal(t, "Banking App Dashboard", shaped.Title)
	assert.Equal(t, "hard", shaped.Difficulty)
	assert.Equal(t, "high", shaped.Frequency)
	assert.Equal(t, "LeetUIUX Team", shaped.Author)
	assert.Equal(t, []string{"mobile", "fintech"}, shaped.Tags)
	// LongDescription falls back to the short description.
	assert.Equal(t, "Design a dark-mode dashboard", shaped.LongDescription)
}

func TestShapedFillsPartialInsights(t *testing.T) {
	c := Challenge{
		Insights: datatypes.JSON(`{"interview_frequency":"high","companies":[{"name":"Acme","reports":4}]}`),
	}
	shaped := c.Shaped()

	assert.Equal(t, "high", shaped.Insights.InterviewFrequency)
	assert.Equal(t, "N/A", shaped.Insights.LastReported)
	assert.Equal(t, "UI/UX Designer", shaped.Insights.CommonRole)
	assert.Equal(t, "Take-home", shaped.Insights.InterviewStage)
	assert.Equal(t, []CompanyReport{{Name: "Acme", Reports: 4}}, shaped.Insights.Companies)
}

func TestShapedIgnoresMalformedInsights(t *testing.T) {
	c := Challenge{Insights: datatypes.JSON(`not json`)}
	assert.Equal(t, defaultInsights(), c.Shaped().Insights)
}

func TestStringListHandlesBadJSON(t *testing.T) {
	assert.Equal(t, []string{}, stringList(nil))
	assert.Equal(t, []string{}, stringList(datatypes.JSON(`"scalar"`)))
	assert.Equal(t, []string{}, stringList(datatypes.JSON(`null`)))
	assert.Equal(t, []string{"a"}, stringList(datatypes.JSON(`["a"]`)))
}
