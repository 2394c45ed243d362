package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/thomas-vilte/matechangelog/internal/models"
)

func TestParseClassification(t *testing.T) {
	t.Run("should decode a clean JSON reply", func(t *testing.T) {
		text := `{"category":"FEATURE","technicalSummary":"Adds trace_id","impact":"Track payouts","breaking":false,"securityRelated":true}`

		c := ParseClassification(text)

		assert.Equal(t, models.CategoryFeature, c.Category)
		assert.Equal(t, "Adds trace_id", c.TechnicalSummary)
		assert.Equal(t, "Track payouts", c.Impact)
		assert.False(t, c.Breaking)
		assert.True(t, c.SecurityRelated)
		assert.Equal(t, models.SourceJSON, c.Source)
	})

	t.Run("should find JSON wrapped in prose and fences", func(t *testing.T) {
		text := "Sure! Here is the analysis:\n```json\n{\n  \"category\": \"bugfix\",\n  \"technicalSummary\": \"Fixes nil deref\",\n  \"impact\": \"Fewer crashes\"\n}\n```\nHope it helps."

		c := ParseClassification(text)

		assert.Equal(t, models.CategoryBugfix, c.Category)
		assert.Equal(t, "Fixes nil deref", c.TechnicalSummary)
		assert.Equal(t, models.SourceJSON, c.Source)
	})

	t.Run("should default missing and empty JSON fields", func(t *testing.T) {
		c := ParseClassification(`{"category":"","impact":""}`)

		assert.Equal(t, models.CategoryOther, c.Category)
		assert.Empty(t, c.TechnicalSummary)
		assert.Equal(t, models.DefaultImpact, c.Impact)
		assert.False(t, c.Breaking)
		assert.False(t, c.SecurityRelated)
	})

	t.Run("should normalize unknown categories to OTHER", func(t *testing.T) {
		c := ParseClassification(`{"category":"CHORE","impact":"none"}`)

		assert.Equal(t, models.CategoryOther, c.Category)
	})

	t.Run("should fall back to field extraction on prose", func(t *testing.T) {
		text := "Category: PERFORMANCE\nTechnical: Caches the lookup table\nImpact: Faster startup\nNo breaking changes."

		c := ParseClassification(text)

		assert.Equal(t, models.CategoryPerformance, c.Category)
		assert.Equal(t, "Caches the lookup table", c.TechnicalSummary)
		assert.Equal(t, "Faster startup", c.Impact)
		assert.True(t, c.Breaking)
		assert.False(t, c.SecurityRelated)
		assert.Equal(t, models.SourceRegex, c.Source)
	})

	t.Run("should fall back when the JSON span does not decode", func(t *testing.T) {
		text := "category: SECURITY {not json} patches a security hole"

		c := ParseClassification(text)

		assert.Equal(t, models.CategorySecurity, c.Category)
		assert.True(t, c.SecurityRelated)
		assert.Equal(t, models.DefaultImpact, c.Impact)
		assert.Equal(t, models.SourceRegex, c.Source)
	})

	t.Run("should yield defaults for unrelated prose", func(t *testing.T) {
		c := ParseClassification("I could not analyze this commit.")

		assert.Equal(t, models.CategoryOther, c.Category)
		assert.Empty(t, c.TechnicalSummary)
		assert.Equal(t, models.DefaultImpact, c.Impact)
		assert.False(t, c.Breaking)
		assert.False(t, c.SecurityRelated)
	})
}
