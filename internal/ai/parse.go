package ai

import (
	"encoding/json"
	"strings"

	"github.com/thomas-vilte/matechangelog/internal/models"
	"github.com/thomas-vilte/matechangelog/internal/regex"
)

type classificationResponse struct {
	Category         *string `json:"category"`
	TechnicalSummary *string `json:"technicalSummary"`
	Impact           *string `json:"impact"`
	Breaking         *bool   `json:"breaking"`
	SecurityRelated  *bool   `json:"securityRelated"`
}

// ParseClassification reads a model reply. It first looks for a JSON object
// anywhere in the text and falls back to line-oriented field extraction when
// there is none or it does not decode.
func ParseClassification(text string) models.Classification {
	if c, ok := parseJSONClassification(text); ok {
		return c
	}
	return parseTextClassification(text)
}

func parseJSONClassification(text string) (models.Classification, bool) {
	span := regex.JSONObject.FindString(text)
	if span == "" {
		return models.Classification{}, false
	}

	var resp classificationResponse
	if err := json.Unmarshal([]byte(span), &resp); err != nil {
		return models.Classification{}, false
	}

	c := models.DefaultClassification()
	c.Source = models.SourceJSON
	if resp.Category != nil && strings.TrimSpace(*resp.Category) != "" {
		c.Category = models.ParseCategory(*resp.Category)
	}
	if resp.TechnicalSummary != nil {
		c.TechnicalSummary = strings.TrimSpace(*resp.TechnicalSummary)
	}
	if resp.Impact != nil && strings.TrimSpace(*resp.Impact) != "" {
		c.Impact = strings.TrimSpace(*resp.Impact)
	}
	if resp.Breaking != nil {
		c.Breaking = *resp.Breaking
	}
	if resp.SecurityRelated != nil {
		c.SecurityRelated = *resp.SecurityRelated
	}
	return c, true
}

func parseTextClassification(text string) models.Classification {
	c := models.DefaultClassification()
	c.Source = models.SourceRegex

	if m := regex.CategoryField.FindStringSubmatch(text); m != nil {
		c.Category = models.ParseCategory(m[1])
	}
	if m := regex.TechnicalField.FindStringSubmatch(text); m != nil {
		c.TechnicalSummary = strings.TrimSpace(m[1])
	}
	if m := regex.ImpactField.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		c.Impact = strings.TrimSpace(m[1])
	}

	c.Breaking = regex.BreakingKeyword.MatchString(text)
	c.SecurityRelated = regex.SecurityKeyword.MatchString(text)
	return c
}
