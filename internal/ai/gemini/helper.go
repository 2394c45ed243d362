package gemini

import (
	"strings"

	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/models"
	"google.golang.org/genai"
)

// extractUsage extracts usage metadata from the Gemini response
func extractUsage(resp *genai.GenerateContentResponse, model string) *models.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	return &models.TokenUsage{
		InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
		OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		Model:        model,
	}
}

// GetGenerateConfig returns the generation settings used for classification calls.
func GetGenerateConfig(modelName string, responseType string) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     float32Ptr(0.3),
		MaxOutputTokens: int32(2048),
	}

	if responseType == "application/json" {
		config.ResponseMIMEType = "application/json"
	}

	if strings.HasPrefix(modelName, "gemini-2.5") || strings.HasPrefix(modelName, "gemini-3") {
		config.ThinkingConfig = &genai.ThinkingConfig{IncludeThoughts: false}
	}

	return config
}

func float32Ptr(f float32) *float32 {
	return &f
}

// formatResponse concatenates the text parts of every candidate, skipping thoughts.
func formatResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var formattedContent strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought {
				continue
			}
			if part.Text != "" {
				formattedContent.WriteString(part.Text)
			}
		}
	}
	return formattedContent.String()
}

// mapGenerateError converts a genai error into the AI error taxonomy.
func mapGenerateError(err error) *domainErrors.AppError {
	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "quota") ||
		strings.Contains(errMsg, "rate limit") ||
		strings.Contains(errMsg, "resource exhausted") ||
		strings.Contains(errMsg, "resource_exhausted") {
		return domainErrors.ErrGeminiQuotaExceeded.WithError(err)
	}

	if strings.Contains(errMsg, "api key") ||
		strings.Contains(errMsg, "api_key") ||
		strings.Contains(errMsg, "unauthorized") ||
		strings.Contains(errMsg, "permission denied") {
		return domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
	}

	return domainErrors.ErrAIGeneration.WithError(err)
}
