package gemini

import (
	"context"
	"strings"
	"time"

	"github.com/thomas-vilte/matechangelog/internal/ai"
	domainErrors "github.com/thomas-vilte/matechangelog/internal/errors"
	"github.com/thomas-vilte/matechangelog/internal/logger"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var _ ai.Completer = (*GeminiCompleter)(nil)

type generateFunc func(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error)

// GeminiCompleter sends classification prompts to Gemini and returns the reply text.
type GeminiCompleter struct {
	*GeminiProvider
	generateFn generateFunc
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "invalid") ||
			strings.Contains(errMsg, "unauthorized") ||
			strings.Contains(errMsg, "api key") ||
			strings.Contains(errMsg, "authentication") {
			return nil, domainErrors.ErrGeminiAPIKeyInvalid.WithError(err)
		}
		return nil, domainErrors.NewAppError(domainErrors.TypeAI, "error creating AI client", err)
	}

	service := &GeminiCompleter{
		GeminiProvider: NewGeminiProvider(client, model),
	}
	service.generateFn = service.defaultGenerate

	return service, nil
}

func (gc *GeminiCompleter) defaultGenerate(ctx context.Context, model string, prompt string) (*genai.GenerateContentResponse, error) {
	genConfig := GetGenerateConfig(model, "application/json")
	return gc.Client.Models.GenerateContent(ctx, model, genai.Text(prompt), genConfig)
}

func (gc *GeminiCompleter) Complete(ctx context.Context, prompt string) (*ai.Completion, error) {
	log := logger.FromContext(ctx)
	model := gc.GetModelName()

	start := time.Now()
	resp, err := gc.generateFn(ctx, model, prompt)
	duration := time.Since(start)
	if err != nil {
		log.Error("gemini API call failed",
			"error", err,
			"model", model,
			"duration_ms", duration.Milliseconds())
		return nil, mapGenerateError(err)
	}

	text := formatResponse(resp)
	if strings.TrimSpace(text) == "" {
		return nil, domainErrors.ErrInvalidAIOutput.
			WithContext("model", model).
			WithContext("reason", "empty response")
	}

	usage := extractUsage(resp, model)
	if usage != nil {
		usage.DurationMs = duration.Milliseconds()
	}

	log.Debug("gemini completion received",
		"model", model,
		"response_length", len(text),
		"duration_ms", duration.Milliseconds())

	return &ai.Completion{Text: text, Usage: usage}, nil
}
