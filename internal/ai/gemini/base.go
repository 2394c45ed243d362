package gemini

import (
	"google.golang.org/genai"
)

// GeminiProvider holds the client and model shared by Gemini backed services.
type GeminiProvider struct {
	Client *genai.Client
	model  string
}

func NewGeminiProvider(client *genai.Client, model string) *GeminiProvider {
	return &GeminiProvider{
		Client: client,
		model:  model,
	}
}

func (g *GeminiProvider) GetModelName() string {
	return g.model
}

func (g *GeminiProvider) GetProviderName() string {
	return "gemini"
}
