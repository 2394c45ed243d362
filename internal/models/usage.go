package models

// TokenUsage is what one completion call consumed, as reported by the provider.
type TokenUsage struct {
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
	Model        string `json:"model,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
}
