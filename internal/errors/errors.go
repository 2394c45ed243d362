package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeInput         ErrorType = "INPUT"
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeVCS           ErrorType = "VCS"
	TypeAI            ErrorType = "AI"
	TypePersistence   ErrorType = "PERSISTENCE"
	TypeInternal      ErrorType = "INTERNAL"
)

// AppError represents a domain-level error with a type and an underlying error
type AppError struct {
	Type       ErrorType
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same sentinel, ignoring context and wrapped errors.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Message == t.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Type:       e.Type,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(t ErrorType, msg string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: msg,
		Err:     err,
	}
}

// TypeOf returns the ErrorType of the first AppError in the chain, or TypeInternal.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Type
	}
	return TypeInternal
}

// Message returns the client-safe message of an error: the AppError message when
// there is one, a generic text otherwise.
func Message(err error) string {
	var appErr *AppError
	if stdErrors.As(err, &appErr) {
		return appErr.Message
	}
	return "Unknown error occurred"
}

// HTTPStatus maps an error onto the status code the HTTP boundary answers with.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case stdErrors.Is(err, ErrRepositoryNotFound), stdErrors.Is(err, ErrChangelogNotFound):
		return http.StatusNotFound
	case TypeOf(err) == TypeInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Input errors
var (
	ErrInvalidRepoURL = NewAppError(TypeInput, "invalid GitHub repository URL", nil).
				WithSuggestion("Use the form https://github.com/<owner>/<repo>")

	ErrMissingField = NewAppError(TypeInput, "missing required field", nil)

	ErrInvalidDate = NewAppError(TypeInput, "invalid date", nil).
			WithSuggestion("Use YYYY-MM-DD or an RFC3339 timestamp")

	ErrInvalidDateRange = NewAppError(TypeInput, "fromDate must not be after toDate", nil)

	ErrInvalidCategory = NewAppError(TypeInput, "unknown change type", nil).
				WithSuggestion("Use one of FEATURE, BUGFIX, ENHANCEMENT, REFACTOR, DOCS, BREAKING, SECURITY, PERFORMANCE, DEPENDENCY, OTHER")
)

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is missing", nil).
				WithSuggestion("Set GEMINI_API_KEY or [ai] api_key in the config file")

	ErrInvalidConfig = NewAppError(TypeConfiguration, "invalid configuration", nil)
)

// VCS errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository URL and access permissions")

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a personal access token for higher limits")

	ErrTransientNetwork = NewAppError(TypeVCS, "GitHub API unavailable", nil).
				WithSuggestion("This is likely a temporary issue, please try again")

	ErrUpstreamFetch = NewAppError(TypeVCS, "failed to fetch commits", nil)
)

// AI errors
var (
	ErrAIGeneration = NewAppError(TypeAI, "AI generation failed", nil).
			WithSuggestion("Try again or check your API key configuration")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil)

	ErrGeminiAPIKeyInvalid = NewAppError(TypeAI, "Gemini API key is invalid", nil).
				WithSuggestion("Get a valid API key at: https://aistudio.google.com/app/apikey")

	ErrGeminiQuotaExceeded = NewAppError(TypeAI, "Gemini API quota exceeded", nil).
				WithSuggestion("Wait for quota to reset or raise rate_limit.request_delay_ms")
)

// Persistence errors
var (
	ErrPersistence = NewAppError(TypePersistence, "failed to persist changelog", nil)

	ErrQuery = NewAppError(TypePersistence, "failed to query changelogs", nil)

	ErrChangelogNotFound = NewAppError(TypePersistence, "Changelog not found", nil)

	ErrDatabaseOpen = NewAppError(TypePersistence, "failed to open database", nil).
			WithSuggestion("Check [database] path and its directory permissions")
)
