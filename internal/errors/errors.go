package errors

import "fmt"

// ErrorType defines the category of the error
type ErrorType string

const (
	TypeConfiguration ErrorType = "CONFIGURATION"
	TypeAI            ErrorType = "AI"
	TypeVCS           ErrorType = "VCS"
	TypeFetch         ErrorType = "FETCH"
	TypeDrift         ErrorType = "DRIFT"
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
	var msg string
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Err)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}

	if e.Context != nil {
		if detail, ok := e.Context["detail"].(string); ok && detail != "" {
			msg += fmt.Sprintf(" - %s", detail)
		}
	}

	return msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on type and message so that sentinels survive WithError/WithContext copies.
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
	ctx := make(map[string]interface{})
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

// Configuration errors
var (
	ErrAPIKeyMissing = NewAppError(TypeConfiguration, "AI API key is missing", nil).
				WithSuggestion("Set DOCDRIFT_AI_API_KEY (or OPENAI_API_KEY / GEMINI_API_KEY)")

	ErrDocSourcesMissing = NewAppError(TypeConfiguration, "documentation sources are missing", nil).
				WithSuggestion(`Set DOCDRIFT_DOC_SOURCES to a JSON array, e.g. [{"title":"README","url":"https://..."}]`)

	ErrDocSourcesInvalid = NewAppError(TypeConfiguration, "documentation sources are not a valid non-empty JSON array", nil).
				WithSuggestion(`Each entry needs a "title" and an absolute "url"`)

	ErrInvalidSetting = NewAppError(TypeConfiguration, "invalid configuration value", nil)

	ErrUnsupportedProvider = NewAppError(TypeConfiguration, "AI provider not supported", nil).
				WithSuggestion("Use DOCDRIFT_AI_PROVIDER=openai or DOCDRIFT_AI_PROVIDER=gemini")

	ErrRepositoryMissing = NewAppError(TypeConfiguration, "repository is not configured", nil).
				WithSuggestion("Set GITHUB_REPOSITORY=owner/repo or pass --diff-file")

	ErrPRNumberMissing = NewAppError(TypeConfiguration, "pull request number is not configured", nil).
				WithSuggestion("Pass --pr, set DOCDRIFT_PR_NUMBER, or run from a pull_request event")

	ErrTokenMissing = NewAppError(TypeConfiguration, "VCS token is missing", nil).
			WithSuggestion("Set GITHUB_TOKEN with pull-requests:read and issues:write")
)

// VCS errors
var (
	ErrRepositoryNotFound = NewAppError(TypeVCS, "repository not found", nil).
				WithSuggestion("Check repository name and token access")

	ErrListFiles = NewAppError(TypeVCS, "failed to list pull request files", nil)

	ErrPublishComment = NewAppError(TypeVCS, "failed to publish report comment", nil)

	ErrGitHubTokenInvalid = NewAppError(TypeVCS, "GitHub token is invalid or expired", nil).
				WithSuggestion("Generate a new token at: https://github.com/settings/tokens")

	ErrGitHubInsufficientPerms = NewAppError(TypeVCS, "GitHub token has insufficient permissions", nil).
					WithSuggestion("Token needs 'pull-requests: read' and 'issues: write' permissions")

	ErrGitHubRateLimit = NewAppError(TypeVCS, "GitHub API rate limit exceeded", nil).
				WithSuggestion("Wait a few minutes or use a token with higher limits")

	ErrReadDiff = NewAppError(TypeVCS, "failed to read diff file", nil)
)

// Documentation fetch errors
var (
	ErrDocFetch = NewAppError(TypeFetch, "failed to fetch documentation source", nil)
)

// AI errors
var (
	ErrJudgment = NewAppError(TypeAI, "drift judgment failed", nil).
			WithSuggestion("Check the AI API key, model name and quota")

	ErrInvalidAIOutput = NewAppError(TypeAI, "invalid AI output format", nil).
				WithSuggestion("The model did not return an object matching the drift report schema")

	ErrQuotaExceeded = NewAppError(TypeAI, "AI quota exceeded or rate limited", nil).
				WithSuggestion("Wait a few minutes and try again, or check your API quota")

	ErrAIKeyInvalid = NewAppError(TypeAI, "AI API key is invalid", nil).
			WithSuggestion("Verify DOCDRIFT_AI_API_KEY")
)

// Drift outcome
var (
	ErrDriftDetected = NewAppError(TypeDrift, "documentation drift detected above confidence threshold", nil).
				WithSuggestion("Update the documentation or lower DOCDRIFT_CONFIDENCE_THRESHOLD")
)
