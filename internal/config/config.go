package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/regex"
)

// Environment keys.
const (
	EnvAIProvider          = "DOCDRIFT_AI_PROVIDER"
	EnvAIAPIKey            = "DOCDRIFT_AI_API_KEY"
	EnvAIModel             = "DOCDRIFT_AI_MODEL"
	EnvFailOnDrift         = "DOCDRIFT_FAIL_ON_DRIFT"
	EnvConfidenceThreshold = "DOCDRIFT_CONFIDENCE_THRESHOLD"
	EnvMaxFindings         = "DOCDRIFT_MAX_FINDINGS"
	EnvMaxDocBytes         = "DOCDRIFT_MAX_DOC_BYTES"
	EnvMaxTokens           = "DOCDRIFT_MAX_TOKENS"
	EnvMaxDependencies     = "DOCDRIFT_MAX_DEPENDENCIES"
	EnvDocSources          = "DOCDRIFT_DOC_SOURCES"
	EnvLanguage            = "DOCDRIFT_LANG"
	EnvPRNumber            = "DOCDRIFT_PR_NUMBER"
	EnvGitHubToken         = "GITHUB_TOKEN"
	EnvGitHubRepository    = "GITHUB_REPOSITORY"
	EnvGitHubEventPath     = "GITHUB_EVENT_PATH"
)

const (
	defaultProvider            = AIOpenAI
	defaultConfidenceThreshold = 0.75
	defaultMaxFindings         = 10
	defaultMaxDocBytes         = 250_000
	defaultMaxTokens           = 40
	defaultMaxDependencies     = 50
)

type (
	// LookupFunc reads one setting; os.LookupEnv satisfies it.
	LookupFunc func(key string) (string, bool)

	// Config is built once at start-up and passed to every component.
	Config struct {
		AIProvider AI
		AIAPIKey   string
		AIModel    Model

		FailOnDrift         bool
		ConfidenceThreshold float64
		MaxFindings         int
		MaxDocBytes         int
		MaxTokens           int
		MaxDependencies     int

		DocSources []models.DocSource
		Language   string

		GitHubToken string
		RepoOwner   string
		RepoName    string
		// PRNumber is 0 when neither DOCDRIFT_PR_NUMBER nor the event payload provides one.
		PRNumber int
	}
)

// Load reads and validates every setting. Missing or malformed mandatory
// settings fail here, before any network activity.
func Load(lookup LookupFunc) (*Config, error) {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := &Config{
		AIProvider: AI(strings.ToLower(get(EnvAIProvider))),
		AIModel:    Model(get(EnvAIModel)),
		Language:   GetLocaleConfig(get(EnvLanguage)),
	}

	if cfg.AIProvider == "" {
		cfg.AIProvider = defaultProvider
	}
	if !IsSupportedAI(cfg.AIProvider) {
		return nil, domainErrors.ErrUnsupportedProvider.
			WithContext("provider", string(cfg.AIProvider)).
			WithContext("detail", string(cfg.AIProvider))
	}
	if cfg.AIModel == "" {
		cfg.AIModel = DefaultModelForAI(cfg.AIProvider)
	}

	cfg.AIAPIKey = get(EnvAIAPIKey)
	for _, key := range apiKeyFallbacks(cfg.AIProvider) {
		if cfg.AIAPIKey != "" {
			break
		}
		cfg.AIAPIKey = get(key)
	}
	if cfg.AIAPIKey == "" {
		return nil, domainErrors.ErrAPIKeyMissing.WithContext("provider", string(cfg.AIProvider))
	}

	sources, err := ParseDocSources(get(EnvDocSources))
	if err != nil {
		return nil, err
	}
	cfg.DocSources = sources

	if cfg.FailOnDrift, err = parseBool(EnvFailOnDrift, get(EnvFailOnDrift), false); err != nil {
		return nil, err
	}
	if cfg.ConfidenceThreshold, err = parseThreshold(get(EnvConfidenceThreshold)); err != nil {
		return nil, err
	}
	if cfg.MaxFindings, err = parsePositiveInt(EnvMaxFindings, get(EnvMaxFindings), defaultMaxFindings); err != nil {
		return nil, err
	}
	if cfg.MaxDocBytes, err = parsePositiveInt(EnvMaxDocBytes, get(EnvMaxDocBytes), defaultMaxDocBytes); err != nil {
		return nil, err
	}
	if cfg.MaxTokens, err = parsePositiveInt(EnvMaxTokens, get(EnvMaxTokens), defaultMaxTokens); err != nil {
		return nil, err
	}
	if cfg.MaxDependencies, err = parsePositiveInt(EnvMaxDependencies, get(EnvMaxDependencies), defaultMaxDependencies); err != nil {
		return nil, err
	}

	cfg.GitHubToken = get(EnvGitHubToken)
	if repo := get(EnvGitHubRepository); repo != "" {
		m := regex.RepoSlug.FindStringSubmatch(repo)
		if m == nil {
			return nil, invalidSetting(EnvGitHubRepository, repo, "expected owner/repo")
		}
		cfg.RepoOwner, cfg.RepoName = m[1], m[2]
	}

	if raw := get(EnvPRNumber); raw != "" {
		if cfg.PRNumber, err = parsePositiveInt(EnvPRNumber, raw, 0); err != nil {
			return nil, err
		}
	} else if path := get(EnvGitHubEventPath); path != "" {
		cfg.PRNumber = prNumberFromEvent(path)
	}

	return cfg, nil
}

// Repository returns "owner/repo", or "" when no repository is configured.
func (c *Config) Repository() string {
	if c.RepoOwner == "" {
		return ""
	}
	return c.RepoOwner + "/" + c.RepoName
}

// ParseDocSources decodes the documentation source list. It must be a
// non-empty JSON array whose entries carry a title and an absolute URL.
func ParseDocSources(raw string) ([]models.DocSource, error) {
	if raw == "" {
		return nil, domainErrors.ErrDocSourcesMissing
	}

	var sources []models.DocSource
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return nil, domainErrors.ErrDocSourcesInvalid.WithError(err)
	}
	if len(sources) == 0 {
		return nil, domainErrors.ErrDocSourcesInvalid.WithContext("detail", "the array is empty")
	}

	for i, s := range sources {
		s.Title = strings.TrimSpace(s.Title)
		s.URL = strings.TrimSpace(s.URL)
		if s.Title == "" {
			return nil, domainErrors.ErrDocSourcesInvalid.
				WithContext("index", i).
				WithContext("detail", fmt.Sprintf("entry %d has no title", i))
		}
		u, err := url.Parse(s.URL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, domainErrors.ErrDocSourcesInvalid.
				WithContext("index", i).
				WithContext("detail", fmt.Sprintf("entry %d has an invalid url %q", i, s.URL))
		}
		sources[i] = s
	}

	return sources, nil
}

func parseBool(key, raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, invalidSetting(key, raw, "expected true or false")
	}
	return v, nil
}

func parseThreshold(raw string) (float64, error) {
	if raw == "" {
		return defaultConfidenceThreshold, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		return 0, invalidSetting(EnvConfidenceThreshold, raw, "expected a number between 0 and 1")
	}
	return v, nil
}

func parsePositiveInt(key, raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, invalidSetting(key, raw, "expected a positive integer")
	}
	return v, nil
}

func invalidSetting(key, value, reason string) *domainErrors.AppError {
	return domainErrors.ErrInvalidSetting.
		WithContext("key", key).
		WithContext("value", value).
		WithContext("detail", fmt.Sprintf("%s=%q: %s", key, value, reason)).
		WithSuggestion(fmt.Sprintf("Fix or unset %s", key))
}

// prNumberFromEvent reads pull_request.number from a GitHub Actions event
// payload. Unreadable payloads yield 0.
func prNumberFromEvent(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var event struct {
		Number      int `json:"number"`
		PullRequest struct {
			Number int `json:"number"`
		} `json:"pull_request"`
	}
	if err := json.Unmarshal(data, &event); err != nil {
		return 0
	}
	if event.PullRequest.Number > 0 {
		return event.PullRequest.Number
	}
	return event.Number
}
