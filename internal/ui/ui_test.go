package ui

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/gate"
	"github.com/thomas-vilte/docdrift/internal/i18n"
	"github.com/thomas-vilte/docdrift/internal/models"
)

func setupUITest(t *testing.T) *i18n.Translations {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })

	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return translations
}

func TestHandleAppError(t *testing.T) {
	t.Run("should print details and suggestion of domain errors", func(t *testing.T) {
		// Arrange
		translations := setupUITest(t)
		var buf bytes.Buffer
		err := fmt.Errorf("wrapped: %w", domainErrors.ErrDocSourcesInvalid.
			WithContext("detail", "entry 0 has no title"))

		// Act
		HandleAppError(&buf, err, translations)

		// Assert
		out := buf.String()
		assert.Contains(t, out, "CONFIGURATION: documentation sources are not a valid non-empty JSON array")
		assert.Contains(t, out, "entry 0 has no title")
		assert.Contains(t, out, `Try: Each entry needs a "title" and an absolute "url"`)
	})

	t.Run("should print the wrapped cause", func(t *testing.T) {
		translations := setupUITest(t)
		var buf bytes.Buffer

		HandleAppError(&buf, domainErrors.ErrJudgment.WithError(errors.New("HTTP 500")), translations)

		assert.Contains(t, buf.String(), "Details: HTTP 500")
	})

	t.Run("should print plain errors", func(t *testing.T) {
		translations := setupUITest(t)
		var buf bytes.Buffer

		HandleAppError(&buf, errors.New("boom"), translations)

		assert.Equal(t, "❌ boom\n", buf.String())
	})

	t.Run("should ignore nil", func(t *testing.T) {
		translations := setupUITest(t)
		var buf bytes.Buffer

		HandleAppError(&buf, nil, translations)

		assert.Empty(t, buf.String())
	})
}

func TestPrintOutcome(t *testing.T) {
	setupUITest(t)

	tests := []struct {
		outcome gate.Outcome
		prefix  string
	}{
		{gate.OutcomePass, "✅"},
		{gate.OutcomeWarn, "⚠️"},
		{gate.OutcomeFail, "❌"},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			var buf bytes.Buffer

			PrintOutcome(&buf, tt.outcome, "done")

			assert.Contains(t, buf.String(), tt.prefix)
			assert.Contains(t, buf.String(), "done")
		})
	}
}

func TestPrintTokenUsage(t *testing.T) {
	translations := setupUITest(t)

	t.Run("should print the counters", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, &models.TokenUsage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, DurationMs: 120}, translations)

		assert.Contains(t, buf.String(), "Token usage: Input: 10 | Output: 5 | Total: 15")
		assert.Contains(t, buf.String(), "Duration: 120ms")
	})

	t.Run("should skip missing usage", func(t *testing.T) {
		var buf bytes.Buffer

		PrintTokenUsage(&buf, nil, translations)

		assert.Empty(t, buf.String())
	})
}
