package gate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
)

func driftReport(confidences ...float64) models.Report {
	r := models.Report{DriftDetected: true}
	for _, c := range confidences {
		r.Findings = append(r.Findings, models.Finding{Confidence: c})
	}
	return r
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		report      models.Report
		failOnDrift bool
		threshold   float64
		want        Outcome
	}{
		{"no drift passes", models.Report{}, true, 0.75, OutcomePass},
		{"no drift ignores findings", models.Report{Findings: []models.Finding{{Confidence: 1}}}, true, 0.1, OutcomePass},
		{"drift without fail-on-drift warns", driftReport(0.9), false, 0.75, OutcomeWarn},
		{"drift below threshold warns", driftReport(0.5, 0.6), true, 0.75, OutcomeWarn},
		{"drift at threshold fails", driftReport(0.75), true, 0.75, OutcomeFail},
		{"drift above threshold fails", driftReport(0.2, 0.9), true, 0.75, OutcomeFail},
		{"drift without findings uses zero confidence", driftReport(), true, 0.5, OutcomeWarn},
		{"zero threshold fails any drift", driftReport(), true, 0, OutcomeFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(tt.report, tt.failOnDrift, tt.threshold)
			assert.Equal(t, tt.want, d.Outcome)
			assert.Equal(t, tt.threshold, d.Threshold)
		})
	}
}

func TestEvaluate_Scenario(t *testing.T) {
	report := driftReport(0.9)

	failing := Evaluate(report, true, 0.75)
	assert.True(t, failing.Failed())
	assert.Equal(t, 0.9, failing.MaxConfidence)
	assert.Contains(t, failing.Message, "90%")
	assert.Contains(t, failing.Message, "75%")

	warning := Evaluate(report, false, 0.75)
	assert.False(t, warning.Failed())
	assert.Equal(t, OutcomeWarn, warning.Outcome)
}

func TestEvaluate_Monotonic(t *testing.T) {
	report := driftReport(0.3, 0.65)
	previous := OutcomeFail

	for thr := 0.0; thr <= 1.0; thr += 0.05 {
		d := Evaluate(report, true, thr)
		if previous == OutcomeWarn {
			assert.Equal(t, OutcomeWarn, d.Outcome, "threshold %.2f flipped back to fail", thr)
		}
		if thr > 0.65+1e-9 {
			assert.Equal(t, OutcomeWarn, d.Outcome)
		}
		previous = d.Outcome
	}
}

func TestEnforce(t *testing.T) {
	color.NoColor = true

	newCtx := func(buf *bytes.Buffer) context.Context {
		return logger.WithLogger(context.Background(), logger.New(buf, false, false))
	}

	t.Run("should stay silent on a clean pass", func(t *testing.T) {
		var buf bytes.Buffer

		err := Enforce(newCtx(&buf), Evaluate(models.Report{}, true, 0.75))

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("should warn without failing", func(t *testing.T) {
		var buf bytes.Buffer

		err := Enforce(newCtx(&buf), Evaluate(driftReport(0.9), false, 0.75))

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "drift detected")
		assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("drift detected")))
	})

	t.Run("should fail with percentages", func(t *testing.T) {
		var buf bytes.Buffer

		err := Enforce(newCtx(&buf), Evaluate(driftReport(0.9), true, 0.75))

		require.Error(t, err)
		assert.True(t, errors.Is(err, domainErrors.ErrDriftDetected))
		assert.Contains(t, err.Error(), "90% >= threshold 75%")
		assert.Contains(t, buf.String(), "90%")
	})
}
