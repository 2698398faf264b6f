package gate

import (
	"context"
	"fmt"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
)

// Outcome is the terminal signal of a run.
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeWarn Outcome = "warn"
	OutcomeFail Outcome = "fail"
)

// Decision is the result of interpreting a report against the gate settings.
type Decision struct {
	Outcome       Outcome
	MaxConfidence float64
	Threshold     float64
	Message       string
}

// Failed reports whether the run must fail.
func (d Decision) Failed() bool {
	return d.Outcome == OutcomeFail
}

// Evaluate decides pass, warn or fail from the report and two settings:
//
//	drift_detected=false                              -> pass
//	drift_detected=true, failOnDrift=false            -> warn
//	drift_detected=true, failOnDrift=true, max < thr  -> warn
//	drift_detected=true, failOnDrift=true, max >= thr -> fail
func Evaluate(report models.Report, failOnDrift bool, threshold float64) Decision {
	d := Decision{
		Outcome:       OutcomePass,
		MaxConfidence: report.MaxConfidence(),
		Threshold:     threshold,
	}

	if !report.DriftDetected {
		return d
	}

	switch {
	case !failOnDrift:
		d.Outcome = OutcomeWarn
		d.Message = fmt.Sprintf("documentation drift detected (max confidence %s); not failing because fail-on-drift is disabled",
			percent(d.MaxConfidence))
	case d.MaxConfidence < threshold:
		d.Outcome = OutcomeWarn
		d.Message = fmt.Sprintf("documentation drift detected but max confidence %s is below threshold %s",
			percent(d.MaxConfidence), percent(threshold))
	default:
		d.Outcome = OutcomeFail
		d.Message = fmt.Sprintf("documentation drift detected with max confidence %s (threshold %s)",
			percent(d.MaxConfidence), percent(threshold))
	}

	return d
}

// Enforce emits the decision's single log line and turns a failing decision
// into ErrDriftDetected.
func Enforce(ctx context.Context, d Decision) error {
	switch d.Outcome {
	case OutcomeWarn:
		logger.Warn(ctx, d.Message,
			"max_confidence", d.MaxConfidence,
			"threshold", d.Threshold)
	case OutcomeFail:
		err := domainErrors.ErrDriftDetected.
			WithContext("max_confidence", d.MaxConfidence).
			WithContext("threshold", d.Threshold).
			WithContext("detail", fmt.Sprintf("max confidence %s >= threshold %s",
				percent(d.MaxConfidence), percent(d.Threshold)))
		logger.Error(ctx, d.Message, nil,
			"max_confidence", d.MaxConfidence,
			"threshold", d.Threshold)
		return err
	}
	return nil
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
