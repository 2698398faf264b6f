package models

type (
	// Finding is one judged instance of documentation drift.
	Finding struct {
		DocTitle                string   `json:"doc_title"`
		DocURL                  string   `json:"doc_url"`
		ChangeSummary           string   `json:"change_summary"`
		ImpactStatement         string   `json:"impact_statement"`
		Confidence              float64  `json:"confidence"`
		Evidence                []string `json:"evidence"`
		SuggestedRevisedWording string   `json:"suggested_revised_wording"`
	}

	// Report is the structured judgment for a whole change.
	Report struct {
		DriftDetected bool      `json:"drift_detected"`
		Findings      []Finding `json:"findings"`
	}
)

// Capped returns a copy of the report holding at most max findings, keeping the first ones.
func (r Report) Capped(max int) Report {
	if max < 0 || len(r.Findings) <= max {
		return r
	}
	findings := make([]Finding, max)
	copy(findings, r.Findings[:max])
	return Report{DriftDetected: r.DriftDetected, Findings: findings}
}

// MaxConfidence returns the highest finding confidence, or 0 without findings.
func (r Report) MaxConfidence() float64 {
	max := 0.0
	for _, f := range r.Findings {
		if f.Confidence > max {
			max = f.Confidence
		}
	}
	return max
}
