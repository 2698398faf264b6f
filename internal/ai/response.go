package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	domainErrors "github.com/thomas-vilte/docdrift/internal/errors"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/regex"
)

const previewLimit = 500

// ExtractJSON attempts to extract a valid JSON object from text, handling
// markdown code blocks and extra text around the object. A response that is
// already valid JSON is returned whole, so fences inside its string values
// are never mistaken for the payload.
func ExtractJSON(text string) string {
	text = strings.TrimSpace(text)

	if whole := SanitizeJSON(text); json.Valid([]byte(whole)) {
		return whole
	}

	var bestMarkdown string
	for _, m := range regex.MarkdownJSONBlock.FindAllStringSubmatch(text, -1) {
		content := SanitizeJSON(strings.TrimSpace(m[1]))
		if json.Valid([]byte(content)) && len(content) > len(bestMarkdown) {
			bestMarkdown = content
		}
	}
	if bestMarkdown != "" {
		return bestMarkdown
	}

	var bestBlock string
	for i := 0; i < len(text); {
		start := strings.IndexByte(text[i:], '{')
		if start == -1 {
			break
		}
		start += i

		end := matchingBrace(text, start)
		if end == -1 {
			i = start + 1
			continue
		}

		block := SanitizeJSON(text[start : end+1])
		if json.Valid([]byte(block)) && len(block) > len(bestBlock) {
			bestBlock = block
		}
		i = end + 1
	}

	if bestBlock != "" {
		return bestBlock
	}

	return SanitizeJSON(text)
}

// matchingBrace returns the index of the brace closing the one at start, or -1.
func matchingBrace(text string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for j := start; j < len(text); j++ {
		c := text[j]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

// SanitizeJSON escapes raw newlines inside string literals, which models
// sometimes emit.
func SanitizeJSON(s string) string {
	return regex.JSONStringLiteral.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "\n", "\\n")
	})
}

// reportPayload mirrors models.Report with pointer fields so that missing
// required properties can be told apart from zero values.
type reportPayload struct {
	DriftDetected *bool            `json:"drift_detected"`
	Findings      []findingPayload `json:"findings"`
}

type findingPayload struct {
	DocTitle                *string  `json:"doc_title"`
	DocURL                  *string  `json:"doc_url"`
	ChangeSummary           *string  `json:"change_summary"`
	ImpactStatement         *string  `json:"impact_statement"`
	Confidence              *float64 `json:"confidence"`
	Evidence                []string `json:"evidence"`
	SuggestedRevisedWording *string  `json:"suggested_revised_wording"`
}

// ParseReport decodes and validates a model response against the drift report
// schema. Findings beyond maxFindings are dropped, keeping the first ones.
func ParseReport(text string, maxFindings int) (models.Report, error) {
	if strings.TrimSpace(text) == "" {
		return models.Report{}, domainErrors.ErrInvalidAIOutput.
			WithContext("reason", "empty response from AI")
	}

	clean := ExtractJSON(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(clean)))
	dec.DisallowUnknownFields()

	var payload reportPayload
	if err := dec.Decode(&payload); err != nil {
		return models.Report{}, invalidOutput("failed to parse JSON", clean).WithError(err)
	}

	if payload.DriftDetected == nil {
		return models.Report{}, invalidOutput("missing drift_detected", clean)
	}
	if payload.Findings == nil {
		return models.Report{}, invalidOutput("missing findings", clean)
	}

	report := models.Report{
		DriftDetected: *payload.DriftDetected,
		Findings:      make([]models.Finding, 0, len(payload.Findings)),
	}
	for i, f := range payload.Findings {
		finding, err := f.toModel()
		if err != nil {
			return models.Report{}, invalidOutput(fmt.Sprintf("finding %d: %v", i, err), clean)
		}
		report.Findings = append(report.Findings, finding)
	}

	if maxFindings > 0 {
		report = report.Capped(maxFindings)
	}
	return report, nil
}

func (f findingPayload) toModel() (models.Finding, error) {
	switch {
	case f.DocTitle == nil:
		return models.Finding{}, fmt.Errorf("missing doc_title")
	case f.DocURL == nil:
		return models.Finding{}, fmt.Errorf("missing doc_url")
	case f.ChangeSummary == nil:
		return models.Finding{}, fmt.Errorf("missing change_summary")
	case f.ImpactStatement == nil:
		return models.Finding{}, fmt.Errorf("missing impact_statement")
	case f.Confidence == nil:
		return models.Finding{}, fmt.Errorf("missing confidence")
	case f.Evidence == nil:
		return models.Finding{}, fmt.Errorf("missing evidence")
	case f.SuggestedRevisedWording == nil:
		return models.Finding{}, fmt.Errorf("missing suggested_revised_wording")
	}

	if *f.Confidence < 0 || *f.Confidence > 1 {
		return models.Finding{}, fmt.Errorf("confidence %v outside [0,1]", *f.Confidence)
	}

	return models.Finding{
		DocTitle:                *f.DocTitle,
		DocURL:                  *f.DocURL,
		ChangeSummary:           *f.ChangeSummary,
		ImpactStatement:         *f.ImpactStatement,
		Confidence:              *f.Confidence,
		Evidence:                f.Evidence,
		SuggestedRevisedWording: *f.SuggestedRevisedWording,
	}, nil
}

func invalidOutput(reason, response string) *domainErrors.AppError {
	preview := response
	if len(preview) > previewLimit {
		preview = preview[:previewLimit] + "..."
	}
	return domainErrors.ErrInvalidAIOutput.
		WithContext("reason", reason).
		WithContext("detail", reason).
		WithContext("response_length", len(response)).
		WithContext("preview", preview)
}
