package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/thomas-vilte/docdrift/internal/models"
)

// Goal is the instruction placed in every judgment request.
const Goal = "Decide whether the documentation evidence contains statements that this pull request has made false, " +
	"and report each such statement as a finding."

// RequiredBehavior lists the rules the model must follow. They travel in the
// request payload and are repeated in the system prompt.
var RequiredBehavior = []string{
	"Only report drift that is supported by the provided documentation evidence snippets.",
	"Quote the exact documentation text that became false in the evidence array.",
	"Return ALL justified findings, up to limits.max_findings.",
	"Set drift_detected to true only when at least one finding is returned.",
	"Use confidence between 0 and 1; below 0.5 means the drift is speculative.",
	"If a documentation source has no hits, do not invent statements for it.",
	"Suggest revised wording for the documentation when possible, otherwise use an empty string.",
	"Return exactly one JSON object matching the drift_report schema and nothing else.",
}

// PromptData holds the parameters for template rendering
type PromptData struct {
	MaxFindings int
	Rules       []string
	Payload     string
}

// RenderPrompt renders a prompt template with the provided data
func RenderPrompt(name, tmplStr string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error executing template %s: %w", name, err)
	}

	return buf.String(), nil
}

const systemPromptTemplate = `# Task
  Act as a meticulous technical writer reviewing documentation against a code change.

  # Rules
{{- range $i, $r := .Rules}}
  {{inc $i}}. {{$r}}
{{- end}}

  # Limits
  - Return at most {{.MaxFindings}} findings.

  # STRICT OUTPUT FORMAT
  ⚠️ CRITICAL: You MUST return ONLY valid JSON that matches the drift_report schema.
  ❌ DO NOT wrap JSON in markdown code blocks
  ❌ DO NOT add fields that are not in the schema`

const userPromptTemplate = `# Input
  The request below is JSON. documentation_evidence holds, per documentation source, the snippets where
  changed identifiers occur. A source with an empty hits array was fetched but mentions none of them.
  A source marked truncated was only searched up to its size limit, so its later sections are unknown.

{{.Payload}}`

// NewJudgmentRequest assembles the payload handed to the judgment service.
func NewJudgmentRequest(files []models.ChangedFile, tokens []string, deps models.DependencyChanges, evidence []models.DocEvidence, maxFindings int) models.JudgmentRequest {
	if tokens == nil {
		tokens = []string{}
	}
	if evidence == nil {
		evidence = []models.DocEvidence{}
	}
	return models.JudgmentRequest{
		Goal:                  Goal,
		Limits:                models.JudgmentLimits{MaxFindings: maxFindings},
		PRFiles:               files,
		ExtractedChangeTokens: tokens,
		DependencyChanges:     deps,
		DocumentationEvidence: evidence,
		RequiredBehavior:      RequiredBehavior,
	}
}

// BuildPrompts renders the system and user prompts for a judgment request.
func BuildPrompts(req models.JudgmentRequest) (system string, user string, err error) {
	tmpl, err := template.New("system").
		Funcs(template.FuncMap{"inc": func(i int) int { return i + 1 }}).
		Parse(systemPromptTemplate)
	if err != nil {
		return "", "", fmt.Errorf("error parsing template system: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PromptData{MaxFindings: req.Limits.MaxFindings, Rules: req.RequiredBehavior}); err != nil {
		return "", "", fmt.Errorf("error executing template system: %w", err)
	}
	system = buf.String()

	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("error encoding judgment request: %w", err)
	}

	user, err = RenderPrompt("user", userPromptTemplate, PromptData{Payload: string(payload)})
	if err != nil {
		return "", "", err
	}

	return system, user, nil
}
