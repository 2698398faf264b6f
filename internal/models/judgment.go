package models

type (
	// JudgmentLimits bounds what the judgment service may return.
	JudgmentLimits struct {
		MaxFindings int `json:"max_findings"`
	}

	// JudgmentRequest is the input payload handed to the judgment service.
	JudgmentRequest struct {
		Goal                  string            `json:"goal"`
		Limits                JudgmentLimits    `json:"limits"`
		PRFiles               []ChangedFile     `json:"pr_files"`
		ExtractedChangeTokens []string          `json:"extracted_change_tokens"`
		DependencyChanges     DependencyChanges `json:"dependency_changes"`
		DocumentationEvidence []DocEvidence     `json:"documentation_evidence"`
		RequiredBehavior      []string          `json:"required_behavior"`
	}
)
