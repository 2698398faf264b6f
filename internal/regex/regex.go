package regex

import "regexp"

var (
	// Token extraction
	QuotedString = regexp.MustCompile(`"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'|` + "`(?:\\\\.|[^`\\\\])*`")
	PatternRun   = regexp.MustCompile(`[A-Za-z0-9_./-]+`)
	SemVerPrefix = regexp.MustCompile(`^\d+\.\d+\.\d+`)

	// Dependency name reconciliation
	VersionOperatorSuffix = regexp.MustCompile(`\s*(?:===|==|>=|<=|~=|!=|>|<)\s*\S.*$`)

	// Repository coordinates
	RepoSlug = regexp.MustCompile(`^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`)

	// AI and JSON parsing
	MarkdownJSONBlock = regexp.MustCompile("(?s)```(?:json)?\n?(.*?)```")
	JSONStringLiteral = regexp.MustCompile(`"(?:\\.|[^"\\])*"`)
)
