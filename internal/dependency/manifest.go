package dependency

import (
	"regexp"
	"strings"
)

// ManifestKind names one supported manifest dialect.
type ManifestKind string

const (
	KindPackageJSON  ManifestKind = "package.json"
	KindRequirements ManifestKind = "requirements.txt"
	KindGoMod        ManifestKind = "go.mod"
	KindCargo        ManifestKind = "Cargo.toml"
	KindGemfile      ManifestKind = "Gemfile"
	KindGradle       ManifestKind = "build.gradle"
)

// Manifest is one variant of the closed set of manifest dialects. Each variant
// carries the filename suffixes it answers to and the rule that turns one
// changed line into at most one dependency identifier.
type Manifest struct {
	Kind     ManifestKind
	Suffixes []string
	rule     *regexp.Regexp
	format   func(m []string) string
}

// Extract applies the manifest rule to a single line (sign already removed).
// Only the first match on the line is considered.
func (m Manifest) Extract(line string) (string, bool) {
	sub := m.rule.FindStringSubmatch(line)
	if sub == nil {
		return "", false
	}
	id := m.format(sub)
	if id == "" {
		return "", false
	}
	return id, true
}

func (m Manifest) matches(filename string) bool {
	for _, s := range m.Suffixes {
		if strings.HasSuffix(filename, s) {
			return true
		}
	}
	return false
}

var manifests = []Manifest{
	{
		Kind:     KindPackageJSON,
		Suffixes: []string{"package.json"},
		rule:     regexp.MustCompile(`^\s*"(@?[^"\s]+)"\s*:\s*"([^"]+)"`),
		format:   func(m []string) string { return m[1] + "@" + m[2] },
	},
	{
		Kind:     KindRequirements,
		Suffixes: []string{"requirements.txt", "requirements-dev.txt", "requirements.in"},
		rule:     regexp.MustCompile(`^\s*([A-Za-z0-9][A-Za-z0-9._\-\[\]]*)\s*(===|==|>=|<=|~=|!=|>|<)\s*([^\s;#,]+)`),
		format:   func(m []string) string { return m[1] + m[2] + m[3] },
	},
	{
		Kind:     KindGoMod,
		Suffixes: []string{"go.mod"},
		rule:     regexp.MustCompile(`^\s*(?:require\s+)?([A-Za-z0-9._~\-]+\.[A-Za-z]+/\S+)\s+(v\d\S*)`),
		format:   func(m []string) string { return m[1] + "@" + m[2] },
	},
	{
		Kind:     KindCargo,
		Suffixes: []string{"Cargo.toml"},
		rule:     regexp.MustCompile(`^\s*([A-Za-z0-9_\-]+)\s*=\s*(?:"([\^~=<>*]*\d[^"]*)"|\{[^}]*version\s*=\s*"([^"]+)")`),
		format: func(m []string) string {
			if m[2] != "" {
				return m[1] + "@" + m[2]
			}
			return m[1] + "@" + m[3]
		},
	},
	{
		Kind:     KindGemfile,
		Suffixes: []string{"Gemfile"},
		rule:     regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`),
		format: func(m []string) string {
			if m[2] == "" {
				return m[1]
			}
			return m[1] + "@" + m[2]
		},
	},
	{
		Kind:     KindGradle,
		Suffixes: []string{"build.gradle", "build.gradle.kts"},
		rule:     regexp.MustCompile(`^\s*(?:implementation|api|compileOnly|runtimeOnly|testImplementation|testRuntimeOnly|annotationProcessor|kapt|classpath)\s*\(?\s*['"]([^'":\s]+:[^'":\s]+:[^'"\s]+)['"]`),
		format:   func(m []string) string { return m[1] },
	},
}

// ManifestFor selects the manifest dialect for filename.
func ManifestFor(filename string) (Manifest, bool) {
	for _, m := range manifests {
		if m.matches(filename) {
			return m, true
		}
	}
	return Manifest{}, false
}

// Manifests lists the supported dialects.
func Manifests() []ManifestKind {
	kinds := make([]ManifestKind, 0, len(manifests))
	for _, m := range manifests {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}
