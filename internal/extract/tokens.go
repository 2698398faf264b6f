package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/thomas-vilte/docdrift/internal/diffutil"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/regex"
)

const (
	DefaultMaxTokens = 40

	minQuotedLen  = 4
	maxQuotedLen  = 120
	minPatternLen = 6
	maxPatternLen = 80
)

// TokenSet is a case-sensitive set of strings that remembers first-seen order.
type TokenSet struct {
	seen  map[string]struct{}
	order []string
}

func NewTokenSet() *TokenSet {
	return &TokenSet{seen: make(map[string]struct{})}
}

// Add inserts token and reports whether it was new.
func (s *TokenSet) Add(token string) bool {
	if _, ok := s.seen[token]; ok {
		return false
	}
	s.seen[token] = struct{}{}
	s.order = append(s.order, token)
	return true
}

func (s *TokenSet) Len() int {
	return len(s.order)
}

// Values returns the tokens in first-seen order.
func (s *TokenSet) Values() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ExtractTokens pulls documentation-relevant fragments out of the changed
// lines of every file. Bare semantic versions are dropped and the result is
// cut to maxTokens in first-seen order. A non-positive maxTokens selects
// DefaultMaxTokens.
func ExtractTokens(files []models.ChangedFile, maxTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	set := NewTokenSet()
	for _, f := range files {
		for _, line := range diffutil.ChangedLines(f.Patch) {
			for _, tok := range LineTokens(line.Text) {
				set.Add(tok)
			}
		}
	}

	out := make([]string, 0, maxTokens)
	for _, tok := range set.Values() {
		if regex.SemVerPrefix.MatchString(tok) {
			continue
		}
		if len(out) == maxTokens {
			break
		}
		out = append(out, tok)
	}
	return out
}

// LineTokens applies the quoted-string and pattern-like rules to the text of
// one changed line (sign already removed).
func LineTokens(text string) []string {
	var out []string

	for _, q := range regex.QuotedString.FindAllString(text, -1) {
		inner := strings.TrimSpace(q[1 : len(q)-1])
		n := utf8.RuneCountInString(inner)
		if n >= minQuotedLen && n <= maxQuotedLen {
			out = append(out, inner)
		}
	}

	for _, run := range regex.PatternRun.FindAllString(text, -1) {
		if len(run) < minPatternLen || len(run) > maxPatternLen {
			continue
		}
		if isPatternLike(run) {
			out = append(out, run)
		}
	}

	return out
}

// isPatternLike accepts path-like, flag-like, env-var-like and dotted runs.
func isPatternLike(run string) bool {
	switch {
	case strings.Contains(run, "/"):
		return true
	case strings.Contains(run, "--"):
		return true
	case strings.Contains(run, "."):
		return true
	case isUpperCase(run):
		return true
	}
	return false
}

// isUpperCase reports whether run has at least one letter and no lower-case letter.
func isUpperCase(run string) bool {
	hasLetter := false
	for _, r := range run {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	return hasLetter
}
