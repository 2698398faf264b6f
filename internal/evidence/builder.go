package evidence

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"

	"github.com/thomas-vilte/docdrift/internal/dependency"
	"github.com/thomas-vilte/docdrift/internal/logger"
	"github.com/thomas-vilte/docdrift/internal/models"
)

const (
	DefaultMaxDocBytes        = 250_000
	DefaultSnippetRadius      = 250
	DefaultMaxSnippetsPerTerm = 3

	// maxOccurrences bounds how many matches are collected per term before the snippet cap applies.
	maxOccurrences = 6
)

// Fetcher retrieves the raw text of a documentation source.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options bounds the evidence gathered per source.
type Options struct {
	MaxDocBytes        int
	SnippetRadius      int
	MaxSnippetsPerTerm int
}

func (o Options) withDefaults() Options {
	if o.MaxDocBytes <= 0 {
		o.MaxDocBytes = DefaultMaxDocBytes
	}
	if o.SnippetRadius <= 0 {
		o.SnippetRadius = DefaultSnippetRadius
	}
	if o.MaxSnippetsPerTerm <= 0 {
		o.MaxSnippetsPerTerm = DefaultMaxSnippetsPerTerm
	}
	return o
}

type Builder struct {
	fetcher Fetcher
	opts    Options
}

func NewBuilder(fetcher Fetcher, opts Options) *Builder {
	return &Builder{
		fetcher: fetcher,
		opts:    opts.withDefaults(),
	}
}

// Build fetches every source in order and locates the tokens and dependency
// names inside it. Sources that cannot be fetched are logged and left out;
// reachable sources are always returned, with an empty hit list if nothing
// matched.
func (b *Builder) Build(ctx context.Context, sources []models.DocSource, tokens []string, deps models.DependencyChanges) []models.DocEvidence {
	log := logger.FromContext(ctx)

	terms := searchTerms(tokens, dependency.SearchableNames(deps))
	out := make([]models.DocEvidence, 0, len(sources))

	for _, src := range sources {
		start := time.Now()

		raw, err := b.fetcher.Fetch(ctx, src.URL)
		if err != nil {
			log.Warn("skipping documentation source",
				"title", src.Title,
				"url", src.URL,
				"error", err)
			continue
		}

		text, truncated := Truncate(string(raw), b.opts.MaxDocBytes)
		hits := b.FindHits(text, terms)

		log.Info("documentation evidence collected",
			"title", src.Title,
			"hits", len(hits),
			"size", len(text),
			"truncated", truncated,
			"duration_ms", time.Since(start).Milliseconds())

		out = append(out, models.DocEvidence{
			Title:     src.Title,
			URL:       src.URL,
			Hits:      hits,
			Truncated: truncated,
		})
	}

	return out
}

// FindHits searches text for every term and keeps the terms that occur.
func (b *Builder) FindHits(text string, terms []string) []models.EvidenceHit {
	hits := make([]models.EvidenceHit, 0)
	for _, term := range terms {
		snippets := Snippets(text, term, b.opts.SnippetRadius)
		if len(snippets) == 0 {
			continue
		}
		if len(snippets) > b.opts.MaxSnippetsPerTerm {
			snippets = snippets[:b.opts.MaxSnippetsPerTerm]
		}
		hits = append(hits, models.EvidenceHit{Token: term, Snippets: snippets})
	}
	return hits
}

// Snippets returns a window of radius characters on each side of every
// case-insensitive, non-overlapping occurrence of term, up to six occurrences.
func Snippets(text, term string, radius int) []string {
	if term == "" || text == "" {
		return nil
	}

	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(term))
	matches := re.FindAllStringIndex(text, maxOccurrences)

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		from := backRunes(text, m[0], radius)
		to := forwardRunes(text, m[1], radius)
		out = append(out, text[from:to])
	}
	return out
}

// Truncate keeps at most maxBytes bytes of text on a rune boundary and
// reports whether anything was removed. A non-positive maxBytes keeps all.
func Truncate(text string, maxBytes int) (string, bool) {
	if maxBytes <= 0 || len(text) <= maxBytes {
		return text, false
	}
	end := maxBytes
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return text[:end], true
}

func searchTerms(tokens, depNames []string) []string {
	terms := make([]string, 0, len(tokens)+len(depNames))
	terms = append(terms, tokens...)
	return append(terms, depNames...)
}

func backRunes(text string, pos, n int) int {
	for i := 0; i < n && pos > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:pos])
		pos -= size
	}
	return pos
}

func forwardRunes(text string, pos, n int) int {
	for i := 0; i < n && pos < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[pos:])
		pos += size
	}
	return pos
}
