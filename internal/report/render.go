package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/thomas-vilte/docdrift/internal/models"
)

const (
	// Marker is the first line of every rendered report. Publishers use it to
	// find and update the previous comment on the same pull request.
	Marker = "<!-- docdrift-report -->"

	// NoDriftSentence is printed when the report has no findings.
	NoDriftSentence = "No documentation drift was found for this change."

	maxEvidencePerFinding = 3
)

// Render serialises a report as markdown. It is deterministic: the same
// report always produces the same bytes.
func Render(r models.Report) string {
	var b strings.Builder

	b.WriteString(Marker)
	b.WriteString("\n## Documentation drift report\n\n")
	fmt.Fprintf(&b, "Drift detected: **%s**\n", yesNo(r.DriftDetected))
	fmt.Fprintf(&b, "Findings: **%d**\n", len(r.Findings))

	if len(r.Findings) == 0 {
		b.WriteString("\n")
		b.WriteString(NoDriftSentence)
		b.WriteString("\n")
		return b.String()
	}

	for i, f := range r.Findings {
		b.WriteString("\n")
		writeFinding(&b, i+1, f)
	}

	return b.String()
}

func writeFinding(b *strings.Builder, n int, f models.Finding) {
	fmt.Fprintf(b, "### %d. %s\n\n", n, f.DocTitle)
	fmt.Fprintf(b, "- **Document:** %s\n", f.DocURL)
	fmt.Fprintf(b, "- **Change:** %s\n", f.ChangeSummary)
	fmt.Fprintf(b, "- **Impact:** %s\n", f.ImpactStatement)
	fmt.Fprintf(b, "- **Confidence:** %d%%\n", Percent(f.Confidence))

	evidence := f.Evidence
	if len(evidence) > maxEvidencePerFinding {
		evidence = evidence[:maxEvidencePerFinding]
	}
	if len(evidence) > 0 {
		b.WriteString("\n**Evidence**\n")
		for _, e := range evidence {
			b.WriteString("\n")
			b.WriteString(Quote(e))
			b.WriteString("\n")
		}
	}

	if wording := strings.TrimSpace(f.SuggestedRevisedWording); wording != "" {
		b.WriteString("\n**Suggested revised wording**\n\n")
		fence := fenceFor(wording)
		b.WriteString(fence)
		b.WriteString("\n")
		b.WriteString(wording)
		b.WriteString("\n")
		b.WriteString(fence)
		b.WriteString("\n")
	}
}

// Quote block-quotes text so that every line, including continuation lines,
// carries the "> " prefix.
func Quote(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

// Percent converts a confidence in [0,1] to a rounded percentage.
func Percent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

func yesNo(v bool) string {
	if v {
		return "YES"
	}
	return "NO"
}

// fenceFor picks a backtick fence longer than any run inside the text.
func fenceFor(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}
