package diffutil

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// ChangedLine is an added or removed line of a patch, without its sign.
type ChangedLine struct {
	Added bool
	Text  string
}

// Sign returns the diff prefix the line carried.
func (l ChangedLine) Sign() string {
	if l.Added {
		return "+"
	}
	return "-"
}

// ChangedLines returns the added and removed lines of a patch in order.
// Context lines, the "+++ " / "--- " file headers and "\ No newline" markers
// are skipped. Hunk-formatted patches are parsed with go-diff; anything else
// is scanned line by line.
func ChangedLines(patch string) []ChangedLine {
	if patch == "" {
		return nil
	}

	if strings.HasPrefix(patch, "@@") {
		hunks, err := diff.ParseHunks([]byte(patch))
		if err == nil {
			var out []ChangedLine
			for _, h := range hunks {
				out = append(out, scan(string(h.Body))...)
			}
			return out
		}
	}

	return scan(patch)
}

func scan(text string) []ChangedLine {
	var out []ChangedLine
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if IsFileHeader(line) {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"):
			out = append(out, ChangedLine{Added: true, Text: line[1:]})
		case strings.HasPrefix(line, "-"):
			out = append(out, ChangedLine{Added: false, Text: line[1:]})
		}
	}
	return out
}

// IsFileHeader reports whether line is a "+++ " or "--- " unified diff header.
func IsFileHeader(line string) bool {
	return strings.HasPrefix(line, "+++ ") || strings.HasPrefix(line, "--- ")
}
