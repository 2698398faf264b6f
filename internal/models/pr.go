package models

type (
	// ChangedFile is one file of a pull request as reported by the diff source.
	ChangedFile struct {
		Filename string `json:"filename"`
		Status   string `json:"status"`
		Patch    string `json:"patch,omitempty"`
	}

	// DependencyChanges groups the manifest entries touched by a change.
	// Updated entries have the form "old -> new".
	DependencyChanges struct {
		Added   []string `json:"added"`
		Removed []string `json:"removed"`
		Updated []string `json:"updated"`
	}
)

// IsEmpty reports whether no dependency entry was touched.
func (d DependencyChanges) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Updated) == 0
}
