package models

type (
	// DocSource is one documentation location to check.
	DocSource struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	}

	// EvidenceHit holds the snippets found for one search term in one document.
	EvidenceHit struct {
		Token    string   `json:"token"`
		Snippets []string `json:"snippets"`
	}

	// DocEvidence is the evidence bundle for one reachable documentation source.
	// Hits is never nil so that an empty bundle serialises as []. Truncated
	// reports that only the leading part of the document was searched.
	DocEvidence struct {
		Title     string        `json:"title"`
		URL       string        `json:"url"`
		Hits      []EvidenceHit `json:"hits"`
		Truncated bool          `json:"truncated,omitempty"`
	}
)
