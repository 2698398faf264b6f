package dependency

import (
	"sort"
	"strings"

	"github.com/thomas-vilte/docdrift/internal/diffutil"
	"github.com/thomas-vilte/docdrift/internal/models"
	"github.com/thomas-vilte/docdrift/internal/regex"
)

const DefaultMaxPerList = 50

// Detect recognises dependency additions, removals and updates in the patch of
// a single manifest file. Files with no known manifest dialect yield an empty
// result. Each list is sorted and cut to maxPerList; a non-positive value
// selects DefaultMaxPerList.
func Detect(filename, patch string, maxPerList int) models.DependencyChanges {
	if maxPerList <= 0 {
		maxPerList = DefaultMaxPerList
	}

	rawAdded := make(map[string]struct{})
	rawRemoved := make(map[string]struct{})
	if !collect(filename, patch, rawAdded, rawRemoved) {
		return emptyChanges()
	}

	return reconcile(rawAdded, rawRemoved, maxPerList)
}

// DetectAll collects raw identifiers from every changed file and reconciles
// them as one set, so a name added in one manifest and removed in another is
// reported as a single update.
func DetectAll(files []models.ChangedFile, maxPerList int) models.DependencyChanges {
	if maxPerList <= 0 {
		maxPerList = DefaultMaxPerList
	}

	rawAdded := make(map[string]struct{})
	rawRemoved := make(map[string]struct{})
	for _, f := range files {
		collect(f.Filename, f.Patch, rawAdded, rawRemoved)
	}

	return reconcile(rawAdded, rawRemoved, maxPerList)
}

// collect adds the dependency identifiers on the changed lines of patch to
// the raw sets. It reports false when filename is not a known manifest.
func collect(filename, patch string, rawAdded, rawRemoved map[string]struct{}) bool {
	manifest, ok := ManifestFor(filename)
	if !ok {
		return false
	}

	for _, line := range diffutil.ChangedLines(patch) {
		id, ok := manifest.Extract(line.Text)
		if !ok {
			continue
		}
		if line.Added {
			rawAdded[id] = struct{}{}
		} else {
			rawRemoved[id] = struct{}{}
		}
	}
	return true
}

// reconcile moves every bare name present on both sides into an "old -> new"
// update and removes all of its identifiers from the raw sets.
func reconcile(rawAdded, rawRemoved map[string]struct{}, maxPerList int) models.DependencyChanges {
	addedByName := byBareName(rawAdded)
	removedByName := byBareName(rawRemoved)

	updated := make(map[string]struct{})
	for name, newIDs := range addedByName {
		oldIDs, ok := removedByName[name]
		if !ok {
			continue
		}
		updated[oldIDs[len(oldIDs)-1]+" -> "+newIDs[len(newIDs)-1]] = struct{}{}
		for _, id := range newIDs {
			delete(rawAdded, id)
		}
		for _, id := range oldIDs {
			delete(rawRemoved, id)
		}
	}

	return models.DependencyChanges{
		Added:   sortedCapped(rawAdded, maxPerList),
		Removed: sortedCapped(rawRemoved, maxPerList),
		Updated: sortedCapped(updated, maxPerList),
	}
}

// BareName strips the version part of a dependency identifier: a trailing
// "@version", everything after the second segment of colon coordinates, or a
// trailing comparison operator with its version.
func BareName(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.LastIndex(id, "@"); i > 0 {
		return id[:i]
	}
	if strings.Count(id, ":") >= 2 {
		parts := strings.SplitN(id, ":", 3)
		return parts[0] + ":" + parts[1]
	}
	return regex.VersionOperatorSuffix.ReplaceAllString(id, "")
}

// SearchableNames returns the bare names of every added, removed and updated
// record, deduplicated and in list order.
func SearchableNames(changes models.DependencyChanges) []string {
	seen := make(map[string]struct{})
	var out []string

	push := func(id string) {
		name := BareName(id)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	for _, id := range changes.Added {
		push(id)
	}
	for _, id := range changes.Removed {
		push(id)
	}
	for _, rec := range changes.Updated {
		old, _, _ := strings.Cut(rec, " -> ")
		push(old)
	}
	return out
}

func byBareName(ids map[string]struct{}) map[string][]string {
	out := make(map[string][]string)
	for _, id := range sortedKeys(ids) {
		name := BareName(id)
		out[name] = append(out[name], id)
	}
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCapped(set map[string]struct{}, max int) []string {
	keys := sortedKeys(set)
	if len(keys) > max {
		keys = keys[:max]
	}
	return keys
}

func emptyChanges() models.DependencyChanges {
	return models.DependencyChanges{
		Added:   []string{},
		Removed: []string{},
		Updated: []string{},
	}
}
