// Package grouping holds the session's single source of truth mapping each
// distinct material description to its assigned pricing group.
package grouping

import (
	"sort"
	"strings"
)

// Entry tracks one distinct material description. InitialGroup is computed
// once, the first time the material is seen, and is never rewritten.
// AssignedGroup is the only operator-mutable field.
type Entry struct {
	Material      string
	InitialGroup  string
	AssignedGroup string
}

// Store is session-scoped and reconciled against the current dataset's
// materials on every load. Not safe for concurrent use; callers serialize
// access per session.
type Store struct {
	entries  map[string]*Entry
	classify func(string) string
}

func NewStore(classify func(string) string) *Store {
	return &Store{
		entries:  make(map[string]*Entry),
		classify: classify,
	}
}

// Reconcile aligns the store with the materials present in the current
// dataset: unseen materials get a fresh entry with InitialGroup =
// AssignedGroup = classify(material), entries for absent materials are
// dropped. Entries that survive keep their AssignedGroup untouched, so
// reconciliation never resets a manual override.
func (s *Store) Reconcile(currentMaterials []string) {
	present := make(map[string]struct{}, len(currentMaterials))
	for _, m := range currentMaterials {
		if m == "" {
			continue
		}
		present[m] = struct{}{}
		if _, ok := s.entries[m]; !ok {
			g := s.classify(m)
			s.entries[m] = &Entry{Material: m, InitialGroup: g, AssignedGroup: g}
		}
	}
	for m := range s.entries {
		if _, ok := present[m]; !ok {
			delete(s.entries, m)
		}
	}
}

// Reassign sets the assigned group for one material. The group need not
// already exist. Unknown materials and blank groups are ignored.
func (s *Store) Reassign(materialDesc, newGroup string) bool {
	newGroup = strings.TrimSpace(newGroup)
	e, ok := s.entries[materialDesc]
	if !ok || newGroup == "" {
		return false
	}
	e.AssignedGroup = newGroup
	return true
}

// Merge rewrites every entry whose AssignedGroup is in groupsToMerge to the
// target name, returning the number of entries rewritten. A blank target or
// an empty group set is silently a no-op. InitialGroup is left alone so the
// automatic classification stays auditable.
func (s *Store) Merge(groupsToMerge []string, target string) int {
	target = strings.TrimSpace(target)
	if target == "" || len(groupsToMerge) == 0 {
		return 0
	}
	merge := make(map[string]struct{}, len(groupsToMerge))
	for _, g := range groupsToMerge {
		if g = strings.TrimSpace(g); g != "" {
			merge[g] = struct{}{}
		}
	}
	if len(merge) == 0 {
		return 0
	}
	n := 0
	for _, e := range s.entries {
		if _, ok := merge[e.AssignedGroup]; ok && e.AssignedGroup != target {
			e.AssignedGroup = target
			n++
		}
	}
	return n
}

// Resolve returns the assigned group for a material. Materials unknown to the
// store (possible only before reconcile) fall back to a fresh classification.
func (s *Store) Resolve(materialDesc string) string {
	if e, ok := s.entries[materialDesc]; ok {
		return e.AssignedGroup
	}
	return s.classify(materialDesc)
}

// Entries returns all entries sorted by material for deterministic output.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Material < out[j].Material })
	return out
}

// Groups returns the distinct assigned groups, sorted.
func (s *Store) Groups() []string {
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		seen[e.AssignedGroup] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int { return len(s.entries) }
