package models

import "sort"

// Table holds every declaration of one analysis run, keyed by identity.
// It is not safe for concurrent mutation; merges happen in one goroutine.
type Table struct {
	entries map[string]*Declaration
}

// NewTable creates an empty declaration table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*Declaration)}
}

// Merge inserts d. When the key already exists the first-seen fields are
// kept and IsDeprecated becomes the OR of both hits.
// It returns the stored declaration and whether it was newly inserted.
func (t *Table) Merge(d Declaration) (*Declaration, bool) {
	key := d.Key()
	if existing, ok := t.entries[key]; ok {
		existing.IsDeprecated = existing.IsDeprecated || d.IsDeprecated
		return existing, false
	}
	stored := d
	t.entries[key] = &stored
	return &stored, true
}

// MergeAll merges decls in order.
func (t *Table) MergeAll(decls []Declaration) {
	for _, d := range decls {
		t.Merge(d)
	}
}

// Get returns the declaration stored under key.
func (t *Table) Get(key string) (*Declaration, bool) {
	d, ok := t.entries[key]
	return d, ok
}

// Len returns the number of declarations.
func (t *Table) Len() int {
	return len(t.entries)
}

// Sorted returns pointers to every declaration ordered by location.
func (t *Table) Sorted() []*Declaration {
	out := make([]*Declaration, 0, len(t.entries))
	for _, d := range t.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}

// ByFile groups declarations by file path, each group ordered by location.
func (t *Table) ByFile() map[string][]*Declaration {
	groups := make(map[string][]*Declaration)
	for _, d := range t.Sorted() {
		groups[d.Location.File] = append(groups[d.Location.File], d)
	}
	return groups
}

// OfKind returns declarations of kind k ordered by location.
func (t *Table) OfKind(k Kind) []*Declaration {
	var out []*Declaration
	for _, d := range t.Sorted() {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Files returns the distinct file paths referenced by declarations.
func (t *Table) Files() []string {
	seen := make(map[string]bool)
	var files []string
	for _, d := range t.entries {
		if !seen[d.Location.File] {
			seen[d.Location.File] = true
			files = append(files, d.Location.File)
		}
	}
	sort.Strings(files)
	return files
}

// Snapshot returns a copy of every declaration ordered by location.
func (t *Table) Snapshot() []Declaration {
	sorted := t.Sorted()
	out := make([]Declaration, len(sorted))
	for i, d := range sorted {
		out[i] = *d
	}
	return out
}
