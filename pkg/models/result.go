package models

import (
	"encoding/json"
	"time"
)

// Summary provides aggregate statistics for a run.
type Summary struct {
	TotalDeclarations int            `json:"total_declarations" toon:"total_declarations"`
	Used              int            `json:"used" toon:"used"`
	Unused            int            `json:"unused" toon:"unused"`
	Deprecated        int            `json:"deprecated" toon:"deprecated"`
	LocalOnlyExports  int            `json:"local_only_exports" toon:"local_only_exports"`
	DeadByKind        map[Kind]int   `json:"dead_by_kind" toon:"-"`
	DeadByFile        map[string]int `json:"dead_by_file" toon:"-"`
}

// AnalysisResult is the outcome of one detection plus verification run.
type AnalysisResult struct {
	Declarations     *Table        `json:"-" toon:"-"`
	DeadCode         []Declaration `json:"dead_code" toon:"dead_code"`
	Deprecated       []Declaration `json:"deprecated" toon:"deprecated"`
	LocalOnlyExports []Declaration `json:"local_only_exports" toon:"local_only_exports"`
	Summary          Summary       `json:"summary" toon:"summary"`
	Duration         time.Duration `json:"-" toon:"-"`
	DurationMillis   int64         `json:"duration_ms" toon:"duration_ms"`
}

// NewAnalysisResult extracts the dead, deprecated and local-only subsets
// from a verified table. The table is not modified.
func NewAnalysisResult(table *Table, duration time.Duration) *AnalysisResult {
	r := &AnalysisResult{
		Declarations:     table,
		DeadCode:         make([]Declaration, 0),
		Deprecated:       make([]Declaration, 0),
		LocalOnlyExports: make([]Declaration, 0),
		Duration:         duration,
		DurationMillis:   duration.Milliseconds(),
		Summary: Summary{
			DeadByKind: make(map[Kind]int),
			DeadByFile: make(map[string]int),
		},
	}

	for _, d := range table.Sorted() {
		r.Summary.TotalDeclarations++
		if d.IsUsed() {
			r.Summary.Used++
		} else {
			r.Summary.Unused++
			r.DeadCode = append(r.DeadCode, *d)
			r.Summary.DeadByKind[d.Kind]++
			r.Summary.DeadByFile[d.Location.File]++
		}
		if d.IsDeprecated {
			r.Deprecated = append(r.Deprecated, *d)
		}
		if IsLocalOnlyExport(d) {
			r.LocalOnlyExports = append(r.LocalOnlyExports, *d)
		}
	}
	r.Summary.Deprecated = len(r.Deprecated)
	r.Summary.LocalOnlyExports = len(r.LocalOnlyExports)
	return r
}

// IsLocalOnlyExport reports an export used in its own file but never
// imported elsewhere. Default exports never qualify.
func IsLocalOnlyExport(d *Declaration) bool {
	return d.Kind == KindExport &&
		!d.IsDefaultExport() &&
		d.IsUsedLocally &&
		!d.IsImportedExternally
}

// DeadCodeOfKind returns the dead declarations of kind k.
func (r *AnalysisResult) DeadCodeOfKind(k Kind) []Declaration {
	var out []Declaration
	for _, d := range r.DeadCode {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// HasDeadCode reports whether any declaration is unused.
func (r *AnalysisResult) HasDeadCode() bool {
	return len(r.DeadCode) > 0
}

// MarshalJSON includes the full declaration list alongside the derived sets.
func (r *AnalysisResult) MarshalJSON() ([]byte, error) {
	type alias AnalysisResult
	var all []Declaration
	if r.Declarations != nil {
		all = r.Declarations.Snapshot()
	}
	return json.Marshal(struct {
		*alias
		Declarations []Declaration `json:"declarations"`
	}{
		alias:        (*alias)(r),
		Declarations: all,
	})
}
