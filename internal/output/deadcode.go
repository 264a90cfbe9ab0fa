package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/panbanda/husk/pkg/models"
)

// DeadCodeReport renders an analysis result. Locations are shown relative to
// Root when possible.
type DeadCodeReport struct {
	Result *models.AnalysisResult
	Root   string
}

// NewDeadCodeReport wraps res for rendering.
func NewDeadCodeReport(res *models.AnalysisResult, root string) *DeadCodeReport {
	return &DeadCodeReport{Result: res, Root: root}
}

func (r *DeadCodeReport) RenderData() any {
	return r.Result
}

func (r *DeadCodeReport) RenderText(w io.Writer, colored bool) error {
	return r.build(colored).RenderText(w, colored)
}

func (r *DeadCodeReport) RenderMarkdown(w io.Writer) error {
	return r.build(false).RenderMarkdown(w)
}

func (r *DeadCodeReport) build(colored bool) *Report {
	res := r.Result
	report := &Report{Title: "Dead Code Analysis"}
	report.Sections = append(report.Sections, r.summary())

	if len(res.DeadCode) == 0 {
		report.Sections = append(report.Sections, &Section{Content: "No dead code found."})
	} else {
		report.Sections = append(report.Sections,
			r.declarationTable("Unused Declarations", res.DeadCode, colored),
			r.kindTable(),
		)
	}
	if len(res.Deprecated) > 0 {
		report.Sections = append(report.Sections, r.declarationTable("Deprecated", res.Deprecated, colored))
	}
	if len(res.LocalOnlyExports) > 0 {
		report.Sections = append(report.Sections, r.declarationTable("Local-only Exports", res.LocalOnlyExports, colored))
	}
	return report
}

func (r *DeadCodeReport) summary() *Section {
	s := r.Result.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "Declarations:       %d\n", s.TotalDeclarations)
	fmt.Fprintf(&b, "Used:               %d\n", s.Used)
	fmt.Fprintf(&b, "Unused:             %d\n", s.Unused)
	fmt.Fprintf(&b, "Deprecated:         %d\n", s.Deprecated)
	fmt.Fprintf(&b, "Local-only exports: %d\n", s.LocalOnlyExports)
	fmt.Fprintf(&b, "Duration:           %dms", r.Result.DurationMillis)
	return &Section{Title: "Summary", Content: b.String()}
}

func (r *DeadCodeReport) declarationTable(title string, decls []models.Declaration, colored bool) *Table {
	rows := make([][]string, 0, len(decls))
	for _, d := range decls {
		kind := string(d.Kind)
		if colored {
			kind = KindColor(d.Kind, kind)
		}
		rows = append(rows, []string{r.location(d.Location), kind, d.Name, d.Context})
	}
	footer := []string{fmt.Sprintf("%d total", len(decls)), "", "", ""}
	return NewTable(title, []string{"Location", "Kind", "Name", "Context"}, rows, footer, decls)
}

func (r *DeadCodeReport) kindTable() *Table {
	var rows [][]string
	for _, k := range models.Kinds() {
		if n := r.Result.Summary.DeadByKind[k]; n > 0 {
			rows = append(rows, []string{string(k), strconv.Itoa(n)})
		}
	}
	return NewTable("Unused by Kind", []string{"Kind", "Count"}, rows, nil, r.Result.Summary.DeadByKind)
}

func (r *DeadCodeReport) location(loc models.Location) string {
	file := loc.File
	if r.Root != "" {
		if rel, err := filepath.Rel(r.Root, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}
	return fmt.Sprintf("%s:%d:%d", filepath.ToSlash(file), loc.Line, loc.Column)
}
