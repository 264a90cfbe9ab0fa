package verify

import (
	"sort"

	"github.com/panbanda/husk/pkg/models"
)

// Deprecated marks a deprecated declaration used when another file refers
// to its name in code.
func Deprecated(files map[string]*File, table *models.Table) {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, d := range table.Sorted() {
		if !d.IsDeprecated || d.IsUsed() || d.Kind == models.KindConsole || d.Kind == models.KindDependency {
			continue
		}
		for _, p := range paths {
			if p == d.Location.File {
				continue
			}
			if files[p].hasUsage(usageQuery{name: d.Name, memberAccess: d.Kind == models.KindProp}) {
				d.IsImportedExternally = true
				break
			}
		}
	}
}
