package verify

import (
	"strings"

	"github.com/panbanda/husk/pkg/models"
)

// Dependencies marks a manifest dependency used when any file imports it
// statically, for side effects, through a re-export, with require or with a
// dynamic import, either as the package itself or a subpath of it. A
// @types/ package is used when the package it describes is.
func Dependencies(files map[string]*File, table *models.Table) {
	deps := table.OfKind(models.KindDependency)
	if len(deps) == 0 {
		return
	}

	referenced := make(map[string]bool)
	for _, f := range files {
		for _, spec := range f.Specifiers() {
			if pkg := packageName(spec); pkg != "" {
				referenced[pkg] = true
			}
		}
	}

	for _, d := range deps {
		if d.IsUsed() {
			continue
		}
		if referenced[d.Name] || referenced[typesTarget(d.Name)] {
			d.IsUsedLocally = true
		}
	}
}

// packageName returns the package a bare module specifier refers to, or ""
// for relative, absolute and builtin-scheme specifiers.
func packageName(spec string) string {
	if spec == "" || strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") || strings.Contains(spec, ":") {
		return ""
	}
	parts := strings.SplitN(spec, "/", 3)
	if strings.HasPrefix(spec, "@") {
		if len(parts) < 2 {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// typesTarget maps @types/name to name and @types/scope__name to
// @scope/name. Other names map to "".
func typesTarget(name string) string {
	rest, ok := strings.CutPrefix(name, "@types/")
	if !ok || rest == "" {
		return ""
	}
	if scope, pkg, found := strings.Cut(rest, "__"); found {
		return "@" + scope + "/" + pkg
	}
	return rest
}
