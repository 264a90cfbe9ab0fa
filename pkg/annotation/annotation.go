// Package annotation interprets the comment markers that suppress detection
// for a line or a whole file, and the @deprecated marker.
package annotation

import (
	"strings"

	"github.com/panbanda/husk/pkg/lexical"
)

// Markers recognised in comments.
const (
	IgnoreMarker     = "@husk-ignore"
	FileIgnoreMarker = "@husk-ignore-file"
	DeprecatedMarker = "@deprecated"
)

// DefaultContextLines is how far above a declaration an ignore marker may sit.
const DefaultContextLines = 3

// DeprecationLookback is how far above a declaration @deprecated is searched.
const DeprecationLookback = 10

// Analyzer answers suppression and deprecation questions for a file's lines.
// It holds no per-file state and is safe for concurrent use.
type Analyzer struct {
	enabled      bool
	contextLines int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithEnabled toggles ignore markers. Deprecation lookup is unaffected.
func WithEnabled(enabled bool) Option {
	return func(a *Analyzer) {
		a.enabled = enabled
	}
}

// WithContextLines sets the lookback window for line-level ignore markers.
func WithContextLines(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.contextLines = n
		}
	}
}

// New creates an annotation analyzer with markers enabled and the default
// context window.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		enabled:      true,
		contextLines: DefaultContextLines,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether ignore markers are honoured.
func (a *Analyzer) Enabled() bool {
	return a.enabled
}

// ContextLines returns the configured lookback window.
func (a *Analyzer) ContextLines() int {
	return a.contextLines
}

// ShouldIgnoreDeclaration reports whether the declaration on lines[idx] is
// suppressed by a marker on that line or the line directly above it.
func (a *Analyzer) ShouldIgnoreDeclaration(lines []string, idx int) bool {
	if !a.enabled || idx < 0 || idx >= len(lines) {
		return false
	}
	if hasIgnoreMarker(lines[idx]) {
		return true
	}
	return idx > 0 && hasIgnoreMarker(lines[idx-1])
}

// ShouldIgnoreDeclarationWithContext extends the lookback to the configured
// number of lines, stopping at the first non-empty line that is not a
// comment. Markers never reach through code.
func (a *Analyzer) ShouldIgnoreDeclarationWithContext(lines []string, idx int) bool {
	if !a.enabled || idx < 0 || idx >= len(lines) {
		return false
	}
	if hasIgnoreMarker(lines[idx]) {
		return true
	}
	return lookback(lines, idx, a.contextLines, func(line string) bool {
		return containsMarker(line, IgnoreMarker)
	})
}

// ShouldIgnoreFile reports whether a file-level marker appears in a comment
// before the first line of code. A marker after code has started is inert.
func (a *Analyzer) ShouldIgnoreFile(lines []string) bool {
	if !a.enabled {
		return false
	}
	inBlock := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !inBlock && !lexical.IsComment(trimmed) {
			return false
		}
		if containsMarker(trimmed, FileIgnoreMarker) {
			return true
		}
		inBlock = blockStateForward(trimmed, inBlock)
	}
	return false
}

// IsDeprecated reports whether @deprecated appears in the trailing comment of
// lines[idx] or in the comment block directly above it, within
// DeprecationLookback lines.
func (a *Analyzer) IsDeprecated(lines []string, idx int) bool {
	if idx < 0 || idx >= len(lines) {
		return false
	}
	if containsMarker(lexical.CommentText(lines[idx]), DeprecatedMarker) {
		return true
	}
	return lookback(lines, idx, DeprecationLookback, func(line string) bool {
		return containsMarker(line, DeprecatedMarker)
	})
}

// lookback walks upward from idx-1 at most window lines. Blank lines are
// skipped, comment lines are tested with match, and the first code line
// ends the walk unsuccessfully.
func lookback(lines []string, idx, window int, match func(string) bool) bool {
	inBlock := false
	for i := idx - 1; i >= 0 && i >= idx-window; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if !inBlock && !lexical.IsComment(trimmed) {
			return false
		}
		if match(trimmed) {
			return true
		}
		inBlock = blockStateBackward(trimmed, inBlock)
	}
	return false
}

// blockStateForward updates the inside-block-comment state after reading
// line top to bottom.
func blockStateForward(line string, inBlock bool) bool {
	open := strings.LastIndex(line, "/*")
	closeIdx := strings.LastIndex(line, "*/")
	if open >= 0 && open > closeIdx {
		return true
	}
	if closeIdx >= 0 {
		return false
	}
	return inBlock
}

// blockStateBackward updates the inside-block-comment state after reading
// line bottom to top: a closer without a later opener means the lines above
// belong to the block.
func blockStateBackward(line string, inBlock bool) bool {
	open := strings.Index(line, "/*")
	closeIdx := strings.Index(line, "*/")
	if closeIdx >= 0 && (open < 0 || open > closeIdx) {
		return true
	}
	if open >= 0 {
		return false
	}
	return inBlock
}

func hasIgnoreMarker(line string) bool {
	return containsMarker(lexical.CommentText(line), IgnoreMarker)
}

// containsMarker reports whether marker occurs in text and is not the prefix
// of a longer marker (so @husk-ignore does not match @husk-ignore-file).
func containsMarker(text, marker string) bool {
	from := 0
	for {
		i := strings.Index(text[from:], marker)
		if i < 0 {
			return false
		}
		end := from + i + len(marker)
		if end >= len(text) || (!lexical.IsIdentifierChar(text[end]) && text[end] != '-') {
			return true
		}
		from = end
	}
}
