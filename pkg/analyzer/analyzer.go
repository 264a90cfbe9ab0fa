// Package analyzer holds what the detection and verification phases share:
// phase names and the progress tracker carried through the context.
package analyzer

import "context"

// Phase names an analysis pass.
type Phase string

const (
	PhaseDetection    Phase = "detection"
	PhaseVerification Phase = "verification"
)

// String returns the phase name.
func (p Phase) String() string {
	return string(p)
}

// Analyzer is implemented by engines that analyze a project tree.
type Analyzer[T any] interface {
	// Analyze processes the tree under root and returns the result.
	// The context carries cancellation and the progress tracker.
	Analyze(ctx context.Context, root string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
