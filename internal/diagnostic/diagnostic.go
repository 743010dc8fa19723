// Package diagnostic holds the immutable result records produced by the
// Satisfaction Analyzer and consumed by an external reporter. It has no
// logic beyond construction and the sort order the analyzer relies on.
package diagnostic

import (
	"sort"
	"strings"

	"divet/internal/discover"
)

// Severity classifies a Diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Diagnostic is a single analyzer finding.
type Diagnostic struct {
	Severity     Severity
	Message      string
	Location     *discover.FileLocation
	GraphOrigin  *discover.GraphOrigin
	ContextLines []string
}

// SortByDependencyName sorts diagnostics by the last colon-delimited segment
// of the message (the dependency description), giving a stable,
// name-grouped ordering independent of discovery order.
func SortByDependencyName(diags []Diagnostic) {
	key := func(d Diagnostic) string {
		idx := strings.LastIndex(d.Message, ":")
		if idx == -1 {
			return d.Message
		}
		return strings.TrimSpace(d.Message[idx+1:])
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return key(diags[i]) < key(diags[j])
	})
}

// HasError reports whether any diagnostic in the slice is an error, the
// signal the CLI driver uses for its exit code.
func HasError(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
