package main

import (
	"fmt"
	"os"

	"divet/internal/diagnostic"
)

// printDiagnostics is the minimal text reporter the CLI needs to have
// something to print; a richer report renderer is an external concern.
func printDiagnostics(diags []diagnostic.Diagnostic) {
	if len(diags) == 0 {
		fmt.Println("No issues found.")
		return
	}

	for _, d := range diags {
		w := os.Stdout
		if d.Severity == diagnostic.SeverityError {
			w = os.Stderr
		}

		prefix := fmt.Sprintf("[%s]", d.Severity)
		loc := ""
		if d.Location != nil {
			loc = fmt.Sprintf(" %s:%d", d.Location.FilePath, d.Location.Line)
		}
		fmt.Fprintf(w, "%s%s %s\n", prefix, loc, d.Message)

		if d.GraphOrigin != nil {
			fmt.Fprintf(w, "    graph root: %s (%s:%d)\n", d.GraphOrigin.FunctionName, d.GraphOrigin.FilePath, d.GraphOrigin.Line)
		}
		for _, line := range d.ContextLines {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}

	fmt.Printf("\n%d diagnostic(s)\n", len(diags))
}
