// Package aggregate implements the Scan Aggregator (C4): a pure reduction
// of per-file ScannedFileData records into the by-module ScanResults
// indexes C5 and C7 consume.
package aggregate

import "divet/internal/discover"

// Reduce merges files into a ScanResults. Duplicates are preserved (lists,
// not sets) since later diagnostics need the location of every individual
// occurrence, and ProvidedInputs are indexed by their own TargetModule
// rather than by the scanning file's module.
func Reduce(files []discover.ScannedFileData) *discover.ScanResults {
	results := discover.NewScanResults()

	seenNodeTypes := make(map[string]bool)

	for _, f := range files {
		if f.Node != nil {
			// Duplicates across files keep the first: a type name
			// re-registered by a later file is silently dropped rather than
			// overwriting or merging with the earlier one.
			if !seenNodeTypes[f.Node.TypeName] {
				seenNodeTypes[f.Node.TypeName] = true
				results.Nodes = append(results.Nodes, *f.Node)
				results.Requirements[f.Node.ModuleName] = append(results.Requirements[f.Node.ModuleName], f.Node.Requirements...)
				results.InputRequirements[f.Node.ModuleName] = append(results.InputRequirements[f.Node.ModuleName], f.Node.InputRequirements...)
			}
		}

		results.Roots = append(results.Roots, f.Roots...)
		results.Edges = append(results.Edges, f.Edges...)

		results.Provisions[f.ModuleName] = append(results.Provisions[f.ModuleName], f.Provisions...)

		for _, pi := range f.ProvidedInputs {
			results.ProvidedInputs[pi.TargetModule] = append(results.ProvidedInputs[pi.TargetModule], pi)
		}
	}

	return results
}
