package main

import (
	"encoding/json"
	"os"

	"github.com/klauspost/compress/gzip"

	"divet/internal/diagnostic"
	"divet/internal/discover"
)

// debugBundle is the dump written by --debug-bundle: everything discovered
// plus the diagnostics produced from it, independent of the cache's own
// uncompressed manifest format.
type debugBundle struct {
	Results     *discover.ScanResults  `json:"results"`
	Diagnostics []debugBundleDiagnostic `json:"diagnostics"`
}

type debugBundleDiagnostic struct {
	Severity     string   `json:"severity"`
	Message      string   `json:"message"`
	ContextLines []string `json:"contextLines,omitempty"`
}

func writeDebugBundle(path string, results *discover.ScanResults, diags []diagnostic.Diagnostic) error {
	bundle := debugBundle{Results: results}
	for _, d := range diags {
		bundle.Diagnostics = append(bundle.Diagnostics, debugBundleDiagnostic{
			Severity:     string(d.Severity),
			Message:      d.Message,
			ContextLines: d.ContextLines,
		})
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gw := gzip.NewWriter(f)
	defer gw.Close()

	_, err = gw.Write(data)
	return err
}
