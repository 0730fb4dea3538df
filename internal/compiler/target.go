package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lhaig/sol2clarity/internal/backend"
)

// getBackend returns the appropriate backend for the given target
func getBackend(target string) (backend.Backend, error) {
	if target == "" {
		target = DefaultTarget
	}
	return backend.Lookup(target)
}

// OutputFileName returns the file a contract's translation is written to:
// the lower-cased contract name plus ext.
func OutputFileName(contractName, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.ToLower(contractName) + ext
}

// WriteOutputs writes one file per output into dir, in declaration order,
// and returns the written paths.
func WriteOutputs(res *Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	paths := make([]string, 0, len(res.Outputs))
	for _, out := range res.Outputs {
		path := filepath.Join(dir, out.FileName)
		if err := os.WriteFile(path, []byte(out.Source), 0644); err != nil {
			return paths, fmt.Errorf("failed to write output file: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
