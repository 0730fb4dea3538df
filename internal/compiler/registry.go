package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lhaig/sol2clarity/internal/diagnostic"
	"github.com/lhaig/sol2clarity/internal/manifest"
)

// SourceRegistry holds a batch of source files compiled into one output
// directory. Files keep the order they were added in; a path added twice
// is compiled once.
type SourceRegistry struct {
	files   []string          // absolute paths in insertion order
	sources map[string]string // absolute path -> source text
}

// FileResult is the compilation of one registered file.
type FileResult struct {
	Path   string
	Result *Result
}

// BatchResult collects every file's outputs plus the merged diagnostics,
// with each diagnostic stamped with the file it came from.
type BatchResult struct {
	Files       []*FileResult
	Diagnostics *diagnostic.Diagnostics
}

// NewSourceRegistry creates an empty registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{sources: make(map[string]string)}
}

// AddFile reads path from disk and registers it.
func (r *SourceRegistry) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	source, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	r.AddSource(absPath, string(source))
	return nil
}

// AddSource registers in-memory source under name.
func (r *SourceRegistry) AddSource(name, source string) {
	if _, ok := r.sources[name]; !ok {
		r.files = append(r.files, name)
	}
	r.sources[name] = source
}

// Files returns the registered names in insertion order.
func (r *SourceRegistry) Files() []string {
	return append([]string(nil), r.files...)
}

// CompileAll compiles every registered file. The first file that fails
// aborts the batch; its error is wrapped with the file name. After all
// files compile, two contracts that would be written to the same output
// file are reported as an error diagnostic and fail the batch.
func (r *SourceRegistry) CompileAll(opts Options) (*BatchResult, error) {
	batch := &BatchResult{Diagnostics: diagnostic.New()}

	for _, file := range r.files {
		res, err := Compile(r.sources[file], opts)
		batch.Diagnostics.Merge(file, res.Diagnostics)
		if err != nil {
			return batch, fmt.Errorf("%s: %w", file, err)
		}
		batch.Files = append(batch.Files, &FileResult{Path: file, Result: res})
	}

	if collisions := r.checkCollisions(batch); collisions.HasErrors() {
		batch.Diagnostics.Merge("", collisions)
		return batch, fmt.Errorf("output file collisions:\n%s", collisions.Format(""))
	}
	return batch, nil
}

// checkCollisions reports output file names claimed by more than one
// contract across the batch.
func (r *SourceRegistry) checkCollisions(batch *BatchResult) *diagnostic.Diagnostics {
	diags := diagnostic.New()
	owners := make(map[string]string) // output file -> "Contract (file)"

	for _, fr := range batch.Files {
		for _, out := range fr.Result.Outputs {
			origin := fmt.Sprintf("%s (%s)", out.Name, fr.Path)
			if prev, ok := owners[out.FileName]; ok {
				single := diagnostic.New()
				single.Errorf(out.Contract.Line, out.Contract.Column,
					"output file %s is produced by both %s and %s", out.FileName, prev, origin)
				diags.Merge(fr.Path, single)
				continue
			}
			owners[out.FileName] = origin
		}
	}
	return diags
}

// Outputs flattens the batch into declaration order across files.
func (b *BatchResult) Outputs() []*Output {
	var outs []*Output
	for _, fr := range b.Files {
		outs = append(outs, fr.Result.Outputs...)
	}
	return outs
}

// Manifest builds manifest entries for the whole batch.
func (b *BatchResult) Manifest() []*manifest.Contract {
	var entries []*manifest.Contract
	for _, fr := range b.Files {
		entries = append(entries, fr.Result.Manifest()...)
	}
	return entries
}

// WriteAll writes every output of the batch into dir.
func (b *BatchResult) WriteAll(dir string) ([]string, error) {
	return WriteOutputs(&Result{Outputs: b.Outputs()}, dir)
}
