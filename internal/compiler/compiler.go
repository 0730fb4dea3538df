package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/lhaig/sol2clarity/internal/ast"
	"github.com/lhaig/sol2clarity/internal/backend"
	"github.com/lhaig/sol2clarity/internal/diagnostic"
	"github.com/lhaig/sol2clarity/internal/ir"
	"github.com/lhaig/sol2clarity/internal/linter"
	"github.com/lhaig/sol2clarity/internal/manifest"
	"github.com/lhaig/sol2clarity/internal/parser"
)

// ErrInternal marks a lowered contract that failed IR validation. It always
// indicates a compiler bug rather than a problem with the input.
var ErrInternal = errors.New("internal compiler error")

// DefaultTarget is the backend used when Options.Target is empty.
const DefaultTarget = "clarity"

// Options controls a compilation. The zero value is usable.
type Options struct {
	Target      string // backend name; DefaultTarget when empty
	Extension   string // output file extension; the backend's when empty
	Concurrency int    // contracts lowered in parallel; 1 when < 1
	Lint        bool   // collect lint warnings into Result.Diagnostics
	Logger      *slog.Logger
}

// Output is the translation of one contract.
type Output struct {
	Name     string // contract name as declared
	FileName string // suggested file name, see OutputFileName
	Source   string
	Contract *ast.Contract
	IR       *ir.Contract
}

// Result holds the output of a compilation. Outputs follow the declaration
// order of the contracts in the source file.
type Result struct {
	Outputs     []*Output
	Diagnostics *diagnostic.Diagnostics
}

// Manifest builds the manifest entries for every output.
func (r *Result) Manifest() []*manifest.Contract {
	entries := make([]*manifest.Contract, 0, len(r.Outputs))
	for _, out := range r.Outputs {
		entries = append(entries, manifest.Build(out.Contract, out.FileName))
	}
	return entries
}

// Compile runs the full pipeline: parse -> lower -> validate -> generate,
// once per contract in source. Parse errors are *parser.Error values; the
// returned Result is never nil and carries the recorded diagnostics.
func Compile(source string, opts Options) (*Result, error) {
	res := &Result{Diagnostics: diagnostic.New()}
	logger := opts.logger()

	be, err := getBackend(opts.Target)
	if err != nil {
		return res, err
	}
	ext := opts.Extension
	if ext == "" {
		ext = be.Extension()
	}

	p := parser.New(source, parser.WithLogger(logger))
	contracts, err := p.Parse()
	res.Diagnostics.Merge("", p.Diagnostics())
	if err != nil {
		return res, err
	}
	logger.Debug("parsed", "contracts", len(contracts))

	outputs := make([]*Output, len(contracts))
	lints := make([]*diagnostic.Diagnostics, len(contracts))

	var g errgroup.Group
	g.SetLimit(opts.concurrency())
	for i, c := range contracts {
		i, c := i, c
		g.Go(func() error {
			out, err := translate(c, be, ext)
			if err != nil {
				return err
			}
			outputs[i] = out
			if opts.Lint {
				lints[i] = linter.Lint(c)
			}
			logger.Debug("translated", "contract", c.Name, "file", out.FileName)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	res.Outputs = outputs
	for _, d := range lints {
		res.Diagnostics.Merge("", d)
	}
	return res, nil
}

// translate lowers and renders one contract.
func translate(c *ast.Contract, be backend.Backend, ext string) (*Output, error) {
	lowered := ir.Lower(c)
	if problems := ir.Validate(lowered); len(problems) > 0 {
		return nil, fmt.Errorf("%w: contract %s: %s", ErrInternal, c.Name, strings.Join(problems, "; "))
	}
	return &Output{
		Name:     c.Name,
		FileName: OutputFileName(c.Name, ext),
		Source:   be.Generate(lowered),
		Contract: c,
		IR:       lowered,
	}, nil
}

// Check runs parse + lower + validate + lint only (no codegen). Lint
// warnings are included; the error is the first parse or internal error.
func Check(source string) (*diagnostic.Diagnostics, error) {
	diags := diagnostic.New()

	p := parser.New(source)
	contracts, err := p.Parse()
	diags.Merge("", p.Diagnostics())
	if err != nil {
		return diags, err
	}

	for _, c := range contracts {
		if problems := ir.Validate(ir.Lower(c)); len(problems) > 0 {
			return diags, fmt.Errorf("%w: contract %s: %s", ErrInternal, c.Name, strings.Join(problems, "; "))
		}
		diags.Merge("", linter.Lint(c))
	}
	return diags, nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}
