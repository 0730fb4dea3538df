package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lhaig/sol2clarity/internal/ast"
	"github.com/lhaig/sol2clarity/internal/compiler"
	"github.com/lhaig/sol2clarity/internal/config"
	"github.com/lhaig/sol2clarity/internal/diagnostic"
	"github.com/lhaig/sol2clarity/internal/linter"
	"github.com/lhaig/sol2clarity/internal/manifest"
	"github.com/lhaig/sol2clarity/internal/parser"
)

// errReported is returned after diagnostics were already printed, so main
// only sets the exit status.
var errReported = errors.New("compilation failed")

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "sol2clar",
		Short:         "Translate Solidity contracts to Clarity",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Trace parsing and lowering to stderr")

	root.AddCommand(newBuildCmd(opts))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newLintCmd())
	root.AddCommand(newASTCmd())
	return root
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	if !o.verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newBuildCmd(root *rootOptions) *cobra.Command {
	var (
		outDir       string
		ext          string
		target       string
		withManifest bool
	)
	cmd := &cobra.Command{
		Use:   "build <file.sol>...",
		Short: "Compile each contract to its own Clarity file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out-dir") {
				cfg.Output.Dir = outDir
			}
			if cmd.Flags().Changed("ext") {
				cfg.Output.Extension = ext
			}
			if cmd.Flags().Changed("manifest") {
				cfg.Output.Manifest = withManifest
			}

			reg := compiler.NewSourceRegistry()
			for _, path := range args {
				if err := reg.AddFile(path); err != nil {
					return err
				}
			}

			batch, err := reg.CompileAll(compiler.Options{
				Target:      target,
				Extension:   cfg.Output.Extension,
				Concurrency: cfg.Compile.Concurrency,
				Lint:        cfg.Compile.Lint,
				Logger:      root.logger(cmd.ErrOrStderr()),
			})
			if batch != nil {
				printDiagnostics(cmd, batch.Diagnostics, args[0])
			}
			if err != nil {
				return reported(batch != nil && batch.Diagnostics.HasErrors(), err)
			}

			paths, err := batch.WriteAll(cfg.Output.Dir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", p)
			}

			if cfg.Output.Manifest {
				path := filepath.Join(cfg.Output.Dir, manifestName(args))
				data, err := manifest.Encode(batch.Manifest())
				if err != nil {
					return err
				}
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("failed to write manifest: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out-dir", "o", "", "Directory for generated files (default from config)")
	cmd.Flags().StringVar(&ext, "ext", "", "Output file extension (default from config)")
	cmd.Flags().StringVarP(&target, "target", "t", compiler.DefaultTarget, "Code generation target")
	cmd.Flags().BoolVar(&withManifest, "manifest", false, "Also write a YAML manifest of selectors and emitted names")
	return cmd
}

// manifestName is <base>.manifest.yaml for one input file.
func manifestName(inputs []string) string {
	if len(inputs) != 1 {
		return "sol2clar.manifest.yaml"
	}
	base := strings.TrimSuffix(filepath.Base(inputs[0]), filepath.Ext(inputs[0]))
	return base + ".manifest.yaml"
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.sol>...",
		Short: "Parse and lower without writing output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				source, err := readSource(path)
				if err != nil {
					return err
				}
				diags, err := compiler.Check(source)
				printDiagnostics(cmd, diags, path)
				if err != nil {
					return reported(diags.HasErrors(), err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "No errors found.")
			return nil
		},
	}
}

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <file.sol>",
		Short: "Report constructs that translate lossily",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contracts, err := parseFile(cmd, args[0])
			if err != nil {
				return err
			}

			diags := diagnostic.New()
			for _, c := range contracts {
				diags.Merge("", linter.Lint(c))
			}
			if diags.Count() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No lint warnings.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), diags.Format(args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "%d warning(s) found.\n", diags.Count())
			return nil
		},
	}
}

func newASTCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ast <file.sol>",
		Short: "Print the parsed syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contracts, err := parseFile(cmd, args[0])
			if err != nil {
				return err
			}
			for _, c := range contracts {
				fmt.Fprint(cmd.OutOrStdout(), ast.Print(c))
			}
			return nil
		},
	}
}

// reported swaps err for errReported when its diagnostics were printed.
func reported(printed bool, err error) error {
	if printed {
		return errReported
	}
	return err
}

func parseFile(cmd *cobra.Command, path string) ([]*ast.Contract, error) {
	source, err := readSource(path)
	if err != nil {
		return nil, err
	}
	p := parser.New(source)
	contracts, err := p.Parse()
	if err != nil {
		printDiagnostics(cmd, p.Diagnostics(), path)
		return nil, errReported
	}
	return contracts, nil
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// printDiagnostics writes errors to stderr and warnings to stdout.
func printDiagnostics(cmd *cobra.Command, diags *diagnostic.Diagnostics, file string) {
	if diags == nil {
		return
	}
	for _, d := range diags.All() {
		name := file
		if d.File != "" {
			name = d.File
		}
		w := cmd.OutOrStdout()
		if d.Severity == diagnostic.Error {
			w = cmd.ErrOrStderr()
		}
		fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", name, d.Line, d.Column, d.Severity, d.Message)
		if d.Hint != "" {
			fmt.Fprintf(w, "  hint: %s\n", d.Hint)
		}
	}
}
