// Copyright 2025 oclgen Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command oclgen generates the overloaded, type-specialized declarations and
// implementations of the OpenCL C built-in library.
//
// Usage:
//
//	oclgen -d builtins.h -i builtins.cl             # built-in math catalog
//	oclgen -c math.yaml -c common.yaml -d builtins.h
//	oclgen list -c math.yaml
//	oclgen parse "gentype acospi(gentype x)"
//
// Each definition gives a prototype written against gentype, a scalar body
// and the types to instantiate it at. Scalar instantiations get the body;
// vector instantiations get a body calling the scalar overload once per lane.
// Declarations and implementations go to two independent outputs, either of
// which may be omitted; "-" writes to standard output.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

type options struct {
	declPath  string
	implPath  string
	catalogs  []string
	verbose   bool
	keepGoing bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	logger := zap.NewNop()

	cmd := &cobra.Command{
		Use:   "oclgen",
		Short: "OpenCL C generic library generator",
		Long: `oclgen expands compact built-in definitions into overloaded OpenCL C
declarations and implementations, one per instantiation type.

Without --catalog the built-in math catalog is generated.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, logger)
		},
	}

	cmd.PersistentFlags().StringArrayVarP(&opts.catalogs, "catalog", "c", nil, "read definitions from YAML catalog `F` (repeatable)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().StringVarP(&opts.declPath, "gen-decl", "d", "", "write function declarations in file `F`")
	cmd.Flags().StringVarP(&opts.implPath, "gen-impl", "i", "", "generate implementations in file `F`")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "exit successfully even if some definitions are rejected")

	cmd.AddCommand(newListCmd(opts), newParseCmd())
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, logger *zap.Logger) (err error) {
	modules, err := loadModules(opts.catalogs)
	if err != nil {
		return err
	}

	decls, closeDecls, err := openOutput(cmd, opts.declPath)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeDecls()) }()

	impls, closeImpls, err := openOutput(cmd, opts.implPath)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, closeImpls()) }()

	if decls == nil && impls == nil {
		logger.Warn("No output selected, definitions are only checked")
	}

	gen := &Generator{
		Modules:   modules,
		Decls:     decls,
		Impls:     impls,
		Logger:    logger,
		KeepGoing: opts.keepGoing,
	}
	return gen.Run()
}

// openOutput opens path for writing. An empty path yields a nil writer,
// "-" the command's standard output.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	noop := func() error { return nil }
	switch path {
	case "":
		return nil, noop, nil
	case "-":
		return cmd.OutOrStdout(), noop, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open output: %w", err)
	}
	return f, f.Close, nil
}

// loadModules reads the catalog files, or returns the built-in catalog when
// none is given.
func loadModules(paths []string) ([]Module, error) {
	if len(paths) == 0 {
		return []Module{MathModule()}, nil
	}

	modules := make([]Module, 0, len(paths))
	for _, path := range paths {
		c, err := LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		modules = append(modules, c.Module())
	}
	return modules, nil
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the prototypes of the selected catalogs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			modules, err := loadModules(opts.catalogs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range modules {
				fmt.Fprintf(out, "%s (%d)\n", moduleTitle(m.Name), len(m.Entries))
				for _, e := range m.Entries {
					fmt.Fprintf(out, "  %s\n", e.Proto)
				}
			}
			return nil
		},
	}
}

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse PROTOTYPE",
		Short: "Parse a prototype and print its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proto, err := dsl.ParsePrototype(args[0])
			if err != nil {
				var grammarErr *dsl.GrammarError
				if errors.As(err, &grammarErr) {
					fmt.Fprintln(cmd.ErrOrStderr(), grammarErr.Caret())
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:    %s\n", proto.Name)
			fmt.Fprintf(out, "return:  %s\n", proto.Return)
			fmt.Fprintf(out, "generic: %t\n", proto.IsGeneric())
			fmt.Fprintf(out, "args:\n")
			for i, arg := range proto.Args {
				fmt.Fprintf(out, "  %d: %s\n", i, arg)
			}
			return nil
		},
	}
}
