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

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

// Generator runs every module definition through one dsl.Session.
type Generator struct {
	Modules []Module
	Decls   io.Writer // declarations output, nil to skip
	Impls   io.Writer // implementations output, nil to skip
	Logger  *zap.Logger

	// KeepGoing makes Run succeed even if some definitions were rejected.
	KeepGoing bool
}

// moduleTitle converts a module name to the form used in banners, e.g.
// "math" -> "Math".
func moduleTitle(name string) string {
	return cases.Title(language.English).String(name)
}

// banner returns the header written once at the top of each output.
func (g *Generator) banner() string {
	names := lo.Map(g.Modules, func(m Module, _ int) string { return moduleTitle(m.Name) })
	return fmt.Sprintf("/* Code generated by oclgen from %s. DO NOT EDIT. */\n", strings.Join(names, ", "))
}

// Run executes the generation. Rejected definitions are logged and skipped;
// unless KeepGoing is set, Run then reports them as an error once every
// definition has been tried.
func (g *Generator) Run() error {
	logger := g.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	banner := g.banner()
	for _, w := range []io.Writer{g.Decls, g.Impls} {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, banner); err != nil {
			return fmt.Errorf("write banner: %w", err)
		}
	}

	session := dsl.NewSession(g.Decls, g.Impls, dsl.WithLogger(logger))
	for _, m := range g.Modules {
		logger.Debug("Generating module", zap.String("module", m.Name), zap.Int("definitions", len(m.Entries)))
		for _, e := range m.Entries {
			if err := session.Define(e.Proto, e.Configure); err != nil {
				return fmt.Errorf("module %s: %w", m.Name, err)
			}
		}
	}

	stats := session.Stats()
	logger.Info("Generation finished",
		zap.Int("definitions", stats.Definitions),
		zap.Int("instances", stats.Instances),
		zap.Int("failed", stats.Failed))

	if stats.Failed > 0 && !g.KeepGoing {
		return fmt.Errorf("%d of %d definitions failed: %w", stats.Failed, stats.Definitions, session.Err())
	}
	return nil
}
