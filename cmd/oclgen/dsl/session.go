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

package dsl

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Failure records a definition that was rejected.
type Failure struct {
	Prototype string
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Prototype, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Stats counts what a session did.
type Stats struct {
	Definitions int // definitions started
	Failed      int // definitions rejected with a DSL error
	Instances   int // instantiations written
}

// Session writes definitions to two optional outputs, one for declarations
// and one for implementations. A nil output skips that category.
// Sessions are not safe for concurrent use.
type Session struct {
	decls  io.Writer
	impls  io.Writer
	logger *zap.Logger

	failures []Failure
	stats    Stats
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the diagnostic channel. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession returns a session writing declarations to decls and
// implementations to impls. Either may be nil.
func NewSession(decls, impls io.Writer, opts ...Option) *Session {
	s := &Session{
		decls:  decls,
		impls:  impls,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin parses proto and returns a function with pure and inline set.
// Nothing is written until the function's Finish is called.
func (s *Session) Begin(proto string) (*Function, error) {
	p, err := ParsePrototype(proto)
	if err != nil {
		return nil, err
	}
	return newFunction(p, s), nil
}

// Define runs one definition: proto is parsed, configure fills in the
// function, and the result is emitted. DSL errors (grammar, configuration
// and template errors) are logged, recorded and swallowed, so generation
// carries on with the next definition. Other errors, such as a failed
// write, are returned.
func (s *Session) Define(proto string, configure func(f *Function) error) error {
	s.stats.Definitions++

	err := s.define(proto, configure)
	if err == nil || !IsDSLError(err) {
		return err
	}

	s.stats.Failed++
	s.failures = append(s.failures, Failure{Prototype: proto, Err: err})

	fields := []zap.Field{zap.String("prototype", proto), zap.Error(err)}
	var grammarErr *GrammarError
	if errors.As(err, &grammarErr) {
		fields = append(fields, zap.String("at", "\n"+grammarErr.Caret()))
	}
	s.logger.Error("Definition rejected", fields...)
	return nil
}

func (s *Session) define(proto string, configure func(f *Function) error) error {
	f, err := s.Begin(proto)
	if err != nil {
		return err
	}
	if configure != nil {
		if err := configure(f); err != nil {
			return err
		}
	}
	return f.Finish()
}

// emit renders f into memory and only then writes it out, so a definition
// is either written completely or not at all.
func (s *Session) emit(f *Function) error {
	if len(f.types) == 0 {
		s.logger.Debug("No instantiation types, skipping", zap.String("function", f.Proto.Name))
		return nil
	}

	for _, ty := range f.types {
		switch {
		case !ty.IsScalar() && !f.Proto.IsGeneric():
			s.logger.Warn("Vector body of a non-generic prototype calls itself",
				zap.Stringer("prototype", f.Proto), zap.Stringer("type", ty))
		case lastLaneOnly(f, ty):
			s.logger.Warn("Fixed return type keeps only the last lane",
				zap.Stringer("prototype", f.Proto), zap.Stringer("type", ty))
		}
	}

	var decls, impls bytes.Buffer
	if s.decls != nil {
		EmitDecls(&decls, f)
		if _, err := s.decls.Write(decls.Bytes()); err != nil {
			return fmt.Errorf("write declarations of %s: %w", f.Proto.Name, err)
		}
	}
	if s.impls != nil {
		EmitImpls(&impls, f)
		if _, err := s.impls.Write(impls.Bytes()); err != nil {
			return fmt.Errorf("write implementations of %s: %w", f.Proto.Name, err)
		}
	}

	s.stats.Instances += len(f.types)
	s.logger.Debug("Emitted", zap.String("function", f.Proto.Name), zap.Int("types", len(f.types)))
	return nil
}

// Failures returns the definitions rejected so far, in order.
func (s *Session) Failures() []Failure {
	return s.failures
}

// Err combines every recorded failure, or returns nil if there is none.
func (s *Session) Err() error {
	var err error
	for _, f := range s.failures {
		err = multierr.Append(err, f)
	}
	return err
}

// Stats returns the session counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// IsDSLError reports whether err is, or wraps, a grammar, configuration or
// template error.
func IsDSLError(err error) bool {
	var grammarErr *GrammarError
	var configErr *ConfigurationError
	var templateErr *TemplateError
	return errors.As(err, &grammarErr) || errors.As(err, &configErr) || errors.As(err, &templateErr)
}
