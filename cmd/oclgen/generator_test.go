package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

func TestModuleTitle(t *testing.T) {
	assert.Equal(t, "Math", moduleTitle("math"))
	assert.Equal(t, "Common", moduleTitle("common"))
	assert.Equal(t, "Integer Math", moduleTitle("integer math"))
}

func TestGeneratorBanner(t *testing.T) {
	g := &Generator{Modules: []Module{{Name: "math"}, {Name: "common"}}}
	assert.Equal(t, "/* Code generated by oclgen from Math, Common. DO NOT EDIT. */\n", g.banner())
}

func TestGeneratorRunBuiltin(t *testing.T) {
	var decls, impls bytes.Buffer
	core, logs := observer.New(zapcore.InfoLevel)
	g := &Generator{
		Modules: []Module{MathModule()},
		Decls:   &decls,
		Impls:   &impls,
		Logger:  zap.New(core),
	}
	require.NoError(t, g.Run())

	// Definition order, then instantiation order.
	acos := strings.Index(decls.String(), "float acos(float x);")
	acosh := strings.Index(decls.String(), "float acosh(float x);")
	acospi := strings.Index(decls.String(), "float acospi(float x);")
	assert.True(t, 0 < acos && acos < acosh && acosh < acospi, "unexpected order:\n%s", decls.String())

	assert.Contains(t, impls.String(), "return __builtin_acoshf(x);")
	assert.Equal(t, 1, logs.FilterMessage("Generation finished").Len())
}

func TestGeneratorFailures(t *testing.T) {
	bad := Module{
		Name: "bad",
		Entries: []Entry{
			{"gentype acos(gentype x)", func(f *dsl.Function) error { return f.Set("colour", "red") }},
			{"gentype acospi(gentype x)", builtinBody("return acos(x) / M_PI;")},
		},
	}

	var decls bytes.Buffer
	g := &Generator{Modules: []Module{bad}, Decls: &decls}
	err := g.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 definitions failed")
	var cerr *dsl.ConfigurationError
	assert.True(t, errors.As(err, &cerr))
	assert.Len(t, multierr.Errors(errors.Unwrap(err)), 1)
	assert.Contains(t, decls.String(), "float16 acospi(float16 x);")

	decls.Reset()
	g.KeepGoing = true
	assert.NoError(t, g.Run())
	assert.Contains(t, decls.String(), "float16 acospi(float16 x);")
}

func TestGeneratorNoOutputs(t *testing.T) {
	g := &Generator{Modules: []Module{MathModule()}}
	assert.NoError(t, g.Run())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestGeneratorWriteError(t *testing.T) {
	g := &Generator{Modules: []Module{MathModule()}, Impls: brokenWriter{}}
	err := g.Run()
	assert.ErrorContains(t, err, "broken pipe")
}
