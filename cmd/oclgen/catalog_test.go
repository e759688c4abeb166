package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencrun/oclgen/cmd/oclgen/dsl"
)

func TestLoadCatalog(t *testing.T) {
	c, err := LoadCatalog("testdata/common.yaml")
	require.NoError(t, err)
	assert.Equal(t, "common", c.Name)
	require.Len(t, c.Functions, 3)

	mix := c.Functions[1]
	assert.Equal(t, "gentype mix(gentype x, gentype y, float a)", mix.Proto)
	keys := make([]string, 0, len(mix.Fields))
	for _, f := range mix.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"body", "types", "pure", "inline"}, keys)
}

func TestParseCatalogDefaultModule(t *testing.T) {
	c, err := ParseCatalog([]byte("functions:\n  - proto: gentype acos(gentype x)\n"), "trig")
	require.NoError(t, err)
	assert.Equal(t, "trig", c.Name)
	assert.Equal(t, "trig", c.Module().Name)
}

func TestParseCatalogErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"NotAMapping", "functions:\n  - gentype acos(gentype x)\n"},
		{"NoProto", "functions:\n  - body: return x;\n"},
		{"BadYAML", "functions: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.doc), "bad")
			assert.Error(t, err)
		})
	}
}

func TestCatalogTypes(t *testing.T) {
	doc := `
functions:
  - proto: gentype f(gentype x)
    types:
      - half
      - {vectors: half, widths: [2, 16]}
      - {vectors: int, scalar: true}
`
	c, err := ParseCatalog([]byte(doc), "types")
	require.NoError(t, err)

	s := dsl.NewSession(nil, nil)
	f, err := s.Begin(c.Functions[0].Proto)
	require.NoError(t, err)
	require.NoError(t, c.Functions[0].Configure(f))

	var got []string
	for _, ty := range f.Types() {
		got = append(got, ty.String())
	}
	want := []string{"half", "half2", "half16", "int", "int2", "int3", "int4", "int8", "int16"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("types mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogConfigureErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantKey string
	}{
		{"UnknownKey", "functions:\n  - proto: gentype f(gentype x)\n    colour: red\n", "colour"},
		{"BadTypesEntry", "functions:\n  - proto: gentype f(gentype x)\n    types: [{widths: [2]}]\n", "types"},
		{"UnknownTypesKey", "functions:\n  - proto: gentype f(gentype x)\n    types: [{vectors: float, lanes: 2}]\n", "types"},
		{"BodyNotString", "functions:\n  - proto: gentype f(gentype x)\n    body: [1, 2]\n", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseCatalog([]byte(tt.doc), "bad")
			require.NoError(t, err)

			s := dsl.NewSession(nil, nil)
			f, err := s.Begin(c.Functions[0].Proto)
			require.NoError(t, err)

			err = c.Functions[0].Configure(f)
			var cerr *dsl.ConfigurationError
			require.True(t, errors.As(err, &cerr), "error = %v", err)
			assert.Equal(t, tt.wantKey, cerr.Key)
		})
	}
}

func TestCatalogModuleRuns(t *testing.T) {
	c, err := LoadCatalog("testdata/common.yaml")
	require.NoError(t, err)

	var impls bytes.Buffer
	s := dsl.NewSession(nil, &impls)
	for _, e := range c.Module().Entries {
		require.NoError(t, s.Define(e.Proto, e.Configure))
	}
	assert.Empty(t, s.Failures())
	assert.Equal(t, dsl.Stats{Definitions: 3, Instances: 6}, s.Stats())
	assert.Contains(t, impls.String(), "float degrees(float radians) {\nreturn (180 / M_PI) * radians;\n}\n")
	assert.Contains(t, impls.String(), "float length(float2 p) {\nfloat Res;\nRes = length(p[0]);\nRes = length(p[1]);\nreturn Res;\n}\n")
}
