package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// runCLI executes the root command with args and returns its standard output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestCLIGenerateBuiltin(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "builtins.h")
	implPath := filepath.Join(dir, "builtins.cl")

	_, err := runCLI(t, "-d", declPath, "-i", implPath)
	require.NoError(t, err)

	decls, err := os.ReadFile(declPath)
	require.NoError(t, err)
	impls, err := os.ReadFile(implPath)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(decls), "/* Code generated by oclgen from Math. DO NOT EDIT. */\n"))
	assert.Contains(t, string(decls), "float16 acosh(float16 x);")
	assert.Equal(t, 18, strings.Count(string(decls), "__attribute__((overloadable))"))
	assert.Contains(t, string(impls), "float acos(float x) {\nreturn __builtin_acosf(x);\n}\n")
	assert.Contains(t, string(impls), "Res[15] = acospi(x[15]);")
}

func TestCLIOnlyDeclarations(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "builtins.h")

	stdout, err := runCLI(t, "--gen-decl", declPath)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	decls, err := os.ReadFile(declPath)
	require.NoError(t, err)
	assert.NotContains(t, string(decls), "Implementations of")
	assert.Contains(t, string(decls), "/* Declarations of gentype acospi(gentype x) */")

	_, err = os.Stat(filepath.Join(dir, "builtins.cl"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLIStdout(t *testing.T) {
	stdout, err := runCLI(t, "-c", "testdata/common.yaml", "-i", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, "/* Code generated by oclgen from Common. DO NOT EDIT. */")
	assert.Contains(t, stdout, "float4 mix(float4 x, float4 y, float a) {")
	assert.Contains(t, stdout, "Res[3] = mix(x[3], y[3], a);")
}

func TestCLIRejectedDefinitions(t *testing.T) {
	dir := t.TempDir()
	declPath := filepath.Join(dir, "broken.h")

	_, err := runCLI(t, "-c", "testdata/broken.yaml", "-d", declPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4 of 5 definitions failed")

	// The valid definition is still written.
	decls, readErr := os.ReadFile(declPath)
	require.NoError(t, readErr)
	assert.Contains(t, string(decls), "float2 radians(float2 degrees);")
	assert.NotContains(t, string(decls), "sign(")

	_, err = runCLI(t, "-c", "testdata/broken.yaml", "-d", declPath, "--keep-going")
	assert.NoError(t, err)
}

func TestCLIList(t *testing.T) {
	stdout, err := runCLI(t, "list", "-c", "testdata/common.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Common (3)\n"+
		"  gentype degrees(gentype radians)\n"+
		"  gentype mix(gentype x, gentype y, float a)\n"+
		"  float length(gentype p)\n", stdout)

	stdout, err = runCLI(t, "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "Math (3)\n"))
}

func TestCLIParse(t *testing.T) {
	stdout, err := runCLI(t, "parse", "gentype ldexp(gentype x, int k)")
	require.NoError(t, err)
	assert.Equal(t, "name:    ldexp\nreturn:  gentype\ngeneric: true\nargs:\n  0: gentype x\n  1: int k\n", stdout)

	_, err = runCLI(t, "parse", "gentype ldexp(gentype x int k)")
	assert.ErrorContains(t, err, "cannot parse rpar")
}

func TestCLIMissingCatalog(t *testing.T) {
	_, err := runCLI(t, "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read catalog")
}
