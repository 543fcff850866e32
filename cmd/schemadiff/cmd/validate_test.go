package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runValidateCommand(t *testing.T) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	err := runValidate(validateCmd, []string{})
	return buf.String(), err
}

func TestValidateCommandStructure(t *testing.T) {
	assert.NotNil(t, validateCmd)
	assert.Equal(t, "validate", validateCmd.Use)
	assert.NotEmpty(t, validateCmd.Short)
	assert.NotEmpty(t, validateCmd.Long)
	assert.NotNil(t, validateCmd.RunE)
}

func TestRunValidate(t *testing.T) {
	resetFlags(t)
	cfgFile = writeConfig(t)

	output, err := runValidateCommand(t)
	require.NoError(t, err)

	assert.Contains(t, output, "=== Configuration Validation ===")
	assert.Contains(t, output, "Comparisons found: 3")
	assert.Contains(t, output, "--- Comparison: additive ---")
	assert.Contains(t, output, "✅ Old: sdl:")
	assert.Regexp(t, `\(\d+ types, \d+ directives, `, output)
	assert.Contains(t, output, "✅ All comparisons validated successfully")
	assert.NotContains(t, output, "❌")
}

func TestRunValidateLoadFailures(t *testing.T) {
	resetFlags(t)
	cfgFile = writeConfig(t)
	dir := filepath.Dir(cfgFile)
	require.NoError(t, os.Remove(filepath.Join(dir, "removed.graphql")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "added.graphql"), []byte(`type Query { a: Missing }`), 0o644))

	output, err := runValidateCommand(t)
	assert.ErrorContains(t, err, "validation failed for one or more comparisons")
	assert.Contains(t, output, "❌ New: failed to read schema file")
	assert.Contains(t, output, "introspection failed")
	assert.NotContains(t, output, "=== Validation Complete ===")
}

func TestRunValidateInvalidConfig(t *testing.T) {
	resetFlags(t)
	cfgFile = writeFile(t, t.TempDir(), "bad.yaml", `report:
  fail_on: severe
comparisons:
  incomplete:
    old:
      sdl: old.graphql
`)

	output, err := runValidateCommand(t)
	assert.ErrorContains(t, err, "invalid configuration")
	assert.Contains(t, output, "report.fail_on")
	assert.Contains(t, output, "comparisons.incomplete.new")
}

func TestRunValidateWithoutConfigFile(t *testing.T) {
	resetFlags(t)

	output, err := runValidateCommand(t)
	require.NoError(t, err)
	assert.Contains(t, output, "Comparisons found: 0")
	assert.Contains(t, output, "=== Validation Complete ===")
}
