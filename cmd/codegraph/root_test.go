package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeExtensions(t *testing.T) {
	got := normalizeExtensions([]string{"py", ".JS", " .java ", "", "H"})
	assert.Equal(t, []string{".py", ".js", ".java", ".h"}, got)
}

func TestExtensionsDefaultWhenFlagUnset(t *testing.T) {
	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Contains(t, cfg.Extensions, ".py")
	assert.Contains(t, cfg.Extensions, ".js")
}

func TestExtensionsFlagOverridesConfig(t *testing.T) {
	require.NoError(t, rootCmd.ParseFlags([]string{"--extensions", "py,.go"}))

	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)
	assert.Equal(t, []string{".py", ".go"}, cfg.Extensions)
}
