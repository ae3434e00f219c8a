package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "unfish", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	cmd := rootCmd

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"--help"})
	t.Cleanup(func() { _ = cmd.Flags().Set("help", "false") })
	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "fisheye")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	cmd := rootCmd

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"--version"})
	t.Cleanup(func() { _ = cmd.PersistentFlags().Set("version", "false") })
	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "unfish version")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "convert")
	assert.Contains(t, names, "batch")
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "version")
}

func TestGetConfigLoader(t *testing.T) {
	loader := GetConfigLoader()
	require.NotNil(t, loader)
	assert.Same(t, loader, GetConfigLoader())
}
