package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datasanitizer/internal/reporting"
	"datasanitizer/internal/wipe"
)

func TestRootCommand(t *testing.T) {
	require.NotNil(t, rootCmd)
	assert.Equal(t, "datasanitizer", rootCmd.Use)
	assert.Equal(t, Version, rootCmd.Version)
	assert.Equal(t, Version, reporting.Version)
}

func TestCommandPresence(t *testing.T) {
	for _, name := range []string{"shred", "wipe", "info", "methods"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	flags := map[string]string{
		"config":  "c",
		"verbose": "v",
		"dry-run": "n",
		"profile": "",
		"report":  "",
	}
	for name, short := range flags {
		f := rootCmd.PersistentFlags().Lookup(name)
		require.NotNil(t, f, name)
		assert.Equal(t, short, f.Shorthand, name)
	}
}

func TestShredFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"shred"})
	require.NoError(t, err)

	method := cmd.Flags().Lookup("method")
	require.NotNil(t, method)
	assert.Equal(t, "m", method.Shorthand)
	assert.Equal(t, "", method.DefValue)

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("verify"))
}

func TestWipeFlags(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"wipe"})
	require.NoError(t, err)

	for _, name := range []string{"force", "max-bytes", "max-duration"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestMethodsCommandOutput(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"methods", "dod3"})
	defer rootCmd.SetArgs(nil)
	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "dod3 (3):\n   1. 0x00\n   2. 0xff\n   3. random\n", buf.String())
}

func TestShredExitCode(t *testing.T) {
	op := func(status string) *wipe.ShredOperation { return &wipe.ShredOperation{Status: status} }

	tests := []struct {
		name string
		ops  []*wipe.ShredOperation
		want int
	}{
		{"all completed", []*wipe.ShredOperation{op(wipe.StatusCompleted), op(wipe.StatusCompleted)}, EXIT_SUCCESS},
		{"partial", []*wipe.ShredOperation{op(wipe.StatusCompleted), op(wipe.StatusNotFound)}, EXIT_PARTIAL},
		{"skipped counts as partial", []*wipe.ShredOperation{op(wipe.StatusCompleted), op(wipe.StatusSkipped)}, EXIT_PARTIAL},
		{"none completed", []*wipe.ShredOperation{op(wipe.StatusFailed)}, EXIT_ERROR},
		{"interrupted wins", []*wipe.ShredOperation{op(wipe.StatusCompleted), op(wipe.StatusInterrupted)}, EXIT_INTERRUPTED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shredExitCode(tt.ops))
		})
	}
}
