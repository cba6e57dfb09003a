package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/testbuilder/internal/cmd"
	"github.com/gravitrone/testbuilder/internal/ui"
)

func TestRunTUIMissingConfigReturnsError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runTUI(context.Background(), &cmd.StoreFlags{}, ui.Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, cmd.ErrNoBackend)
}

func TestRunTUIBadDriverFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runTUI(context.Background(), &cmd.StoreFlags{Driver: "oracle"}, ui.Options{})
	assert.Error(t, err)
}

func TestRootHelpListsSubcommands(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--help"})

	require.NoError(t, root.Execute())
	for _, name := range []string{"login", "items", "tests", "import", "serve"} {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), "--driver")
	assert.Contains(t, out.String(), "--test")
}

func TestRootUnknownSubcommandErrors(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"bogus"})

	assert.Error(t, root.Execute())
}
