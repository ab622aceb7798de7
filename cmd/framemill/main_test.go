package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framemill/framemill/pkg/pipeline"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "framemill.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen_addr = "127.0.0.1:0"
state_dir = "`+filepath.Join(dir, "state")+`"
`), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestProcessMissingInputFailsBeforeProcessing(t *testing.T) {
	cfgPath := writeTestConfig(t)
	missing := filepath.Join(t.TempDir(), "missing.mp4")
	output := filepath.Join(t.TempDir(), "out.mp4")

	_, err := execute(t, "--config", cfgPath, "process", "--headless", missing, output)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrSourceUnavailable)

	// No output file may be created for an unavailable source.
	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessRequiresArguments(t *testing.T) {
	cfgPath := writeTestConfig(t)
	_, err := execute(t, "--config", cfgPath, "process")
	assert.Error(t, err)
}

func TestRunsWithEmptyHistory(t *testing.T) {
	cfgPath := writeTestConfig(t)
	out, err := execute(t, "--config", cfgPath, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet.")
}

func TestRunsRecordsFailedRun(t *testing.T) {
	cfgPath := writeTestConfig(t)
	missing := filepath.Join(t.TempDir(), "missing.mp4")
	output := filepath.Join(t.TempDir(), "out.mp4")

	_, err := execute(t, "--config", cfgPath, "process", "--headless", missing, output)
	require.Error(t, err)

	out, err := execute(t, "--config", cfgPath, "runs")
	require.NoError(t, err)
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, missing)
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "bogus")
	assert.Error(t, err)
}
