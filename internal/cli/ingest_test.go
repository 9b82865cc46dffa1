package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCommand_EventMode(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "felix.sqlite")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{
		"--db", dbPath, "--format", "json", "ingest",
		"1", "1000", "event", "Age=int:6", "Status=text:active",
	})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"fields":2`)
}

func TestIngestCommand_NowSugar(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "felix.sqlite")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--db", dbPath, "ingest", "1", "now", "observe", "Temp=float:20.0"})

	require.NoError(t, cmd.Execute())
}

func TestIngestCommand_InvalidMode(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "felix.sqlite")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--db", dbPath, "ingest", "1", "1000", "bogus", "Age=int:6"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestIngestCommand_InvalidFieldToken(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "felix.sqlite")

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--db", dbPath, "ingest", "1", "1000", "event", "NoEqualsSign"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
