package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/felix/internal/value"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "felixctl", cmd.Use)
	assert.Contains(t, cmd.Long, "temporal")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"init", "ingest", "ingest-ndjson", "current-eq", "ever-eq",
		"facts-window", "snapshot", "rebuild-current", "history",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "felix.sqlite", dbFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "init"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConfigFlagOverridesDBDefault(t *testing.T) {
	dir := t.TempDir()
	fromConfig := dir + "/from-config.sqlite"
	cfgPath := dir + "/felix.toml"
	require.NoError(t, writeFile(cfgPath, `db_path = "`+fromConfig+`"`))

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", cfgPath, "--format", "json", "init"})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))

	require.NoError(t, cmd.Execute())
	_, err := os.Stat(fromConfig)
	require.NoError(t, err)
}

func TestDBFlagWinsOverConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := dir + "/felix.toml"
	require.NoError(t, writeFile(cfgPath, `db_path = "from-config.sqlite"`))
	explicitDB := dir + "/explicit.sqlite"

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", cfgPath, "--db", explicitDB, "--format", "json", "init"})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))

	require.NoError(t, cmd.Execute())
}

func TestConfigDefaultModeAppliesToIngestNDJSON(t *testing.T) {
	resetEffectiveLimits(t)

	dir := t.TempDir()
	dbPath := dir + "/felix.sqlite"
	cfgPath := dir + "/felix.toml"
	require.NoError(t, writeFile(cfgPath, `default_mode = "observe"`))

	// Two lines, same record/field/value, both omitting "mode": under
	// observation-driven suppression-off semantics this appends two facts;
	// under the flag's own baked-in "event" default the second, unchanged
	// value would be suppressed and only one fact would exist.
	line := `{"record_id":1,"ts_ms":%d,"fields":{"Status":{"t":"text","v":"active"}}}`
	ndjsonPath := dir + "/in.ndjson"
	body := fmt.Sprintf(line, 1700000000000) + "\n" + fmt.Sprintf(line, 1700000001000) + "\n"
	require.NoError(t, writeFile(ndjsonPath, body))

	initCmd := NewRootCommand()
	initCmd.SetArgs([]string{"--db", dbPath, "--format", "json", "init"})
	initCmd.SetOut(new(discardWriter))
	initCmd.SetErr(new(discardWriter))
	require.NoError(t, initCmd.Execute())

	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--config", cfgPath, "--db", dbPath, "--format", "json", "ingest-ndjson", ndjsonPath})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))
	require.NoError(t, cmd.Execute())

	var buf bytes.Buffer
	histCmd := NewRootCommand()
	histCmd.SetArgs([]string{"--db", dbPath, "--format", "json", "history", "1"})
	histCmd.SetOut(&buf)
	histCmd.SetErr(new(discardWriter))
	require.NoError(t, histCmd.Execute())

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Len(t, resp.Data, 2, "observe-mode default should append a fact for both identical-value lines")
}

func TestConfigLimitsTightenIngest(t *testing.T) {
	resetEffectiveLimits(t)

	dir := t.TempDir()
	dbPath := dir + "/felix.sqlite"
	cfgPath := dir + "/felix.toml"
	require.NoError(t, writeFile(cfgPath, `
[limits]
max_fields_per_ingest = 1
`))

	initCmd := NewRootCommand()
	initCmd.SetArgs([]string{"--db", dbPath, "--format", "json", "init"})
	initCmd.SetOut(new(discardWriter))
	initCmd.SetErr(new(discardWriter))
	require.NoError(t, initCmd.Execute())

	// Two fields exceeds the config's tightened ceiling of 1, so this must
	// fail even though it is well within the built-in default of 256.
	cmd := NewRootCommand()
	cmd.SetArgs([]string{
		"--config", cfgPath, "--db", dbPath, "--format", "json",
		"ingest", "1", "1700000000000", "event", "Age=int:6", "Status=text:active",
	})
	cmd.SetOut(new(discardWriter))
	cmd.SetErr(new(discardWriter))

	execErr := cmd.Execute()
	require.Error(t, execErr)
	assert.Contains(t, execErr.Error(), "fields per ingest")
}

// resetEffectiveLimits restores internal/value's package-level effective
// limits to the built-in ceiling after a test that tightens them via a
// --config file, so later tests in this package see the defaults again.
func resetEffectiveLimits(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		value.SetLimits(value.Limits{
			MaxTextBytes:       value.MaxTextBytes,
			MaxBytesBytes:      value.MaxBytesBytes,
			MaxFieldNameBytes:  value.MaxFieldNameBytes,
			MaxFieldsPerIngest: value.MaxFieldsPerIngest,
		})
	})
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
