package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sanad")
	assert.Contains(t, out, "dev")
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version"`)
	assert.Contains(t, out, `"go_version"`)
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := runCommand(t, "--help")
	require.NoError(t, err)
	for _, name := range []string{"ingest", "search", "classify", "sources"} {
		assert.Contains(t, out, name)
	}
}

func TestIngestCommand_Offline(t *testing.T) {
	text := strings.Repeat("access control policy statement with enough content to chunk ", 30)
	path := writeTempFile(t, "policy.txt", text)

	out, err := runCommand(t, "--offline", "ingest", path)
	require.NoError(t, err)
	assert.Contains(t, out, "policy.txt")
	assert.Contains(t, out, "chunks written")
}

func TestIngestCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, "--offline", "ingest", "/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestSearchCommand_OfflineEmptyStore(t *testing.T) {
	out, err := runCommand(t, "--offline", "search", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results.")
}

func TestClassifyCommand_OfflineShortDocument(t *testing.T) {
	path := writeTempFile(t, "tiny.txt", "too short")

	out, err := runCommand(t, "--offline", "classify", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tier": 0`)
	assert.Contains(t, out, `"confidence": "none"`)
}

func TestClassifyCommand_OfflineLongDocument(t *testing.T) {
	text := strings.Repeat("سجل المخاطر وخطط المعالجة ومصفوفة المخاطر المعتمدة للجهة الحكومية ", 10)
	path := writeTempFile(t, "5.8.1_risks.txt", text)

	out, err := runCommand(t, "--offline", "classify", path)
	require.NoError(t, err)
	assert.Contains(t, out, "5.8.1_risks.txt")
	assert.Contains(t, out, "tier")
}

func TestSourcesCountCommand_Offline(t *testing.T) {
	out, err := runCommand(t, "--offline", "sources", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "global: 0 chunks")
}

func TestSourcesDeleteCommand_Offline(t *testing.T) {
	out, err := runCommand(t, "--offline", "sources", "delete", "ghost.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "0 chunks removed")
}
