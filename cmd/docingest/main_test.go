package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = "# Title\n\nPara one. Para two.\n\n# Section 2\n\nMore text."

// runApp runs the CLI with args and returns stdout.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"docingest", "--log-level", "error"}, args...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run([]string{"docingest", "--log-level", "loud", "list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestChunkCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "guide.md", sampleMarkdown)

	out, err := runApp(t, "chunk", "--strategy", "markdown", "--chunk-size", "40", "--overlap", "5", path)
	require.NoError(t, err)

	var chunks []chunkOutput
	require.NoError(t, json.Unmarshal([]byte(out), &chunks))
	require.Len(t, chunks, 2)
	assert.True(t, strings.HasPrefix(chunks[0].Text, "# Title"))
	assert.True(t, strings.HasPrefix(chunks[1].Text, "# Section 2"))
	assert.Equal(t, "markdown", chunks[1].Strategy)
}

func TestChunkCommand_RejectsBadOverlap(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.txt", "text")

	_, err := runApp(t, "chunk", "--chunk-size", "100", "--overlap", "150", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overlap")
}

func TestChunkCommand_RequiresOneFile(t *testing.T) {
	_, err := runApp(t, "chunk")
	assert.Error(t, err)
}

func TestIngestShowListDelete(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	guide := writeFile(t, dir, "guide.md", sampleMarkdown)
	notes := writeFile(t, dir, "notes.txt", "Just one short note.")

	out, err := runApp(t, "--db", db, "ingest",
		"--chunk-size", "40", "--overlap", "5", "--strategy", "markdown",
		"--business-id", "acme", "--agent-key", "support", guide, notes)
	require.NoError(t, err)
	assert.Contains(t, out, guide+"\t2 chunks")
	assert.Contains(t, out, notes+"\t1 chunks")
	assert.Contains(t, out, "processed 2/2 documents")

	out, err = runApp(t, "--db", db, "show", guide)
	require.NoError(t, err)
	assert.Contains(t, out, "Type:     MARKDOWN")
	assert.Contains(t, out, "Business: acme")
	assert.Contains(t, out, "Chunks:   2")
	assert.Contains(t, out, "256 dims")

	out, err = runApp(t, "--db", db, "list", "--filter-business-id", "acme")
	require.NoError(t, err)
	assert.Contains(t, out, guide)
	assert.Contains(t, out, notes)

	out, err = runApp(t, "--db", db, "delete", notes)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+notes)

	_, err = runApp(t, "--db", db, "show", notes)
	assert.Error(t, err)
}

func TestIngest_ReportsFailuresPerDocument(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	good := writeFile(t, dir, "good.txt", "Fine content.")

	out, err := runApp(t, "--db", db, "ingest", "--id", "doc-1", "--chunk-size", "10", "--overlap", "10", good)
	require.Error(t, err)
	assert.Contains(t, out, "doc-1\tFAILED")
	assert.Contains(t, out, "processed 0/1 documents")
}

func TestIngest_IDRequiresSingleFile(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "a")
	b := writeFile(t, dir, "b.txt", "b")

	_, err := runApp(t, "--db", filepath.Join(dir, "db"), "ingest", "--id", "x", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--id")
}

func TestReembedCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "db")
	guide := writeFile(t, dir, "guide.md", sampleMarkdown)

	_, err := runApp(t, "--db", db, "ingest", "--id", "guide", guide)
	require.NoError(t, err)

	_, err = runApp(t, "--db", db, "reembed", "--dimensions", "32", "--normalize")
	require.NoError(t, err)

	out, err := runApp(t, "--db", db, "show", "guide")
	require.NoError(t, err)
	assert.Contains(t, out, "32 dims")
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", preview("short", 10))
	assert.Equal(t, "abcd...", preview("abcdefghij", 7))
	assert.Equal(t, "ééé...", preview("éééééééé", 6))
}
