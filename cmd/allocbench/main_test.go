package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmitsOneCSVRecord(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "tiny.rep")
	require.NoError(t, os.WriteFile(tracePath, []byte("2 3\na 0 64\na 1 128\nf 0\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(tracePath, "segalloc", "", &out))

	line := strings.TrimSpace(out.String())
	fields := strings.Split(line, ",")
	require.Len(t, fields, 9)
	assert.Equal(t, "segalloc", fields[0])
	assert.Equal(t, "tiny.rep", fields[1])
	assert.Equal(t, "3", fields[2])
}

func TestRunRejectsUnknownMode(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "tiny.rep")
	require.NoError(t, os.WriteFile(tracePath, []byte("1 1\nf 0\n"), 0o644))

	var out bytes.Buffer
	err := run(tracePath, "bogus", "", &out)
	require.Error(t, err)
}
