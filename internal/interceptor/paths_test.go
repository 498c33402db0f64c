package interceptor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "commands"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands", "triage.md"), []byte("x"), 0o644))

	for _, skill := range []string{"beta", "alpha"} {
		sd := filepath.Join(dir, "skills", skill)
		require.NoError(t, os.MkdirAll(sd, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sd, "SKILL.md"), []byte("x"), 0o644))
	}
	// No SKILL.md, must be skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "skills", "gamma"), 0o755))

	commandMD, skillMDs, err := ResolvePaths(dir, "triage")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(commandMD))

	require.Len(t, skillMDs, 2)
	assert.Contains(t, skillMDs[0], "alpha")
	assert.Contains(t, skillMDs[1], "beta")
	for _, p := range skillMDs {
		assert.True(t, filepath.IsAbs(p))
	}
}

func TestResolvePathsNoSkillsDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "commands"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands", "triage.md"), []byte("x"), 0o644))

	commandMD, skillMDs, err := ResolvePaths(dir, "triage")
	require.NoError(t, err)
	assert.NotEmpty(t, commandMD)
	assert.Nil(t, skillMDs)
}

func TestResolvePathsMissingCommandFile(t *testing.T) {
	_, _, err := ResolvePaths(t.TempDir(), "triage")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCommandFileNotFound))
}
