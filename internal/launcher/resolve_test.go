package launcher

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver trusts the current user instead of root so that fixtures
// created under t.TempDir() can pass the ownership check.
func newTestResolver() *Resolver {
	r := NewResolver(slog.New(slog.NewTextHandler(io.Discard, nil)))
	r.owner = uint32(os.Getuid())
	return r
}

func mkdir(t *testing.T, path string, perm os.FileMode) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o700))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func writeFile(t *testing.T, path string, perm os.FileMode) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o600))
	require.NoError(t, os.Chmod(path, perm))
	return path
}

func profileWithSearchPath(dirs ...string) *Profile {
	p := validProfile()
	p.Runtime.SearchPath = dirs
	return &p
}

func TestResolver_FindsFirstCandidate(t *testing.T) {
	root := t.TempDir()
	first := mkdir(t, filepath.Join(root, "first"), 0o755)
	second := mkdir(t, filepath.Join(root, "second"), 0o755)
	want := writeFile(t, filepath.Join(second, "docker"), 0o755)

	got, err := newTestResolver().Resolve(profileWithSearchPath(first, second))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolver_FollowsSymlink(t *testing.T) {
	root := t.TempDir()
	binDir := mkdir(t, filepath.Join(root, "bin"), 0o755)
	libDir := mkdir(t, filepath.Join(root, "lib"), 0o755)
	target := writeFile(t, filepath.Join(libDir, "docker-cli"), 0o755)
	require.NoError(t, os.Symlink(target, filepath.Join(binDir, "docker")))

	got, err := newTestResolver().Resolve(profileWithSearchPath(binDir))
	require.NoError(t, err)

	wantTarget, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, wantTarget, got)
}

func TestResolver_NotFound(t *testing.T) {
	root := t.TempDir()
	dir := mkdir(t, filepath.Join(root, "bin"), 0o755)

	_, err := newTestResolver().Resolve(profileWithSearchPath(dir, filepath.Join(root, "missing")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRuntimeNotFound)
	assert.ErrorIs(t, err, ErrLaunch)
}

func TestResolver_InsecureCandidates(t *testing.T) {
	tests := []struct {
		name    string
		dirPerm os.FileMode
		binPerm os.FileMode
		owner   func() uint32
	}{
		{name: "world writable binary", dirPerm: 0o755, binPerm: 0o757},
		{name: "group writable binary", dirPerm: 0o755, binPerm: 0o775},
		{name: "not executable", dirPerm: 0o755, binPerm: 0o644},
		{name: "world writable directory", dirPerm: 0o777, binPerm: 0o755},
		{name: "foreign owner", dirPerm: 0o755, binPerm: 0o755, owner: func() uint32 { return uint32(os.Getuid()) + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dir := mkdir(t, filepath.Join(root, "bin"), 0o755)
			writeFile(t, filepath.Join(dir, "docker"), tt.binPerm)
			require.NoError(t, os.Chmod(dir, tt.dirPerm))

			r := newTestResolver()
			if tt.owner != nil {
				r.owner = tt.owner()
			}

			_, err := r.Resolve(profileWithSearchPath(dir))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInsecureRuntime)
			assert.ErrorIs(t, err, ErrLaunch)
		})
	}
}

func TestResolver_InsecureCandidateStopsSearch(t *testing.T) {
	root := t.TempDir()
	bad := mkdir(t, filepath.Join(root, "bad"), 0o755)
	good := mkdir(t, filepath.Join(root, "good"), 0o755)
	writeFile(t, filepath.Join(bad, "docker"), 0o777)
	writeFile(t, filepath.Join(good, "docker"), 0o755)

	_, err := newTestResolver().Resolve(profileWithSearchPath(bad, good))
	assert.ErrorIs(t, err, ErrInsecureRuntime)
}

func TestResolver_DirectoryCandidate(t *testing.T) {
	root := t.TempDir()
	dir := mkdir(t, filepath.Join(root, "bin"), 0o755)
	mkdir(t, filepath.Join(dir, "docker"), 0o755)

	_, err := newTestResolver().Resolve(profileWithSearchPath(dir))
	assert.ErrorIs(t, err, ErrInsecureRuntime)
}
