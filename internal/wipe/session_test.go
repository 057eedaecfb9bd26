package wipe

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShredSessionStatuses(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0755))
	require.NoError(t, afero.WriteFile(fs, "/data/a", []byte("aaaa"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/data/protected", []byte("pppp"), 0644))

	targets := []string{"/data/a", "/data/missing", "/data/protected"}
	s := NewShredSession(targets, "dod3", 2, false, &EngineConfig{Fs: fs}, nil)
	s.Skip = func(path string) (bool, string) {
		if strings.HasSuffix(path, "protected") {
			return true, "protected path"
		}
		return false, ""
	}

	ops := s.Execute(context.Background())
	require.Len(t, ops, 3)

	assert.Equal(t, StatusCompleted, ops[0].Status)
	assert.Equal(t, "/data/a", ops[0].Path)
	assert.Equal(t, int64(4), ops[0].Size)
	assert.Equal(t, 3, ops[0].Passes)
	assert.NotEmpty(t, ops[0].ID)
	assert.NotNil(t, ops[0].EndTime)

	assert.Equal(t, StatusNotFound, ops[1].Status)
	assert.Contains(t, ops[1].Error, "NOT_FOUND")

	assert.Equal(t, StatusSkipped, ops[2].Status)
	assert.Equal(t, "protected path", ops[2].Warning)

	exists, _ := afero.Exists(fs, "/data/protected")
	assert.True(t, exists)
	exists, _ = afero.Exists(fs, "/data/a")
	assert.False(t, exists)
}

func TestShredSessionConcurrent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0755))

	var targets []string
	for i := 0; i < 8; i++ {
		p := fmt.Sprintf("/data/f%d", i)
		require.NoError(t, afero.WriteFile(fs, p, []byte(strings.Repeat("x", 100*(i+1))), 0644))
		targets = append(targets, p)
	}

	ops := NewShredSession(targets, "zeros", 4, false, &EngineConfig{Fs: fs, ChunkSize: 64}, nil).
		Execute(context.Background())

	require.Len(t, ops, len(targets))
	for i, op := range ops {
		assert.Equal(t, targets[i], op.Path)
		assert.Equal(t, StatusCompleted, op.Status, "target %s: %s", op.Path, op.Error)
		assert.Equal(t, int64(100*(i+1)), op.Size)
	}

	entries, err := afero.ReadDir(fs, "/data")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestShredSessionDryRun(t *testing.T) {
	fs := newMemFile(t, "/data/a", []byte("HELLOWORLD"))

	ops := NewShredSession([]string{"/data/a", "/data/b"}, "gutmann", 1, true, &EngineConfig{Fs: fs}, nil).
		Execute(context.Background())

	assert.Equal(t, StatusCompleted, ops[0].Status)
	assert.Equal(t, int64(10), ops[0].Size)
	assert.Equal(t, 35, ops[0].Passes)
	assert.Equal(t, StatusNotFound, ops[1].Status)

	data, err := afero.ReadFile(fs, "/data/a")
	require.NoError(t, err)
	assert.Equal(t, []byte("HELLOWORLD"), data)
}

func TestShredSessionCancelled(t *testing.T) {
	fs := newMemFile(t, "/data/a", []byte("a"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ops := NewShredSession([]string{"/data/a"}, "zeros", 1, false, &EngineConfig{Fs: fs}, nil).Execute(ctx)
	assert.Equal(t, StatusSkipped, ops[0].Status)

	exists, _ := afero.Exists(fs, "/data/a")
	assert.True(t, exists)
}

func TestShredFileStatuses(t *testing.T) {
	fs := newMemFile(t, "/data/x", []byte("x"))
	e := NewEngine(&EngineConfig{Fs: fs})

	op := ShredFile(context.Background(), e, "/data/x", "dod5", false)
	assert.Equal(t, StatusFailed, op.Status)
	assert.Contains(t, op.Error, "UNKNOWN_METHOD")

	op = ShredFile(context.Background(), e, "/data/x", "dod5", true)
	assert.Equal(t, StatusFailed, op.Status)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	op = ShredFile(ctx, e, "/data/x", "zeros", false)
	assert.Equal(t, StatusInterrupted, op.Status)

	op = ShredFile(context.Background(), e, "/data/x", "zeros", false)
	assert.Equal(t, StatusCompleted, op.Status)
	assert.True(t, op.Renamed)
	assert.Empty(t, op.Warning)
}

func TestShredSessionCancelWhileWaitingForSlot(t *testing.T) {
	fs := newMemFile(t, "/data/a", []byte("aaaa"))
	require.NoError(t, afero.WriteFile(fs, "/data/b", []byte("bbbb"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Единственный слот занят первым файлом; отмена приходит во время его проходов
	cfg := &EngineConfig{
		Fs: fs,
		OnPassComplete: func(r PassResult) error {
			if r.Path == "/data/a" && r.Pass == 1 {
				cancel()
			}
			return nil
		},
	}

	ops := NewShredSession([]string{"/data/a", "/data/b"}, "dod3", 1, false, cfg, nil).Execute(ctx)
	require.Len(t, ops, 2)

	assert.Equal(t, StatusInterrupted, ops[0].Status)
	assert.Equal(t, StatusSkipped, ops[1].Status)
	assert.Empty(t, ops[1].Error)

	data, err := afero.ReadFile(fs, "/data/b")
	require.NoError(t, err)
	assert.Equal(t, []byte("bbbb"), data)
}
