package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "publish.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLogOperation(t *testing.T) {
	t.Run("returns increasing ids", func(t *testing.T) {
		s := openTestStore(t)

		first, err := s.LogOperation(OperationRecord{Op: "build", Image: "gcr.io/bonion/test-app:latest", Command: "docker build -t gcr.io/bonion/test-app:latest .", StartedAt: time.Now()})
		require.NoError(t, err)
		second, err := s.LogOperation(OperationRecord{Op: "push", Image: "gcr.io/bonion/test-app:latest", Command: "docker push gcr.io/bonion/test-app:latest", StartedAt: time.Now()})
		require.NoError(t, err)

		assert.Greater(t, second, first)
	})
}

func TestGetAllOperations(t *testing.T) {
	t.Run("empty store returns no records", func(t *testing.T) {
		s := openTestStore(t)

		ops, err := s.GetAllOperations()
		require.NoError(t, err)
		assert.Empty(t, ops)
	})

	t.Run("returns records newest first with all fields", func(t *testing.T) {
		s := openTestStore(t)
		started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

		_, err := s.LogOperation(OperationRecord{
			Op:         "build",
			Image:      "gcr.io/bonion/test-app:latest",
			Command:    "docker build -t gcr.io/bonion/test-app:latest .",
			StartedAt:  started,
			DurationMs: 1200,
		})
		require.NoError(t, err)
		_, err = s.LogOperation(OperationRecord{
			Op:         "push",
			Image:      "gcr.io/bonion/test-app:latest",
			Command:    "docker push gcr.io/bonion/test-app:latest",
			StartedAt:  started.Add(time.Minute),
			DurationMs: 300,
			ExitCode:   1,
			Stderr:     "denied: access forbidden",
		})
		require.NoError(t, err)

		ops, err := s.GetAllOperations()
		require.NoError(t, err)
		require.Len(t, ops, 2)

		assert.Equal(t, "push", ops[0].Op)
		assert.Equal(t, 1, ops[0].ExitCode)
		assert.Equal(t, "denied: access forbidden", ops[0].Stderr)
		assert.Equal(t, int64(300), ops[0].DurationMs)
		assert.True(t, started.Add(time.Minute).Equal(ops[0].StartedAt))

		assert.Equal(t, "build", ops[1].Op)
		assert.Equal(t, "docker build -t gcr.io/bonion/test-app:latest .", ops[1].Command)
		assert.Equal(t, 0, ops[1].ExitCode)
		assert.Empty(t, ops[1].Stderr)
	})

	t.Run("records survive reopening", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "publish.db")
		s, err := Open(path)
		require.NoError(t, err)
		_, err = s.LogOperation(OperationRecord{Op: "push", Image: "a/b/c:d", Command: "docker push a/b/c:d", StartedAt: time.Now()})
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = Open(path)
		require.NoError(t, err)
		defer s.Close()

		ops, err := s.GetAllOperations()
		require.NoError(t, err)
		assert.Len(t, ops, 1)
	})
}
