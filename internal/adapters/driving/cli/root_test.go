package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
	"github.com/custodia-labs/fieldarchive/internal/logger"
)

func TestRootCmd_HasCommands(t *testing.T) {
	names := make([]string, 0)
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"serve", "sync", "ingest", "reprocess", "status", "version", "document", "settings"} {
		assert.Contains(t, names, want)
	}
}

func TestExecute_BootstrapsAndCloses(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	watcher = nil

	w := &mockWatcher{result: &domain.PollResult{Success: true, FilesProcessed: 1}}
	closed := false
	b := func(context.Context) (*Dependencies, error) {
		return &Dependencies{
			Watcher: w,
			Close: func() error {
				closed = true
				return nil
			},
		}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
		bootstrap = nil
	}()

	err := Execute(t.Context(), b)

	require.NoError(t, err)
	assert.True(t, closed)
	assert.Contains(t, buf.String(), "Processed 1 files")
}

func TestExecute_CloseRunsAfterFailure(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	closed := false
	b := func(context.Context) (*Dependencies, error) {
		return &Dependencies{
			Watcher: &mockWatcher{syncErr: domain.ErrRemoteUnavailable},
			Close: func() error {
				closed = true
				return errors.New("close failed")
			},
		}, nil
	}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"sync"})
	defer func() {
		rootCmd.SetArgs(nil)
		bootstrap = nil
	}()

	err := Execute(t.Context(), b)

	require.Error(t, err)
	assert.True(t, closed)
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
	assert.Contains(t, err.Error(), "close failed")
}

func TestExecute_BootstrapError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	b := func(context.Context) (*Dependencies, error) {
		return nil, errors.New("open ledger: disk full")
	}

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"status"})
	defer func() {
		rootCmd.SetArgs(nil)
		bootstrap = nil
	}()

	err := Execute(t.Context(), b)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialise: open ledger: disk full")
}

func TestExecute_VersionSkipsBootstrap(t *testing.T) {
	called := false
	b := func(context.Context) (*Dependencies, error) {
		called = true
		return &Dependencies{}, nil
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"version"})
	defer func() {
		rootCmd.SetArgs(nil)
		bootstrap = nil
	}()

	err := Execute(t.Context(), b)

	require.NoError(t, err)
	assert.False(t, called)
	assert.Contains(t, buf.String(), "fieldarchive version")
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		verbose = false
		logger.SetVerbose(false)
	}()

	_, err := execute("--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}

func TestServeCmd(t *testing.T) {
	t.Run("runs server with command context", func(t *testing.T) {
		_, _, cleanup := setupTestServices()
		defer cleanup()

		var got context.Context
		serveFunc = func(ctx context.Context) error {
			got = ctx
			return nil
		}

		_, err := execute("serve")

		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("propagates server error", func(t *testing.T) {
		_, _, cleanup := setupTestServices()
		defer cleanup()
		serveFunc = func(context.Context) error { return errors.New("address in use") }

		_, err := execute("serve")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "address in use")
	})

	t.Run("not configured", func(t *testing.T) {
		_, _, cleanup := setupTestServices()
		defer cleanup()

		_, err := execute("serve")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "server not configured")
	})
}
