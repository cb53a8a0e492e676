package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/fieldarchive/internal/core/domain"
)

func TestExecRunner_Stdout(t *testing.T) {
	if err := CheckAvailable("echo"); err != nil {
		t.Skip("echo not in PATH")
	}

	out, err := ExecRunner{}.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestExecRunner_MissingTool(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "fieldarchive-no-such-tool")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	if err := CheckAvailable("sh"); err != nil {
		t.Skip("sh not in PATH")
	}

	_, err := ExecRunner{}.Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sh failed")
	assert.Contains(t, err.Error(), "broken")
}

func TestExecRunner_ContextTimeout(t *testing.T) {
	if err := CheckAvailable("sleep"); err != nil {
		t.Skip("sleep not in PATH")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := ExecRunner{}.Run(ctx, "sleep", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCheckAvailable_Missing(t *testing.T) {
	err := CheckAvailable("fieldarchive-no-such-tool")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
	assert.Contains(t, err.Error(), "fieldarchive-no-such-tool")
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler tesseract")
	assert.Contains(t, instructions, "apt install poppler-utils tesseract-ocr")
}
