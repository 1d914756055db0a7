package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/vehicle-atlas/pkg/runtime/bootstrap"
	"github.com/de-tools/vehicle-atlas/pkg/services/config"
)

var fullPayload = filepath.Join("..", "..", "..", "..", "testdata", "full.json")

func loader(t *testing.T, mutate func(*config.Config)) Loader {
	t.Helper()
	return func(cmd *cobra.Command) (*bootstrap.Runtime, error) {
		cfg, err := config.Load("")
		if err != nil {
			return nil, err
		}
		if mutate != nil {
			mutate(cfg)
		}
		return bootstrap.New(cmd.Context(), cfg, bootstrap.Renderers())
	}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRenderCmd(t *testing.T) {
	t.Run("text to stdout", func(t *testing.T) {
		out, _, err := execute(t, NewRenderCmd(loader(t, nil)),
			"--payload", fullPayload, "--format", "text", "--registration", "ab12cde", "--premium")

		require.NoError(t, err)
		assert.Contains(t, out, "Vehicle History Report")
		assert.Contains(t, out, "AB12CDE")
	})

	t.Run("pdf to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pdf")

		_, _, err := execute(t, NewRenderCmd(loader(t, nil)),
			"--payload", fullPayload, "--format", "pdf", "--out", path, "--date", "2025-03-14")

		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	})

	t.Run("publish to file store", func(t *testing.T) {
		dir := t.TempDir()
		load := loader(t, func(cfg *config.Config) {
			cfg.Artifacts = config.ArtifactsConfig{Backend: config.BackendFile, Directory: dir}
		})

		_, errOut, err := execute(t, NewRenderCmd(load),
			"--payload", fullPayload, "--format", "html", "--out", filepath.Join(t.TempDir(), "r.html"),
			"--registration", "AB12CDE", "--date", "2025-03-14", "--reference", "R-1", "--publish")

		require.NoError(t, err)
		published := filepath.Join(dir, "AB12CDE", "20250314-R-1.html")
		assert.FileExists(t, published)
		assert.Contains(t, errOut, "Published to "+published)
	})

	t.Run("publish without store", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCmd(loader(t, nil)), "--payload", fullPayload, "--publish")

		assert.ErrorContains(t, err, "--publish requires")
	})

	t.Run("invalid date", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCmd(loader(t, nil)), "--payload", fullPayload, "--date", "14/03/2025")

		assert.ErrorContains(t, err, "invalid --date")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCmd(loader(t, nil)), "--payload", fullPayload, "--format", "docx")

		assert.ErrorContains(t, err, "unsupported report format")
	})

	t.Run("missing payload flag", func(t *testing.T) {
		_, _, err := execute(t, NewRenderCmd(loader(t, nil)))

		assert.Error(t, err)
	})
}

func TestValidateCmd(t *testing.T) {
	out, _, err := execute(t, NewValidateCmd(loader(t, nil)), "--payload", fullPayload)
	require.NoError(t, err)
	assert.Contains(t, out, "payload is valid")

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2]`), 0o644))
	_, _, err = execute(t, NewValidateCmd(loader(t, nil)), "--payload", bad)
	assert.ErrorContains(t, err, "invalid report payload")

	cmd := NewValidateCmd(loader(t, nil))
	cmd.SetIn(bytes.NewBufferString(`{"Results":{}}`))
	out, _, err = execute(t, cmd, "--payload", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "-: payload is valid")
}

func TestSectionsCmd(t *testing.T) {
	out, _, err := execute(t, NewSectionsCmd(loader(t, nil)))
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "Free")
	assert.NotContains(t, out, "DOCUMENT")
	assert.NotContains(t, out, "In free")

	out, _, err = execute(t, NewSectionsCmd(loader(t, nil)), "--package", "free")
	require.NoError(t, err)
	assert.Contains(t, out, "In free")

	_, _, err = execute(t, NewSectionsCmd(loader(t, nil)), "--package", "platinum")
	assert.ErrorIs(t, err, config.ErrUnknownPackage)
}

func TestFormatsCmd(t *testing.T) {
	out, _, err := execute(t, NewFormatsCmd(loader(t, nil)))

	require.NoError(t, err)
	assert.Equal(t, "Supported formats:\nhtml\npdf\ntext\n", out)
}

func TestBatchCmd(t *testing.T) {
	full, err := os.ReadFile(fullPayload)
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ab12cde.json"), full, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xy34zzz.json"), full, 0o644))
	out := filepath.Join(t.TempDir(), "reports")

	stdout, _, err := execute(t, NewBatchCmd(loader(t, nil)),
		"--dir", dir, "--out", out, "--format", "text", "--workers", "2", "--premium")

	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(out, "ab12cde.txt"))
	assert.FileExists(t, filepath.Join(out, "xy34zzz.txt"))
	assert.Contains(t, stdout, "Payload")
	assert.Contains(t, stdout, "ab12cde")
	assert.Contains(t, stdout, "ok")

	report, err := os.ReadFile(filepath.Join(out, "xy34zzz.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "XY34ZZZ")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[]`), 0o644))
	stdout, _, err = execute(t, NewBatchCmd(loader(t, nil)), "--dir", dir, "--out", out, "--format", "text")
	assert.EqualError(t, err, "1 of 3 reports failed")
	assert.Contains(t, stdout, "invalid report payload")

	_, _, err = execute(t, NewBatchCmd(loader(t, nil)), "--dir", t.TempDir(), "--out", out)
	assert.ErrorContains(t, err, "no payloads found")
}
