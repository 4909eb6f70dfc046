package bench

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigParsesIncludeExcludeTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
include:
  - "*.sts"
exclude:
  - "*.skip.sts"
timeout: 45s
`), 0o644))

	cfg, err := LoadConfig(path, dir)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.Dir)
	require.Equal(t, []string{"*.sts"}, cfg.Include)
	require.Equal(t, []string{"*.skip.sts"}, cfg.Exclude)
	require.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timeout: not-a-duration\n"), 0o644))

	_, err := LoadConfig(path, dir)
	require.Error(t, err)
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), ".")
	require.Error(t, err)
}
