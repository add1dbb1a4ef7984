package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf", DefaultPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSettings(t, `
root_urlconf = "urls/root.yaml"
dir = ".."
module = "example.com/shop"
apps = ["users", "orders"]
locale = "en"
`)
	s, err := Load(path)
	require.NoError(t, err)

	base := filepath.Dir(path)
	assert.Equal(t, path, s.Path())
	assert.Equal(t, filepath.Join(base, "urls", "root.yaml"), s.URLConfPath())
	assert.Equal(t, filepath.Dir(base), s.WorkDir())
	assert.Equal(t, "example.com/shop", s.Module)
	assert.Equal(t, "en", s.Locale)
	assert.Equal(t, []string{"users", "orders", "admin"}, s.MergeApps([]string{"orders", "admin", ""}))
}

func TestLoadDefaults(t *testing.T) {
	path := writeSettings(t, `root_urlconf = "/abs/urls.yaml"`)
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/abs/urls.yaml", s.URLConfPath())
	assert.Equal(t, filepath.Dir(path), s.WorkDir())
	assert.Empty(t, s.MergeApps(nil))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APIDOC_ROOT_URLCONF", "env.yaml")
	t.Setenv("APIDOC_APPS", "billing,users")
	path := writeSettings(t, `module = "example.com/shop"`)

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "env.yaml"), s.URLConfPath())
	assert.Equal(t, []string{"billing", "users"}, s.Apps)
}

func TestLoadMissingURLConf(t *testing.T) {
	path := writeSettings(t, `module = "example.com/shop"`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrMissingURLConf)
	assert.Contains(t, err.Error(), "does not have the attribute root_urlconf")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	path := writeSettings(t, `root_urlconf = [`)
	_, err = Load(path)
	assert.Error(t, err)
}
