package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	c := NewConfig()
	assert.Equal(t, []string{"**/*.php"}, c.Include)
	assert.Equal(t, []string{"vendor/**", "node_modules/**"}, c.Exclude)
	assert.Equal(t, 1000, c.CacheSize)
	assert.NoError(t, c.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("include:\n  - src/**/*.php\ncache_size: 50\n"), 0o644))

	c := NewConfig()
	require.NoError(t, c.Load(path))
	assert.Equal(t, []string{"src/**/*.php"}, c.Include)
	assert.Equal(t, []string{"vendor/**", "node_modules/**"}, c.Exclude, "missing keys keep defaults")
	assert.Equal(t, 50, c.CacheSize)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"bad-glob.yaml":   "include:\n  - \"src/[\"\n",
		"negative.yaml":   "cache_size: -1\n",
		"not-yaml.yaml":   "include: [\n",
		"wrong-type.yaml": "cache_size: many\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

			c := NewConfig()
			assert.Error(t, c.Load(path))
			assert.Equal(t, NewConfig(), c, "a failed load changes nothing")
		})
	}
}

func TestLoadWorkspace(t *testing.T) {
	dir := t.TempDir()
	c := NewConfig()
	c.LoadWorkspace(dir)
	assert.Equal(t, dir, c.WorkspaceRoot)
	assert.Equal(t, 1000, c.CacheSize, "no file keeps defaults")

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("exclude: []\n"), 0o644))
	c = NewConfig()
	c.LoadWorkspace(dir)
	assert.Empty(t, c.Exclude)
}

func TestApplyInitializationOptions(t *testing.T) {
	c := NewConfig()
	c.ApplyInitializationOptions(map[string]any{
		"include":       []any{"app/**/*.php", "", 3, "bad["},
		"exclude":       []any{},
		"cache_size":    float64(20),
		"log_verbosity": float64(2),
		"unknown":       true,
	})
	assert.Equal(t, []string{"app/**/*.php"}, c.Include)
	assert.Empty(t, c.Exclude)
	assert.Equal(t, 20, c.CacheSize)
	assert.Equal(t, 2, c.LogVerbosity)

	before := *c
	c.ApplyInitializationOptions("not a map")
	c.ApplyInitializationOptions(map[string]any{"cache_size": "ten", "include": "x"})
	assert.Equal(t, before, *c)
}

func TestMatches(t *testing.T) {
	c := NewConfig()
	assert.True(t, c.Matches("index.php"))
	assert.True(t, c.Matches(filepath.Join("src", "Service", "Worker.php")))
	assert.False(t, c.Matches("README.md"))
	assert.False(t, c.Matches("vendor/acme/lib/Client.php"))
	assert.False(t, c.Matches("node_modules/x/y.php"))
}

func TestSkipDir(t *testing.T) {
	c := NewConfig()
	assert.True(t, c.SkipDir("vendor"))
	assert.True(t, c.SkipDir("node_modules"))
	assert.False(t, c.SkipDir("src"))

	c.Exclude = []string{"**/cache/**", "*.tmp.php"}
	assert.True(t, c.SkipDir("var/cache"))
	assert.False(t, c.SkipDir("var"))
}
