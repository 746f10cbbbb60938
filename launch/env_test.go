package launch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envValue(t *testing.T, env []string, key string) (string, bool) {
	t.Helper()
	prefix := key + "="
	var value string
	var found bool
	for _, entry := range env {
		if strings.HasPrefix(entry, prefix) {
			require.False(t, found, "duplicate entry for %s", key)
			value = entry[len(prefix):]
			found = true
		}
	}
	return value, found
}

func TestBuildEnvLiteralValues(t *testing.T) {
	config := NewConfig(
		WithModel("gpt-4o"),
		WithAPIKey("sk-literal $HOME `pwd`"),
		WithAPIBase("http://localhost:8000/v1"),
		WithGraphIndexDir("/data/graph"),
		WithBM25IndexDir("/data/bm25"),
	)

	env := config.BuildEnv([]string{"PATH=/usr/bin"})

	key, ok := envValue(t, env, EnvAPIKey)
	require.True(t, ok)
	// Values must pass through untouched, no shell expansion.
	assert.Equal(t, "sk-literal $HOME `pwd`", key)

	base, ok := envValue(t, env, EnvAPIBase)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8000/v1", base)

	graph, ok := envValue(t, env, EnvGraphIndexDir)
	require.True(t, ok)
	assert.Equal(t, "/data/graph", graph)

	bm25, ok := envValue(t, env, EnvBM25IndexDir)
	require.True(t, ok)
	assert.Equal(t, "/data/bm25", bm25)

	path, ok := envValue(t, env, "PATH")
	require.True(t, ok, "inherited entries must survive")
	assert.Equal(t, "/usr/bin", path)
}

func TestBuildEnvAPIBaseOmittedWhenEmpty(t *testing.T) {
	config := NewConfig(WithModel("gpt-4o"), WithAPIKey("sk-test"))

	env := config.BuildEnv(nil)

	_, ok := envValue(t, env, EnvAPIBase)
	assert.False(t, ok, "unset endpoint must not appear in the environment")
}

func TestBuildEnvPythonPath(t *testing.T) {
	sep := string(os.PathListSeparator)

	t.Run("joins configured entries", func(t *testing.T) {
		config := NewConfig(WithModel("gpt-4o"), WithPythonPath(".", "vendor"))
		env := config.BuildEnv(nil)

		value, ok := envValue(t, env, EnvPythonPath)
		require.True(t, ok)
		assert.Equal(t, "."+sep+"vendor", value)
	})

	t.Run("prepends to inherited value", func(t *testing.T) {
		config := NewConfig(WithModel("gpt-4o"))
		env := config.BuildEnv([]string{EnvPythonPath + "=/site-packages"})

		value, ok := envValue(t, env, EnvPythonPath)
		require.True(t, ok)
		assert.Equal(t, "."+sep+"/site-packages", value)
	})

	t.Run("overrides without duplicating the entry", func(t *testing.T) {
		config := NewConfig(WithModel("gpt-4o"), WithAPIKey("sk-test"))
		env := config.BuildEnv([]string{EnvAPIKey + "=sk-old"})

		value, ok := envValue(t, env, EnvAPIKey)
		require.True(t, ok)
		assert.Equal(t, "sk-test", value)
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("fills only unset fields", func(t *testing.T) {
		envFile := filepath.Join(dir, "creds.env")
		content := EnvAPIKey + "=sk-from-file\n" +
			EnvAPIBase + "=http://file-host:8000/v1\n" +
			EnvGraphIndexDir + "=/file/graph\n"
		require.NoError(t, os.WriteFile(envFile, []byte(content), 0600))

		config := NewConfig(
			WithModel("gpt-4o"),
			WithAPIKey("sk-explicit"),
			WithEnvFile(envFile),
		)
		require.NoError(t, config.LoadEnvFile())

		assert.Equal(t, "sk-explicit", config.APIKey, "explicit value must win")
		assert.Equal(t, "http://file-host:8000/v1", config.APIBase)
		assert.Equal(t, "/file/graph", config.GraphIndexDir)
		assert.Empty(t, config.BM25IndexDir)
	})

	t.Run("no env file configured", func(t *testing.T) {
		config := NewConfig(WithModel("gpt-4o"))
		assert.NoError(t, config.LoadEnvFile())
	})

	t.Run("unreadable env file", func(t *testing.T) {
		config := NewConfig(
			WithModel("gpt-4o"),
			WithEnvFile(filepath.Join(dir, "missing.env")),
		)
		err := config.LoadEnvFile()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEnvFile)
	})
}

func TestEnvKeys(t *testing.T) {
	config := NewConfig(
		WithModel("gpt-4o"),
		WithAPIKey("sk-test"),
		WithGraphIndexDir("/data/graph"),
	)

	keys := config.EnvKeys()
	assert.Equal(t, []string{EnvGraphIndexDir, EnvAPIKey, EnvPythonPath}, keys)
	for _, key := range keys {
		assert.NotContains(t, key, "sk-test", "manifests must never hold values")
	}
}
