package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFile(t *testing.T) {
	t.Run("explicit path wins", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "/env/config.toml")
		assert.Equal(t, "/explicit/config.json", ConfigFile("/explicit/config.json"))
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "/env/config.toml")
		assert.Equal(t, "/env/config.toml", ConfigFile(""))
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(EnvConfigFile, "")
		got := ConfigFile("")
		assert.True(t, filepath.IsAbs(got))
		assert.Equal(t, filepath.Join(AppDirName, ConfigFileName), filepath.Join(filepath.Base(filepath.Dir(got)), filepath.Base(got)))
	})
}

func TestLogFile(t *testing.T) {
	t.Run("explicit override", func(t *testing.T) {
		t.Setenv(EnvLogFile, "/tmp/custom.log")
		assert.Equal(t, "/tmp/custom.log", LogFile())
	})

	t.Run("state home", func(t *testing.T) {
		t.Setenv(EnvLogFile, "")
		t.Setenv("XDG_STATE_HOME", "/custom/state")
		assert.Equal(t, "/custom/state/filedb/filedb.log", LogFile())
	})
}

func TestDefaultRoot(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	root, err := DefaultRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, DefaultRootDir), root)
}

func TestExpandHome(t *testing.T) {
	t.Setenv(EnvHome, "/home/tester")

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/tester"},
		{"~/archive", "/home/tester/archive"},
		{"/abs/path", "/abs/path"},
		{"relative/~", "relative/~"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandHome(tt.in))
		})
	}
}
