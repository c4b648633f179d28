package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plistconv.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, Validate(cfg))

	opts := cfg.ConverterOptions()
	assert.Equal(t, "    ", opts.Indent)
	assert.Equal(t, 512, opts.MaxDepth)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
input = "in.plist"
output = "out.json"
iformat = "binary"
oformat = "json"
loglevel = "debug"
indent = 2
max_depth = 64
append = true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Input:        "in.plist",
		Output:       "out.json",
		InputFormat:  "binary",
		OutputFormat: "json",
		LogLevel:     "debug",
		Indent:       2,
		MaxDepth:     64,
		Append:       true,
	}, cfg)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "config load failed")
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	_, err = Load(writeConfig(t, "iformat = [\n"))
	assert.ErrorContains(t, err, "config load failed")

	_, err = Load(writeConfig(t, "colour = true\n"))
	assert.ErrorContains(t, err, `unknown key "colour"`)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvInputFormat, "json")
	t.Setenv(EnvOutputFormat, "binary")
	t.Setenv(EnvMaxDepth, "9")

	cfg, err := Load(writeConfig(t, "loglevel = \"debug\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, "json", cfg.InputFormat)
	assert.Equal(t, "binary", cfg.OutputFormat)
	assert.Equal(t, 9, cfg.MaxDepth)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "input format", mutate: func(c *Config) { c.InputFormat = "yaml" }, want: "iformat"},
		{name: "output format", mutate: func(c *Config) { c.OutputFormat = "" }, want: "oformat"},
		{name: "log level", mutate: func(c *Config) { c.LogLevel = "loud" }, want: "loglevel"},
		{name: "indent", mutate: func(c *Config) { c.Indent = -1 }, want: "indent"},
		{name: "depth", mutate: func(c *Config) { c.MaxDepth = -1 }, want: "max_depth"},
		{name: "append", mutate: func(c *Config) { c.Append = true }, want: "append requires"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
