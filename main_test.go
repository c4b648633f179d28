package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const launchdPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>com.test.gupdatedb</string>
	<key>Nice</key>
	<integer>13</integer>
	<key>ProgramArguments</key>
	<array>
		<string>/opt/homebrew/bin/gupdatedb</string>
		<string>--localpaths=/Users /var/tmp /opt</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`

const launchdJSON = `{
    "Label": "com.test.gupdatedb",
    "Nice": 13,
    "ProgramArguments": [
        "/opt/homebrew/bin/gupdatedb",
        "--localpaths=/Users /var/tmp /opt"
    ],
    "RunAtLoad": true
}
`

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFileToStdout(t *testing.T) {
	path := writeFile(t, "test.plist", launchdPlist)
	code, stdout, stderr := runCLI(t, "", "-f", path)
	assert.Equal(t, exitOK, code, stderr)
	assert.Equal(t, launchdJSON, stdout)
}

func TestRunStdinJSONToPlist(t *testing.T) {
	code, stdout, stderr := runCLI(t, `{"Label": "x", "Nice": 13}`, "-I", "json", "-O", "xml")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "<key>Label</key>")
	assert.Contains(t, stdout, "<integer>13</integer>")
}

func TestRunFormatsAreCaseInsensitive(t *testing.T) {
	code, stdout, stderr := runCLI(t, launchdPlist, "--iformat", "XML", "--oformat", "JSON")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, launchdJSON, stdout)
}

func TestRunOutputFile(t *testing.T) {
	in := writeFile(t, "in.plist", launchdPlist)
	out := filepath.Join(t.TempDir(), "out.json")

	code, stdout, stderr := runCLI(t, "", "-f", in, "-o", out)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	code, _, stderr = runCLI(t, "", "-f", in, "-o", out, "--append")
	require.Equal(t, exitOK, code, stderr)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, launchdJSON+launchdJSON, string(data))

	code, _, stderr = runCLI(t, "", "-f", in, "-o", out)
	require.Equal(t, exitOK, code, stderr)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, launchdJSON, string(data))
}

func TestRunDecodeErrorWritesNothing(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	code, stdout, stderr := runCLI(t, "<plist><dict>", "-o", out)
	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "conversion failed")
	assert.Contains(t, stderr, "decode xml")
	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunEmptyStdin(t *testing.T) {
	for _, stdin := range []string{"", "\n\t "} {
		code, stdout, stderr := runCLI(t, stdin)
		assert.Equal(t, exitError, code, "%q", stdin)
		assert.Empty(t, stdout)
		assert.Contains(t, stderr, "empty property list")
	}
}

func TestRunMissingInputFile(t *testing.T) {
	code, _, stderr := runCLI(t, "", "-f", filepath.Join(t.TempDir(), "missing.plist"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "failed to read input")
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-O", "yaml"},
		{"-L", "loud"},
		{"--no-such-flag"},
		{"stray"},
		{"--append"},
	} {
		code, _, stderr := runCLI(t, "", args...)
		assert.Equal(t, exitUsage, code, "%v", args)
		assert.NotEmpty(t, stderr, "%v", args)
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-V")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "plistconv dev\n", stdout)

	code, stdout, _ = runCLI(t, "", "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "--iformat")
}

func TestRunConfigFile(t *testing.T) {
	cfg := writeFile(t, "plistconv.toml", "iformat = \"json\"\noformat = \"json\"\nindent = 2\n")
	code, stdout, stderr := runCLI(t, `{"b":[1]}`, "-c", cfg)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "{\n  \"b\": [\n    1\n  ]\n}\n", stdout)

	// flags win over the file
	code, stdout, stderr = runCLI(t, `{"b":[1]}`, "-c", cfg, "-O", "xml")
	require.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, "<array>")
}

func TestRunDebugLogging(t *testing.T) {
	code, _, stderr := runCLI(t, "[]", "-I", "json", "-L", "debug")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "starting conversion")
	assert.Contains(t, stderr, "decoded input")
}
