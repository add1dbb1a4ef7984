package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopSettings = "testdata/shop/apidoc.toml"

func readOutput(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

// headings returns the route lines of a generated reference, in order.
func headings(out string) []string {
	var got []string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "### **[") {
			got = append(got, strings.TrimSuffix(line, " "))
		}
	}
	return got
}

func TestExportShop(t *testing.T) {
	target := filepath.Join(t.TempDir(), "sub", "out.md")
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-s", shopSettings, "-o", target}, &stdout, io.Discard))
	assert.Equal(t, "completed: "+target+"\n", stdout.String())

	out := readOutput(t, target)
	assert.Equal(t, []string{
		"### **[GET] /ping/**",
		"### **[GET] /api/users/**",
		"### **[POST] /api/users/new/**",
		"### **[GET] /api/users/<pk>/**",
		"### **[POST PUT] /api/users/<pk>/set_password/**",
	}, headings(out))

	for _, title := range []string{"## Ping", "## ListPage", "## CreateUser", "## GetUser", "## SetPassword"} {
		assert.Contains(t, out, title+" \n")
	}
	assert.NotContains(t, out, "summary")
	assert.NotContains(t, out, "legacy")

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	for _, line := range lines {
		assert.True(t, strings.HasSuffix(line, " "), "line %q", line)
	}
	assert.Equal(t, 4, strings.Count(out, "``` \n \n \n \n## "))
	assert.Contains(t, out, "| id | int | user id |")
	assert.Contains(t, out, "{\"name\": \"bob\"} \n")
}

func TestExportAppFilter(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-settings", shopSettings, "-app", "orders", "-o", "-"}, &stdout, io.Discard))

	out := stdout.String()
	assert.Equal(t, []string{"### **[GET] /ping/**"}, headings(out))
	assert.NotContains(t, out, "completed:")
	assert.Contains(t, out, "| status | string | service status |")
}

func TestExportLocale(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-s", shopSettings, "-a", "orders", "--locale", "en", "-o", "-"}, &stdout, io.Discard))
	assert.Contains(t, stdout.String(), "### **Response** \n")

	err := run([]string{"-s", shopSettings, "--locale", "fr", "-o", "-"}, io.Discard, io.Discard)
	assert.ErrorContains(t, err, "unknown locale")
}

func TestExportMissingRootURLConfSetting(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "apidoc.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("module = \"example.com/shop\"\n"), 0o644))

	err := run([]string{"-s", settingsPath, "-o", filepath.Join(dir, "out.md")}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not have the attribute root_urlconf")
	assert.NoFileExists(t, filepath.Join(dir, "out.md"))
}

func TestExportUnreadableRootURLConf(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "apidoc.toml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("root_urlconf = \"missing.yaml\"\n"), 0o644))
	target := filepath.Join(dir, "out.md")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"-s", settingsPath, "-o", target, "--traceback"}, &stdout, &stderr))
	assert.Equal(t, "completed: "+target+"\n", stdout.String())
	assert.Empty(t, readOutput(t, target))
	assert.Contains(t, stderr.String(), "reading urlconf")
	assert.Contains(t, stderr.String(), "missing.yaml")

	stderr.Reset()
	require.NoError(t, run([]string{"-s", settingsPath, "-o", target}, io.Discard, &stderr))
	assert.Empty(t, stderr.String())
}

func TestExportMultipleSettings(t *testing.T) {
	var stdout bytes.Buffer
	require.NoError(t, run([]string{"-s", shopSettings, "-s", shopSettings, "-a", "orders", "-o", "-"}, &stdout, io.Discard))
	assert.Equal(t, []string{"### **[GET] /ping/**", "### **[GET] /ping/**"}, headings(stdout.String()))
}

func TestHelpFlag(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"--help"}, &buf, io.Discard))
	out := buf.String()
	assert.Contains(t, out, "export-apidoc [flags]")
	assert.Contains(t, out, "--settings")
	assert.Contains(t, out, "completion  Generate shell completion scripts")
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"completion", "bash"}, &buf, io.Discard))
	assert.Contains(t, buf.String(), "__start_export-apidoc")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	require.NoError(t, run([]string{"gen-docs", tmp}, io.Discard, io.Discard))
	assert.FileExists(t, filepath.Join(tmp, "export-apidoc.md"))
}

func TestNormalizeLegacyArgs(t *testing.T) {
	flags := newRootCmd(io.Discard, io.Discard).Flags()
	cases := []struct {
		in   []string
		want []string
	}{
		{in: []string{"-output", "x.md"}, want: []string{"--output", "x.md"}},
		{in: []string{"-app=users", "-o", "-"}, want: []string{"--app=users", "-o", "-"}},
		{in: []string{"-settings", "a.toml", "-locale=en"}, want: []string{"--settings", "a.toml", "--locale=en"}},
		{in: []string{"-traceback", "--", "-verbose"}, want: []string{"--traceback", "--", "-verbose"}},
		{in: []string{"-unknown", "-av", "--app", "x"}, want: []string{"-unknown", "-av", "--app", "x"}},
		{in: nil, want: nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizeLegacyArgs(flags, tc.in), "%v", tc.in)
	}
}

func TestCompletionShells(t *testing.T) {
	for _, shell := range []string{"zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		require.NoError(t, run([]string{"completion", shell}, &buf, io.Discard), shell)
		assert.NotEmpty(t, buf.String(), shell)
	}
	assert.Error(t, run([]string{"completion", "tcsh"}, io.Discard, io.Discard))
}

func TestLocaleFlagCompletion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run([]string{"__complete", "--locale", ""}, &buf, io.Discard))
	assert.Contains(t, buf.String(), "en\n")
	assert.Contains(t, buf.String(), "zh\n")
}
