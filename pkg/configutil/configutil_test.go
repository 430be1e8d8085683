package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Delay   float64           `json:"delay"`
	Nested  testNested        `json:"nested"`
	Mapping map[string]string `json:"mapping"`
}

type testNested struct {
	Dir     string `json:"dir"`
	Year    int    `json:"year"`
	Enabled bool   `json:"enabled"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	err := os.WriteFile(path, []byte(contents), 0644)
	require.NoError(t, err)
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, filepath.Join("conf", "jailpop.local.json5"), LocalPath(filepath.Join("conf", "jailpop.json5")))
	require.Equal(t, "config.local.json5", LocalPath("config.json5"))
}

func TestReadConfigMergesLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "jailpop.json5")
	writeFile(t, name, `{
		// comments are allowed
		name: "base",
		delay: 3,
		nested: {dir: "data", year: 2000},
	}`)
	writeFile(t, filepath.Join(dir, "jailpop.local.json5"), `{nested: {year: 2010}}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "base", cfg.Name)
	require.Equal(t, 3.0, cfg.Delay)
	require.Equal(t, "data", cfg.Nested.Dir)
	require.Equal(t, 2010, cfg.Nested.Year)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadKeepsDefaults(t *testing.T) {
	defaults := testConfig{
		Name:   "default",
		Delay:  1,
		Nested: testNested{Dir: "out", Year: 2000},
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json5"), defaults)
	require.NoError(t, err)
	require.Equal(t, defaults, cfg)

	dir := t.TempDir()
	name := filepath.Join(dir, "jailpop.json5")
	writeFile(t, name, `{nested: {dir: "elsewhere"}, mapping: {a: "1"}}`)

	cfg, err = Load(name, defaults)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 1.0, cfg.Delay)
	require.Equal(t, "elsewhere", cfg.Nested.Dir)
	require.Equal(t, 2000, cfg.Nested.Year)
	require.Equal(t, map[string]string{"a": "1"}, cfg.Mapping)
}

func TestLoadOverridesWithZeroValues(t *testing.T) {
	defaults := testConfig{
		Name:    "default",
		Delay:   1,
		Nested:  testNested{Dir: "out", Year: 2000, Enabled: true},
		Mapping: map[string]string{"a": "1"},
	}

	dir := t.TempDir()
	name := filepath.Join(dir, "jailpop.json5")
	writeFile(t, name, `{nested: {enabled: true, year: 2010}, mapping: {b: "2"}}`)
	writeFile(t, filepath.Join(dir, "jailpop.local.json5"), `{
		delay: 0,
		name: "",
		nested: {enabled: false},
	}`)

	cfg, err := Load(name, defaults)
	require.NoError(t, err)
	require.Equal(t, testConfig{
		Name:    "",
		Delay:   0,
		Nested:  testNested{Dir: "out", Year: 2010, Enabled: false},
		Mapping: map[string]string{"a": "1", "b": "2"},
	}, cfg)
}

func TestReadConfigLocalOnly(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "jailpop.json5")
	writeFile(t, filepath.Join(dir, "jailpop.local.json5"), `{name: "local"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "local", cfg.Name)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "jailpop.json5")
	writeFile(t, name, `{name: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}
