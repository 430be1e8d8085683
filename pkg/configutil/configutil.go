package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the path of the local override file for a config file,
// `jailpop.json5` -> `jailpop.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefixname, ext))
}

// decodeLayer decodes one file onto out, keys missing from the file keep
// whatever out already holds. It reports false when the file does not exist.
func decodeLayer(path string, out any) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// readLayers decodes `name` and then `<name>.local.<ext>` onto out. Values set
// in a file always win, including false and 0. Maps are extended key by key.
func readLayers(name string, out any) (bool, error) {
	found, err := decodeLayer(name, out)
	if err != nil {
		return false, err
	}

	localFilepath := LocalPath(name)
	foundLocal, err := decodeLayer(localFilepath, out)
	if err != nil {
		return false, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}
	return found || foundLocal, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// the following files are layered, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readLayers(name, &out)
	if err != nil {
		return out, err
	}
	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Load is ReadConfig layered on top of `defaults`, fields left out of the files
// keep their default value. Missing files are not an error. Maps held by
// `defaults` are extended in place.
func Load[T any](name string, defaults T) (T, error) {
	out := defaults
	found, err := readLayers(name, &out)
	if err != nil {
		return out, err
	}
	if !found {
		slog.Debug("no config file found, using defaults", "name", name)
	}
	return out, nil
}
