package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// List resolves path into the data files it denotes.
//
// A regular file is returned as-is. A directory yields every regular file
// directly inside it whose name ends in ext, sorted by name; names starting
// with "_" or "." (e.g. _SUCCESS markers, .crc files) are skipped. An empty
// result is an error.
func List(path, ext string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			continue
		}
		if ext != "" && !strings.HasSuffix(name, ext) {
			continue
		}
		out = append(out, filepath.Join(path, name))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s files in %s", ext, path)
	}
	sort.Strings(out)
	return out, nil
}
