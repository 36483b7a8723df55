// Package filter resolves command-line file arguments into a concrete
// list of regular files.
package filter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolve expands glob patterns and directories into regular files,
// preserving argument order and dropping duplicates. Explicitly named
// files are always included; files found by expanding a pattern or a
// directory are filtered to the encrypted suffix on decrypt runs, so a
// decrypt over a directory never chews through plaintext.
func Resolve(args []string, decrypt bool, encryptSuffix string) ([]string, error) {
	var files []string

	seen := make(map[string]struct{})

	add := func(path string, expanded bool) {
		if expanded && decrypt && encryptSuffix != "" && !strings.HasSuffix(path, encryptSuffix) {
			return
		}

		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		switch info, err := os.Stat(arg); {
		case err == nil && info.Mode().IsRegular():
			add(arg, false)

			continue
		case err == nil && info.IsDir():
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("reading directory %q: %w", arg, err)
			}

			for _, entry := range entries {
				if entry.Type().IsRegular() {
					add(filepath.Join(arg, entry.Name()), true)
				}
			}

			continue
		case err == nil:
			return nil, fmt.Errorf("%q is not a regular file", arg)
		}

		// Not stat-able as-is: treat as a glob pattern.
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}

		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", arg)
		}

		for _, match := range matches {
			if info, err := os.Stat(match); err == nil && info.Mode().IsRegular() {
				add(match, true)
			}
		}
	}

	return files, nil
}
