// Package fileutil provides atomic in-place file replacement.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrReplace marks a failure in the delete-and-rename commit step, so
// callers can tell a botched swap apart from a failed transform.
var ErrReplace = errors.New("replacing original file")

// Replacement stages an atomic rewrite of a single file. Output is written
// to a sibling temp file; Commit swaps it over the original, Discard
// removes it and leaves the original untouched.
type Replacement struct {
	// Target is the file being replaced.
	Target string

	// SrcInfo is the stat of the original file, taken before any write.
	SrcInfo os.FileInfo

	// File is the temp file to write the new content into.
	File *os.File

	// TmpName is the temp file's path.
	TmpName string
}

// NewReplacement stats target and creates a temp file in the same
// directory, so the final rename never crosses filesystems.
// Caller must defer CleanupOnError.
func NewReplacement(target string) (*Replacement, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("getting file info for %q: %w", target, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &Replacement{
		Target:  target,
		SrcInfo: info,
		File:    tmpFile,
		TmpName: tmpFile.Name(),
	}, nil
}

// Commit closes the temp file and swaps it over the original. The
// original is removed only after the temp write and close have fully
// succeeded; a crash mid-write never touches it. A crash between the
// remove and the rename leaves the temp file as the sole copy in the same
// directory, a window the same-directory rename keeps as short as the
// filesystem allows.
func (r *Replacement) Commit() error {
	if err := r.File.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Chmod(r.TmpName, r.SrcInfo.Mode().Perm()); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Remove(r.Target); err != nil {
		return fmt.Errorf("%w: removing original: %w", ErrReplace, err)
	}

	if err := os.Rename(r.TmpName, r.Target); err != nil {
		return fmt.Errorf("%w: renaming %q: %w", ErrReplace, r.TmpName, err)
	}

	return nil
}

// Discard closes and removes the temp file, leaving the original untouched.
func (r *Replacement) Discard() {
	r.File.Close() //nolint:gosec // best-effort cleanup

	os.Remove(r.TmpName) //nolint:gosec // best-effort cleanup
}

// CleanupOnError discards the staged write if the operation failed.
func (r *Replacement) CleanupOnError(errp *error) {
	if *errp != nil {
		r.Discard()
	}
}
