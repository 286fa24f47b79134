// Package filestore persists session, tag and sidecar files on the local
// filesystem. Every overwrite goes through WriteFileAtomic so a crash leaves
// either the old or the new content on disk, never a torn file.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// BackupSuffix is appended to a file name to form its backup copy.
const BackupSuffix = ".bak"

// testHookBeforeRename runs between writing the temp file and renaming it
// onto the target. Tests set it to simulate a crash in that window.
var testHookBeforeRename func()

// RenameError is returned when the final rename fails. The temp file has
// already been removed by the time the caller sees it.
type RenameError struct {
	Err      error
	tempPath string
}

func (e RenameError) Error() string    { return fmt.Sprintf("rename %s: %v", e.tempPath, e.Err) }
func (e RenameError) TempPath() string { return e.tempPath }
func (e RenameError) Unwrap() error    { return e.Err }

// WriteFileAtomic writes data to path through a synced temp file in the same
// directory and a rename. With backup set, the current content of path (if
// any) is first copied to path+BackupSuffix.
func WriteFileAtomic(path string, data []byte, perm os.FileMode, backup bool) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := writeTemp(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	success := false
	defer func() {
		if !success {
			if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("failed to remove temporary file", "path", tmp, "err", err)
			}
		}
	}()

	if backup {
		if err := copyToBackup(path, perm); err != nil {
			return err
		}
	}

	if testHookBeforeRename != nil {
		testHookBeforeRename()
	}

	if err := os.Rename(tmp, path); err != nil {
		return RenameError{Err: err, tempPath: tmp}
	}
	success = true
	syncDir(dir)
	return nil
}

// writeTemp creates a hidden temp file next to the target, writes and syncs
// data, and returns its path. The file is removed on failure.
func writeTemp(dir, base string, data []byte, perm os.FileMode) (string, error) {
	f, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	name := f.Name()
	fail := func(err error) (string, error) {
		_ = f.Close()
		_ = os.Remove(name)
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		return fail(fmt.Errorf("write temp file: %w", err))
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("close temp file %q: %w", name, err)
	}
	if err := os.Chmod(name, perm); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	return name, nil
}

// copyToBackup replaces path+BackupSuffix with the current content of path.
// A missing path is not an error: there is nothing to back up yet.
func copyToBackup(path string, perm os.FileMode) error {
	current, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read for backup: %w", err)
	}
	dst := path + BackupSuffix
	tmp, err := writeTemp(filepath.Dir(dst), filepath.Base(dst), current, perm)
	if err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("backup: %w", RenameError{Err: err, tempPath: tmp})
	}
	return nil
}

// syncDir flushes the directory entry of a completed rename. Not every
// platform supports syncing a directory, so failures are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
