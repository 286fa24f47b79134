package imaging

import (
	"errors"
	"fmt"
	"io"
	"os"

	"imagetagger/internal/domain"
)

// Copier implements domain.FileCopier with CopyFile.
type Copier struct{}

var _ domain.FileCopier = Copier{}

// Copy implements domain.FileCopier.
func (Copier) Copy(src, dst string) error { return CopyFile(src, dst) }

// CopyFile copies src to dst, which must not exist yet. The copy keeps the
// source's permission bits and modification time. Failures are
// *domain.StorageError values wrapping domain.ErrSourceUnreadable or
// domain.ErrDestinationWrite; a partially written dst is removed.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return sourceError(src, err)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return sourceError(src, err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		// dst was never ours, so it is left alone.
		return destinationError(dst, err)
	}
	fail := func(err error) error {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}

	if _, err := io.Copy(out, sourceReader{in}); err != nil {
		var readErr sourceReadError
		if errors.As(err, &readErr) {
			return fail(sourceError(src, readErr.err))
		}
		return fail(destinationError(dst, err))
	}
	if err := out.Sync(); err != nil {
		return fail(destinationError(dst, err))
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return destinationError(dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		_ = os.Remove(dst)
		return destinationError(dst, err)
	}
	return nil
}

func sourceError(path string, err error) error {
	return &domain.StorageError{Op: "read source image", Path: path, Err: fmt.Errorf("%w: %w", domain.ErrSourceUnreadable, err)}
}

func destinationError(path string, err error) error {
	return &domain.StorageError{Op: "write image copy", Path: path, Err: fmt.Errorf("%w: %w", domain.ErrDestinationWrite, err)}
}

// sourceReader tags read errors so they can be told apart from write errors
// after io.Copy.
type sourceReader struct{ r io.Reader }

type sourceReadError struct{ err error }

func (e sourceReadError) Error() string { return e.err.Error() }
func (e sourceReadError) Unwrap() error { return e.err }

func (s sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		return n, sourceReadError{err}
	}
	return n, err
}
