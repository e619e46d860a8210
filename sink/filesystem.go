package sink

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// tempPattern names in-flight files. Leftovers from a crash can be
// removed by matching it.
const tempPattern = ".zerogen-*.tmp"

// FilesystemSink writes to a directory on the local filesystem.
type FilesystemSink struct {
	// Root is the base directory for all writes.
	Root string

	// Mode is the file permission mode (default: 0644).
	Mode os.FileMode

	// Overwrite controls behavior for existing files.
	// If false, WriteFile fails when the file exists.
	Overwrite bool
}

// NewFilesystemSink creates a FilesystemSink writing to root, replacing
// existing files.
func NewFilesystemSink(root string) *FilesystemSink {
	return &FilesystemSink{Root: root, Mode: 0644, Overwrite: true}
}

// WriteFile writes content to path within the root directory. Parent
// directories are created as needed and the file appears atomically.
func (s *FilesystemSink) WriteFile(ctx context.Context, path string, content []byte) error {
	if err := checkWrite(ctx, path); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "create directories")
	}

	tmp, err := s.writeTemp(dir, content)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := s.commit(tmp, full, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// resolve joins path to the root and rejects results outside it.
func (s *FilesystemSink) resolve(path string) (string, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	absRoot, err := filepath.Abs(s.Root)
	if err != nil {
		return "", errors.Wrap(err, "resolve root directory")
	}
	absPath, err := filepath.Abs(full)
	if err != nil {
		return "", errors.Wrap(err, "resolve path")
	}
	if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", errors.Newf("path escapes root directory: %q", path)
	}
	return full, nil
}

// writeTemp writes content to a new temp file in dir with the sink's
// mode and returns its name.
func (s *FilesystemSink) writeTemp(dir string, content []byte) (string, error) {
	f, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return "", errors.Wrap(err, "create temp file")
	}
	name := f.Name()

	_, werr := f.Write(content)
	cerr := f.Close()
	switch {
	case werr != nil:
		err = errors.Wrap(werr, "write temp file")
	case cerr != nil:
		err = errors.Wrap(cerr, "close temp file")
	default:
		mode := s.Mode
		if mode == 0 {
			mode = 0644
		}
		if cherr := os.Chmod(name, mode); cherr != nil {
			err = errors.Wrap(cherr, "set file mode")
		}
	}
	if err != nil {
		_ = os.Remove(name)
		return "", err
	}
	return name, nil
}

// commit moves tmp into place. Without Overwrite it hard-links instead,
// which fails atomically when the target exists.
func (s *FilesystemSink) commit(tmp, full, path string) error {
	if s.Overwrite {
		return errors.Wrap(os.Rename(tmp, full), "rename temp file")
	}
	if err := os.Link(tmp, full); err != nil {
		if errors.Is(err, os.ErrExist) {
			return errors.Newf("file already exists: %q", path)
		}
		return errors.Wrap(err, "create file")
	}
	_ = os.Remove(tmp)
	return nil
}
