package filesystem

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arthur-debert/filedb/pkg/errors"
	"github.com/arthur-debert/filedb/pkg/logging"
	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"
)

// Mover relocates files, creating destination directories as needed. Each
// move runs as a synthfs plan: create the parent directory, copy the file,
// remove the source.
type Mover struct {
	fs     filesystem.FullFileSystem
	logger zerolog.Logger
}

// NewMover returns a Mover working on fsys. Paths handed to it are absolute.
func NewMover(fsys filesystem.FullFileSystem) *Mover {
	return &Mover{
		fs:     fsys,
		logger: logging.GetLogger("filesystem"),
	}
}

// NewOSMover returns a Mover working on the OS filesystem.
func NewOSMover() *Mover {
	return NewMover(NewOS())
}

// NewOS returns the OS filesystem addressed by absolute paths.
func NewOS() filesystem.FullFileSystem {
	osfs := filesystem.NewOSFileSystem("/")
	return synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths()
}

// NewMemory returns an in-memory filesystem addressed by absolute paths.
func NewMemory() filesystem.FullFileSystem {
	return synthfs.NewPathAwareFileSystem(filesystem.NewTestFileSystem(), "/").WithAbsolutePaths()
}

// Exists reports whether something occupies path.
func (m *Mover) Exists(path string) (bool, error) {
	_, err := m.fs.Stat(path)
	if err == nil {
		return true, nil
	}
	if notExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, errors.ErrInternal, "failed to stat %s", path)
}

// Stat returns the file info of path.
func (m *Mover) Stat(path string) (fs.FileInfo, error) {
	return m.fs.Stat(path)
}

// Move places src at dst.
func (m *Mover) Move(dst, src string) error {
	if _, err := m.fs.Stat(src); err != nil {
		if notExist(err) {
			return errors.Wrapf(err, errors.ErrFileNotFound, "source %s does not exist", src)
		}
		return errors.Wrapf(err, errors.ErrFileMove, "failed to stat %s", src)
	}

	sfs := synthfs.New()
	stamp := time.Now().UnixNano()
	base := filepath.Base(dst)
	dirID := fmt.Sprintf("mkdir_%s_%d", base, stamp)

	ops := []synthfs.Operation{
		sfs.CreateDirWithID(dirID, filepath.Dir(dst), 0755),
		sfs.CopyWithID(fmt.Sprintf("copy_%s_%d", base, stamp), src, dst),
		sfs.CustomOperationWithID(fmt.Sprintf("remove_%s_%d", base, stamp), func(ctx context.Context, fs filesystem.FileSystem) error {
			return fs.Remove(src)
		}),
	}

	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = true

	result, err := synthfs.RunWithOptions(context.Background(), m.fs, options, ops...)
	if err != nil {
		if failed := failedOperation(result); failed == synthfs.OperationID(dirID) {
			return errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", filepath.Dir(dst))
		}
		return errors.Wrapf(err, errors.ErrFileMove, "failed to move %s to %s", src, dst)
	}

	m.logger.Debug().Str("src", src).Str("dst", dst).Msg("Moved")
	return nil
}

func notExist(err error) bool {
	return os.IsNotExist(err) || stderrors.Is(err, fs.ErrNotExist)
}

// failedOperation returns the id of the first operation that did not succeed.
func failedOperation(result *synthfs.Result) synthfs.OperationID {
	if result == nil {
		return ""
	}
	for _, op := range result.GetOperations() {
		if r, ok := op.(synthfs.OperationResult); ok && r.Status != synthfs.StatusSuccess {
			return r.OperationID
		}
	}
	return ""
}
