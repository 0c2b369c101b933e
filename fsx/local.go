package fsx

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Abraxas-365/wacloud/errx"
)

// Local reads from the local disk. Relative paths resolve against Root.
type Local struct {
	Root string
}

// NewLocal creates a Local file system rooted at root
func NewLocal(root string) *Local {
	return &Local{Root: root}
}

func (l *Local) resolve(path string) string {
	if filepath.IsAbs(path) || l.Root == "" {
		return path
	}
	return filepath.Join(l.Root, path)
}

func (l *Local) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return readAll(ctx, l, path)
}

func (l *Local) ReadFileStream(ctx context.Context, path string) (io.ReadCloser, error) {
	f, err := os.Open(l.resolve(path))
	if err != nil {
		return nil, localError(path, err)
	}
	return f, nil
}

func (l *Local) Stat(ctx context.Context, path string) (FileInfo, error) {
	info, err := os.Stat(l.resolve(path))
	if err != nil {
		return FileInfo{}, localError(path, err)
	}
	return FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := l.Stat(ctx, path)
	if errx.IsCode(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func localError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return ErrorRegistry.New(ErrNotFound).WithDetail("path", path).WithCause(err)
	}
	return ErrorRegistry.New(ErrReadFailed).WithDetail("path", path).WithCause(err)
}
