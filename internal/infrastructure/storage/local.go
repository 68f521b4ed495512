package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"srdashboard/internal/application/servicerequest/attachment"
	"srdashboard/internal/shared/logger"
)

// LocalStore keeps attachments in a directory on the local filesystem.
type LocalStore struct {
	dir    string
	logger logger.Interface
}

func NewLocalStore(dir string, logger logger.Interface) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

// Dir is the directory attachments are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Store(ctx context.Context, data []byte, name string) (string, error) {
	name, err := checkName(name)
	if err != nil {
		return "", err
	}

	target := filepath.Join(s.dir, name)
	if err := os.WriteFile(target, data, 0640); err != nil {
		return "", fmt.Errorf("failed to write attachment: %w", err)
	}

	s.logger.Debugw("attachment stored", "name", name, "size", len(data))
	return publicPath(name), nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) (bool, error) {
	name, err := objectName(path)
	if err != nil {
		return false, err
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove attachment: %w", err)
	}
	return true, nil
}

func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	name, err := objectName(path)
	if err != nil {
		return nil, attachment.ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, attachment.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open attachment: %w", err)
	}
	return f, nil
}
