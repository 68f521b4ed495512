package attachment

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"srdashboard/internal/shared/errors"
	"srdashboard/internal/shared/logger"
)

const (
	// DefaultMaxBytes is the upload ceiling used when none is configured.
	DefaultMaxBytes int64 = 10 << 20

	invalidFileTypeMessage = "Invalid file type. Only images, PDFs, Word docs, text files, and Excel files are allowed."
)

// allowedTypes maps each accepted extension to the detected MIME types that
// may legitimately carry it. Legacy Office files sniff as OLE containers and
// OOXML files as zip archives when the detector cannot see deeper.
var allowedTypes = map[string][]string{
	".jpeg": {"image/jpeg"},
	".jpg":  {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".txt":  {"text/plain"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".xls":  {"application/vnd.ms-excel", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
}

// Manager validates uploads and keeps at most one stored blob per request.
type Manager struct {
	store    BlobStore
	maxBytes int64
	logger   logger.Interface
	now      func() time.Time
}

func NewManager(store BlobStore, maxBytes int64, logger logger.Interface) *Manager {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Manager{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
		now:      time.Now,
	}
}

// MaxBytes is the largest accepted upload.
func (m *Manager) MaxBytes() int64 {
	return m.maxBytes
}

// Validate checks size, extension and sniffed content without storing anything.
func (m *Manager) Validate(fileName string, data []byte) error {
	if int64(len(data)) > m.maxBytes {
		return errors.NewTooLargeError(fmt.Sprintf("File too large. Maximum size is %dMB.", m.maxBytes>>20))
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	accepted, ok := allowedTypes[ext]
	if !ok {
		return errors.NewInvalidFileTypeError(invalidFileTypeMessage)
	}

	detected := mimetype.Detect(data)
	for mt := detected; mt != nil; mt = mt.Parent() {
		for _, want := range accepted {
			if mt.Is(want) {
				return nil
			}
		}
	}

	m.logger.Warnw("rejected attachment with mismatched content",
		"filename", fileName,
		"detected_mime", detected.String(),
	)
	return errors.NewInvalidFileTypeError(invalidFileTypeMessage)
}

// Attach validates and stores the upload under a fresh server-generated name
// and returns its public path. The client file name only contributes the
// extension.
func (m *Manager) Attach(ctx context.Context, fileName string, data []byte) (string, error) {
	if err := m.Validate(fileName, data); err != nil {
		return "", err
	}

	name := m.storedName(fileName)
	path, err := m.store.Store(ctx, data, name)
	if err != nil {
		m.logger.Errorw("failed to store attachment", "name", name, "error", err)
		return "", errors.NewInternalError("failed to store attachment")
	}

	m.logger.Infow("attachment stored", "path", path, "size", len(data))
	return path, nil
}

// Remove deletes the blob at path. Failures are logged and swallowed; an
// empty path is a no-op.
func (m *Manager) Remove(ctx context.Context, path string) {
	if path == "" {
		return
	}
	removed, err := m.store.Delete(ctx, path)
	if err != nil {
		m.logger.Warnw("failed to remove attachment", "path", path, "error", err)
		return
	}
	if removed {
		m.logger.Infow("attachment removed", "path", path)
	}
}

// Open streams a stored attachment. Returns a not found AppError when the
// blob does not exist.
func (m *Manager) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := m.store.Open(ctx, path)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return nil, errors.NewNotFoundError("File not found")
		}
		m.logger.Errorw("failed to open attachment", "path", path, "error", err)
		return nil, errors.NewInternalError("failed to read attachment")
	}
	return rc, nil
}

// Exists reports whether a blob is stored at path.
func (m *Manager) Exists(ctx context.Context, path string) (bool, error) {
	rc, err := m.store.Open(ctx, path)
	if err != nil {
		if stderrors.Is(err, ErrNotFound) {
			return false, nil
		}
		m.logger.Errorw("failed to check attachment", "path", path, "error", err)
		return false, errors.NewInternalError("failed to read attachment")
	}
	_ = rc.Close()
	return true, nil
}

func (m *Manager) storedName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return fmt.Sprintf("%d-%s%s", m.now().UnixMilli(), uuid.NewString(), ext)
}
