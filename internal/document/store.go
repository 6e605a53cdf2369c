package document

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"go-leave/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrStoreFailure = apperror.New(
	apperror.CodeInternalError,
	"failed to store supporting document",
	http.StatusInternalServerError,
)

func storeFailure(err error) *apperror.AppError {
	return apperror.Wrap(err, apperror.CodeInternalError, ErrStoreFailure.Message, http.StatusInternalServerError)
}

// Store persists supporting documents attached to a leave request and
// returns the URL each one is served under. Failures abort request
// creation, so implementations must not leave half-written state behind.
//
//go:generate mockgen -source=store.go -destination=mock/store_mock.go -package=mock
type Store interface {
	Store(ctx context.Context, name string, r io.Reader) (string, error)
	StoreMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
}

type diskStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewDiskStore writes documents under dir and serves them under
// baseURL (e.g. "/documents").
func NewDiskStore(dir, baseURL string, logger ...*zap.Logger) (Store, error) {
	l := zap.L().Named("document.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("document.store")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir %s: %w", dir, err)
	}
	return &diskStore{dir: dir, baseURL: baseURL, logger: l}, nil
}

func (s *diskStore) Store(ctx context.Context, name string, r io.Reader) (string, error) {
	// Uploaded names never touch the filesystem path.
	stored := uuid.NewString() + sanitizeExt(name)
	path := filepath.Join(s.dir, stored)

	f, err := os.Create(path)
	if err != nil {
		s.logger.Error("create document file failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", storeFailure(err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		s.logger.Error("write document file failed",
			zap.String("path", path),
			zap.Error(err),
		)
		os.Remove(path)
		return "", storeFailure(err)
	}

	return s.baseURL + "/" + stored, nil
}

func (s *diskStore) StoreMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, storeFailure(err)
		}

		url, err := s.Store(ctx, fh.Filename, src)
		src.Close()
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func sanitizeExt(name string) string {
	ext := filepath.Ext(name)
	if len(ext) > 10 {
		return ""
	}
	for _, r := range ext {
		if r == '/' || r == '\\' || r == 0 {
			return ""
		}
	}
	return ext
}
