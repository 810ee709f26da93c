package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxFileSize = 10 << 20

var allowedMimeTypes = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
	"image/avif":    ".avif",
}

// Service validates images, writes them to the storage backend and keeps
// a record per file.
type Service struct {
	repo    Repository
	storage Storage
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, storage Storage, log *zap.Logger) *Service {
	return &Service{repo: repo, storage: storage, log: log, now: time.Now}
}

// Upload stores the image under <folder>/<yyyy>/<mm>/<uuid><ext>.
func (s *Service) Upload(ctx context.Context, adminID, folder string, fh *multipart.FileHeader) (*Upload, error) {
	if !validFolder(folder) {
		return nil, ErrInvalidFolder
	}
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read file: %w", err)
	}
	head = head[:n]

	mimeType := detectMimeType(head, fh.Filename)
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}

	now := s.now().UTC()
	id := uuid.NewString()
	key := fmt.Sprintf("%s/%04d/%02d/%s%s", folder, now.Year(), now.Month(), id, ext)

	body := io.MultiReader(bytes.NewReader(head), file)
	url, err := s.storage.Put(ctx, key, mimeType, body, fh.Size)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	u := &Upload{
		ID:           id,
		Folder:       folder,
		Key:          key,
		OriginalName: filepath.Base(fh.Filename),
		URL:          url,
		MimeType:     mimeType,
		Size:         fh.Size,
		UploadedBy:   adminID,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if derr := s.storage.Delete(context.WithoutCancel(ctx), key); derr != nil {
			s.log.Warn("orphaned upload", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("save upload record: %w", err)
	}

	s.log.Info("image uploaded", zap.String("key", key), zap.Int64("size", fh.Size))
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*Upload, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, folder string) ([]Upload, error) {
	if folder != "" && !validFolder(folder) {
		return nil, ErrInvalidFolder
	}
	return s.repo.List(ctx, folder)
}

// Delete removes the stored object and its record.
func (s *Service) Delete(ctx context.Context, id string) error {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, u.Key); err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

// detectMimeType sniffs the content. SVG and AVIF are not sniffed by
// net/http and are recognized by extension plus a content check.
func detectMimeType(head []byte, filename string) string {
	mimeType, _, _ := strings.Cut(http.DetectContentType(head), ";")

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".svg":
		if (strings.HasPrefix(mimeType, "text/") || mimeType == "application/xml") && bytes.Contains(head, []byte("<svg")) {
			return "image/svg+xml"
		}
	case ".avif":
		if len(head) >= 12 && string(head[4:12]) == "ftypavif" {
			return "image/avif"
		}
	}
	return mimeType
}
