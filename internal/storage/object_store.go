package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hightask/helpdesk-api/internal/domain"
	apperrors "github.com/hightask/helpdesk-api/pkg/util"
)

const blobKeyPrefix = "blob:"

// Only image uploads are accepted for ticket attachments.
var allowedTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ObjectStore holds attachment binaries under per-user path prefixes and
// serves them back through time-limited signed URLs.
type ObjectStore struct {
	client   *redis.Client
	signer   *URLSigner
	maxBytes int64
}

// NewObjectStore constructs the store.
func NewObjectStore(client *redis.Client, signer *URLSigner, maxBytes int64) *ObjectStore {
	return &ObjectStore{client: client, signer: signer, maxBytes: maxBytes}
}

func blobKey(filePath string) string {
	return blobKeyPrefix + filePath
}

// Save validates and stores an uploaded attachment under
// <userID>/<uuid>.<ext> and returns its metadata. The metadata is what gets
// copied verbatim onto a ticket at creation time.
func (s *ObjectStore) Save(ctx context.Context, userID, fileName, fileType string, data []byte) (*domain.Attachment, error) {
	ext, ok := allowedTypes[strings.ToLower(fileType)]
	if !ok {
		return nil, apperrors.NewValidationError(
			"invalid file type; only PNG, JPEG, GIF and WEBP images are allowed",
			map[string]any{"file_type": fileType},
		)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, apperrors.NewValidationError("file too large", map[string]any{
			"max_bytes": s.maxBytes,
		})
	}

	uniqueName := uuid.NewString() + "." + ext
	filePath := path.Join(userID, uniqueName)

	if err := s.client.HSet(ctx, blobKey(filePath), map[string]any{
		"data":         data,
		"content_type": fileType,
		"file_name":    fileName,
	}).Err(); err != nil {
		return nil, apperrors.MapError(err)
	}

	return &domain.Attachment{
		ID:         uniqueName,
		FileName:   fileName,
		FilePath:   filePath,
		FileType:   fileType,
		UploadedAt: time.Now().UTC(),
	}, nil
}

// Blob is a fetched attachment binary.
type Blob struct {
	Data        []byte
	ContentType string
	FileName    string
}

// Open fetches the binary stored at filePath.
func (s *ObjectStore) Open(ctx context.Context, filePath string) (*Blob, error) {
	fields, err := s.client.HGetAll(ctx, blobKey(filePath)).Result()
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(fields) == 0 {
		return nil, apperrors.NewNotFound("attachment", map[string]any{"path": filePath})
	}
	return &Blob{
		Data:        []byte(fields["data"]),
		ContentType: fields["content_type"],
		FileName:    fields["file_name"],
	}, nil
}

// Signer exposes the URL signer for download-token verification.
func (s *ObjectStore) Signer() *URLSigner {
	return s.signer
}

// SignedURL issues a time-limited download URL for the given stored path.
func (s *ObjectStore) SignedURL(filePath, fileName string, ttl time.Duration) (string, error) {
	token, err := s.signer.Sign(filePath, fileName, ttl)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", filePath, err)
	}
	return "/api/v1/attachments/download?token=" + token, nil
}
