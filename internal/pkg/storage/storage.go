package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

// FileStorage is the blob store for face photos and captured request images.
type FileStorage interface {
	// Upload stores the object and returns its key.
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	Download(ctx context.Context, key string) (io.ReadCloser, error)

	Delete(ctx context.Context, key string) error

	// GetURL generates a signed or public URL valid for at least expiry.
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	Exists(ctx context.Context, key string) (bool, error)
}

// FacePhotoKey is the object key for an enrolled face photo of an employee.
func FacePhotoKey(employeeID string, index int, ext string) string {
	return path.Join("faces", employeeID, fmt.Sprintf("%d%s", index, normalizeExt(ext)))
}

// RequestImageKey is the object key for the face image captured with an exception request.
func RequestImageKey(employeeID, requestID, ext string) string {
	return path.Join("requests", employeeID, requestID+normalizeExt(ext))
}

// ContentTypeForExt maps an image extension to its MIME type.
func ContentTypeForExt(ext string) string {
	switch normalizeExt(ext) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// IsAllowedImageExt reports whether ext is an accepted photo format.
func IsAllowedImageExt(ext string) bool {
	switch normalizeExt(ext) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
