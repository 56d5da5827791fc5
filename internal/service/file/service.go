package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"math"
	"path/filepath"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Import for WEBP decoding support
)

// URLExpiry is how long generated photo URLs stay valid.
const URLExpiry = 15 * time.Minute

type FileService interface {
	// UploadFacePhoto stores an enrolment photo unchanged; face matching needs the original.
	UploadFacePhoto(ctx context.Context, employeeID string, index int, file io.Reader, filename string) (string, error)

	// UploadRequestImage stores the face captured with an exception request,
	// compressed to at most 150KB.
	UploadRequestImage(ctx context.Context, employeeID, requestID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)

	// GetFileURLs resolves keys, skipping any that cannot be resolved.
	GetFileURLs(ctx context.Context, keys []string) []string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadFacePhoto implements FileService.
func (s *fileServiceImpl) UploadFacePhoto(ctx context.Context, employeeID string, index int, file io.Reader, filename string) (string, error) {
	ext := filepath.Ext(filename)
	if !storage.IsAllowedImageExt(ext) {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, webp allowed")
	}

	key, err := s.storage.Upload(ctx, file, storage.FacePhotoKey(employeeID, index, ext), storage.ContentTypeForExt(ext))
	if err != nil {
		return "", fmt.Errorf("failed to upload face photo: %w", err)
	}
	return key, nil
}

// UploadRequestImage implements FileService.
func (s *fileServiceImpl) UploadRequestImage(ctx context.Context, employeeID, requestID string, file io.Reader, filename string) (string, error) {
	if !storage.IsAllowedImageExt(filepath.Ext(filename)) {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, webp allowed")
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	compressed, err := compressImage(buffer, 150*1024)
	if err != nil {
		return "", fmt.Errorf("failed to compress image: %w", err)
	}

	// Always JPEG after compression
	key, err := s.storage.Upload(ctx, bytes.NewReader(compressed), storage.RequestImageKey(employeeID, requestID, ".jpg"), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload request image: %w", err)
	}
	return key, nil
}

// DeleteFile implements FileService.
func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

// GetFileURL implements FileService.
func (s *fileServiceImpl) GetFileURL(ctx context.Context, key string) (string, error) {
	return s.storage.GetURL(ctx, key, URLExpiry)
}

// GetFileURLs implements FileService.
func (s *fileServiceImpl) GetFileURLs(ctx context.Context, keys []string) []string {
	urls := make([]string, 0, len(keys))
	for _, key := range keys {
		url, err := s.GetFileURL(ctx, key)
		if err != nil {
			continue
		}
		urls = append(urls, url)
	}
	return urls
}

// ==================== HELPER FUNCTIONS ====================

// compressImage re-encodes an image as JPEG no larger than maxSize,
// lowering quality first and then scaling down.
func compressImage(buffer []byte, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	var compressed []byte
	for quality := 85; quality >= 50; quality -= 5 {
		buf := new(bytes.Buffer)
		if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		compressed = buf.Bytes()
		if len(compressed) <= maxSize {
			return compressed, nil
		}
	}

	// Target 100KB, keeping the aspect ratio
	bounds := img.Bounds()
	ratio := math.Sqrt(float64(100*1024) / float64(len(compressed)))
	width := max(int(float64(bounds.Dx())*ratio), 1)
	height := max(int(float64(bounds.Dy())*ratio), 1)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resizeImage(img, width, height), &jpeg.Options{Quality: 70}); err != nil {
		return nil, fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// Use CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
