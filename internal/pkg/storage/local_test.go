package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key := FacePhotoKey("PRAGEMP001", 0, "JPG")
	assert.Equal(t, "faces/PRAGEMP001/0.jpg", key)

	stored, err := s.Upload(ctx, strings.NewReader("jpeg-bytes"), key, ContentTypeForExt(".jpg"))
	require.NoError(t, err)
	assert.Equal(t, key, stored)

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(body))

	url, err := s.GetURL(ctx, key, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/faces/PRAGEMP001/0.jpg", url)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	stored, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", stored)

	_, err = s.Upload(ctx, strings.NewReader("x"), "", "text/plain")
	assert.Error(t, err)
}

func TestImageHelpers(t *testing.T) {
	assert.True(t, IsAllowedImageExt(".PNG"))
	assert.True(t, IsAllowedImageExt("jpeg"))
	assert.False(t, IsAllowedImageExt(".gif"))
	assert.Equal(t, "image/png", ContentTypeForExt("png"))
	assert.Equal(t, "requests/PRAGEMP002/abc.png", RequestImageKey("PRAGEMP002", "abc", ".png"))
}
