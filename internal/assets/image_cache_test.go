package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGetFetchesOnceAndCaches(t *testing.T) {
	data := pngBytes(t, 4, 3)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	cache := NewImageCache(srv.Client(), time.Second)
	uri := srv.URL + "/knight.png"

	_, ok := cache.Get(uri)
	assert.False(t, ok)
	_, ok = cache.Get(uri)
	assert.False(t, ok)
	cache.Wait()

	img, ok := cache.Get(uri)
	require.True(t, ok)
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
	assert.EqualValues(t, 1, hits.Load())
}

func TestGetRemembersFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cache := NewImageCache(srv.Client(), time.Second)
	uri := srv.URL + "/missing.png"
	cache.Get(uri)
	cache.Wait()

	_, ok := cache.Get(uri)
	assert.False(t, ok)
	cache.Wait()
	require.Error(t, cache.Err(uri))
	assert.Contains(t, cache.Err(uri).Error(), "404")
	assert.EqualValues(t, 1, hits.Load())
}

func TestLoadRejectsGarbage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not an image"))
	}))
	defer srv.Close()

	cache := NewImageCache(srv.Client(), time.Second)
	_, err := cache.Load(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestLoadHonoursTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cache := NewImageCache(srv.Client(), 50*time.Millisecond)
	uri := srv.URL + "/slow.png"
	cache.Get(uri)
	cache.Wait()
	require.Error(t, cache.Err(uri))
}

func TestLoadDataURI(t *testing.T) {
	data := pngBytes(t, 2, 2)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	cache := NewImageCache(nil, time.Second)
	img, err := cache.Load(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, err = cache.Load(context.Background(), "data:image/png;base64")
	require.ErrorIs(t, err, ErrUnsupportedURI)
}

func TestLoadFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boss.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 5, 5), 0o644))

	cache := NewImageCache(nil, time.Second)
	img, err := cache.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dx())

	img, err = cache.Load(context.Background(), "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestLoadUnsupportedScheme(t *testing.T) {
	cache := NewImageCache(nil, time.Second)
	_, err := cache.Load(context.Background(), "ftp://example.com/a.png")
	require.ErrorIs(t, err, ErrUnsupportedURI)
}
