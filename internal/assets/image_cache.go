// internal/assets/image_cache.go
package assets

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/webp"
)

// Потолок размера одной картинки.
const maxImageBytes = 8 << 20

// ipfs:// адреса переписываются на публичный шлюз.
const ipfsGateway = "https://ipfs.io/ipfs/"

var ErrUnsupportedURI = errors.New("unsupported image uri")

// ImageCache загружает, декодирует и кэширует портреты персонажей.
// Get не блокирует: первая просьба запускает загрузку в фоне.
type ImageCache struct {
	client  *http.Client
	timeout time.Duration

	mu      sync.Mutex
	images  map[string]image.Image
	pending map[string]struct{}
	failed  map[string]error
	wg      sync.WaitGroup
}

// NewImageCache создает кэш; timeout ограничивает одну загрузку.
func NewImageCache(client *http.Client, timeout time.Duration) *ImageCache {
	if client == nil {
		client = http.DefaultClient
	}
	return &ImageCache{
		client:  client,
		timeout: timeout,
		images:  make(map[string]image.Image),
		pending: make(map[string]struct{}),
		failed:  make(map[string]error),
	}
}

// Get возвращает картинку, если она уже загружена.
func (c *ImageCache) Get(uri string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[uri]; ok {
		return img, true
	}
	if _, ok := c.pending[uri]; ok {
		return nil, false
	}
	if _, ok := c.failed[uri]; ok {
		return nil, false
	}
	c.pending[uri] = struct{}{}
	c.wg.Add(1)
	go c.fetch(uri)
	return nil, false
}

// Err возвращает ошибку последней загрузки uri.
func (c *ImageCache) Err(uri string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[uri]
}

// Wait дожидается всех фоновых загрузок.
func (c *ImageCache) Wait() {
	c.wg.Wait()
}

func (c *ImageCache) fetch(uri string) {
	defer c.wg.Done()
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	img, err := c.Load(ctx, uri)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, uri)
	if err != nil {
		log.Printf("WARNING: failed to load image %q: %v", uri, err)
		c.failed[uri] = err
		return
	}
	c.images[uri] = img
}

// Load синхронно читает и декодирует картинку.
func (c *ImageCache) Load(ctx context.Context, uri string) (image.Image, error) {
	data, err := c.read(ctx, uri)
	if err != nil {
		return nil, err
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", uri, err)
	}
	log.Printf("Loaded %s image %q (%dx%d)", format, uri, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

func (c *ImageCache) read(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	case strings.HasPrefix(uri, "ipfs://"):
		return c.download(ctx, ipfsGateway+strings.TrimPrefix(uri, "ipfs://"))
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return c.download(ctx, uri)
	}
	u, err := url.Parse(uri)
	if err == nil && u.Scheme == "file" {
		return os.ReadFile(u.Path)
	}
	if err == nil && u.Scheme == "" && uri != "" {
		return os.ReadFile(uri)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
}

func (c *ImageCache) download(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get %q: status %s", uri, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", uri, err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image %q exceeds %d bytes", uri, maxImageBytes)
	}
	return data, nil
}

// decodeDataURI разбирает data:[<mime>][;base64],<payload>.
func decodeDataURI(uri string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data uri", ErrUnsupportedURI)
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
