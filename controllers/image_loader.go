package controllers

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/yashrajoria/storefront/common/logger"
)

type ImageState int

const (
	ImageLoading ImageState = iota
	ImageLoaded
	ImageErrored
)

func (s ImageState) String() string {
	switch s {
	case ImageLoading:
		return "loading"
	case ImageLoaded:
		return "loaded"
	default:
		return "errored"
	}
}

// ImageLoader tracks one remote product image: loading, then loaded or
// errored. An errored image shows the fallback. There is no retry, and a
// settled loader never changes state again.
type ImageLoader struct {
	client   *http.Client
	fallback string

	mu    sync.Mutex
	src   string
	state ImageState
}

// NewImageLoader resolves imagePath against assetBase. An empty path starts
// out errored on the fallback.
func NewImageLoader(client *http.Client, assetBase, imagePath, fallback string) *ImageLoader {
	if client == nil {
		client = http.DefaultClient
	}
	l := &ImageLoader{client: client, fallback: ResolveAsset(assetBase, fallback)}
	if strings.TrimSpace(imagePath) == "" {
		l.src = l.fallback
		l.state = ImageErrored
		return l
	}
	l.src = ResolveAsset(assetBase, imagePath)
	return l
}

// ResolveAsset joins a server-relative path onto the asset host. Absolute
// URLs pass through.
func ResolveAsset(assetBase, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(assetBase, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func (l *ImageLoader) Src() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src
}

func (l *ImageLoader) State() ImageState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *ImageLoader) Loading() bool {
	return l.State() == ImageLoading
}

// OnLoad records a successful load. Ignored once settled.
func (l *ImageLoader) OnLoad() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == ImageLoading {
		l.state = ImageLoaded
	}
}

// OnError switches to the fallback. Ignored once settled.
func (l *ImageLoader) OnError() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == ImageLoading {
		l.state = ImageErrored
		l.src = l.fallback
	}
}

// Load probes the image with a GET and settles the state from the outcome.
func (l *ImageLoader) Load(ctx context.Context) ImageState {
	src := l.Src()
	if l.State() != ImageLoading {
		return l.State()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		l.OnError()
		return l.State()
	}
	resp, err := l.client.Do(req)
	if err != nil {
		logger.Debug(ctx, "image failed to load", zap.String("src", src), zap.Error(err))
		l.OnError()
		return l.State()
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug(ctx, "image failed to load", zap.String("src", src), zap.Int("status", resp.StatusCode))
		l.OnError()
		return l.State()
	}
	l.OnLoad()
	return l.State()
}
