// Package assets loads the static JSON collections under
// <basePath>/data/json/<name>.json, from a directory or a static origin.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const assetDir = "data/json"

// maxAssetSize caps an asset fetched over HTTP.
var maxAssetSize = 32 << 20

var (
	ErrAssetNotFound = errors.New("asset not found")
	ErrAssetTooLarge = errors.New("asset too large")
)

// ResolvePath returns the asset path for name under basePath, always rooted
// at "/". A base path of "" or "/" means the site is served from the root.
func ResolvePath(basePath, name string) string {
	return path.Join("/", basePath, assetDir, name+".json")
}

// fetchFunc reads the raw bytes at an already resolved asset path.
type fetchFunc func(ctx context.Context, assetPath string) ([]byte, error)

// Loader decodes JSON arrays and caches them by name.
type Loader struct {
	basePath string
	fetch    fetchFunc
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string][]json.RawMessage
}

// NewFS loads assets from fsys. Asset paths are made relative to the root of
// fsys, so an os.DirFS of the public directory is the usual argument.
func NewFS(fsys fs.FS, basePath string, logger *zap.Logger) *Loader {
	fetch := func(ctx context.Context, assetPath string) ([]byte, error) {
		b, err := fs.ReadFile(fsys, strings.TrimPrefix(assetPath, "/"))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetPath)
		}
		return b, err
	}
	return newLoader(basePath, fetch, logger)
}

// NewHTTP loads assets from a static origin such as the site's CDN.
func NewHTTP(origin, basePath string, client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	origin = strings.TrimRight(origin, "/")
	fetch := func(ctx context.Context, assetPath string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+assetPath, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrAssetNotFound, assetPath)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", assetPath, resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxAssetSize)+1))
		if err != nil {
			return nil, err
		}
		if len(body) > maxAssetSize {
			return nil, fmt.Errorf("fetch %s: %w", assetPath, ErrAssetTooLarge)
		}
		return body, nil
	}
	return newLoader(basePath, fetch, logger)
}

func newLoader(basePath string, fetch fetchFunc, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		basePath: basePath,
		fetch:    fetch,
		logger:   logger,
		cache:    make(map[string][]json.RawMessage),
	}
}

// Load returns the items of the named collection. Only successful loads
// are cached.
func (l *Loader) Load(ctx context.Context, name string) ([]json.RawMessage, error) {
	l.mu.RLock()
	items, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return items, nil
	}

	assetPath := ResolvePath(l.basePath, name)
	b, err := l.fetch(ctx, assetPath)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", assetPath, err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}

	l.mu.Lock()
	l.cache[name] = items
	l.mu.Unlock()

	l.logger.Debug("asset loaded", zap.String("path", assetPath), zap.Int("items", len(items)))
	return items, nil
}

// Invalidate drops every cached collection.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string][]json.RawMessage)
}
