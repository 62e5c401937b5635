// Package hub resolves named pretrained weights to local files, fetching
// and caching them from a weight registry on first use.
package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultBaseURL is the public weight registry.
const DefaultBaseURL = "https://weights.graft-ml.dev"

// DefaultTag is used when no weight tag is given.
const DefaultTag = "imagenet"

// weightFile is the file name each registry entry serves.
const weightFile = "model.safetensors"

// Client fetches pretrained weights and caches them on disk.
type Client struct {
	baseURL    string
	cacheDir   string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different registry.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithCacheDir overrides the cache directory.
func WithCacheDir(dir string) Option {
	return func(c *Client) { c.cacheDir = dir }
}

// WithHTTPClient overrides the HTTP client, e.g. to set timeouts.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithLogger overrides the logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a hub client.
//
// The cache lives at $GRAFT_CACHE_DIR or ~/.graft/cache.
func NewClient(opts ...Option) (*Client, error) {
	cacheDir, err := CacheDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		cacheDir:   cacheDir,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CacheDir returns the weight cache directory path.
// If GRAFT_CACHE_DIR is set, it takes precedence.
func CacheDir() (string, error) {
	if envPath := os.Getenv("GRAFT_CACHE_DIR"); envPath != "" {
		return envPath, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".graft", "cache"), nil
}

// Resolve returns the local path of the weights for model and tag,
// downloading them on a cache miss. An empty tag means DefaultTag.
func (c *Client) Resolve(ctx context.Context, model, tag string) (string, error) {
	if model == "" {
		return "", fmt.Errorf("model name is empty")
	}
	if tag == "" {
		tag = DefaultTag
	}

	path := filepath.Join(c.cacheDir, model, tag, weightFile)
	if _, err := os.Stat(path); err == nil {
		c.logger.Debug("weight cache hit", "model", model, "tag", tag, "path", path)
		return path, nil
	}

	if err := c.download(ctx, model, tag, path); err != nil {
		return "", err
	}
	return path, nil
}

// Cached reports whether the weights for model and tag are already local.
func (c *Client) Cached(model, tag string) bool {
	if tag == "" {
		tag = DefaultTag
	}
	_, err := os.Stat(filepath.Join(c.cacheDir, model, tag, weightFile))
	return err == nil
}

// download fetches the weights and moves them into the cache atomically, so
// an interrupted download never leaves a half-written cache entry.
func (c *Client) download(ctx context.Context, model, tag, dest string) error {
	url := fmt.Sprintf("%s/%s/%s/%s", c.baseURL, model, tag, weightFile)
	c.logger.Info("downloading pretrained weights", "model", model, "tag", tag, "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("no weights published for %s:%s", model, tag)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s fetching %s", resp.Status, url)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), weightFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write weights: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to move weights into cache: %w", err)
	}

	c.logger.Info("cached pretrained weights", "model", model, "tag", tag, "bytes", n)
	return nil
}
