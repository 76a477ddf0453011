// Package fetch is the cached HTTP layer beneath ship-data acquisition.
// Every response is cached on disk keyed by the SHA-256 of the request, so
// re-running ingestion never re-downloads, and all live requests pass
// through a circuit breaker to stop hammering a failing remote.
package fetch

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/navsim/broadside/internal/cache"
)

// Client downloads and caches remote ship data. Responses are cached twice:
// in memory for the lifetime of the client, and on disk across runs.
type Client struct {
	cacheDir   string
	memory     *cache.Bodies
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
}

// New creates a fetch client caching under cacheDir.
func New(cacheDir string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	settings := gobreaker.Settings{
		Name: "broadside-fetch",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("fetch circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		cacheDir:   cacheDir,
		memory:     cache.NewBodies(),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     logger,
	}, nil
}

// cachePath keys a request by the SHA-256 hex of its identity string.
func (c *Client) cachePath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.cacheDir, hex.EncodeToString(sum[:]))
}

// cached serves a keyed request from memory, then disk, then the network,
// filling both caches on the way back.
func (c *Client) cached(key string, do func() (string, error)) (string, error) {
	if body, ok := c.memory.Get(key); ok {
		return body, nil
	}

	path := c.cachePath(key)
	if data, err := os.ReadFile(path); err == nil {
		c.memory.Add(key, string(data))
		return string(data), nil
	}

	body, err := do()
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("writing cache file: %w", err)
	}
	c.memory.Add(key, body)
	return body, nil
}

// Get fetches a URL, serving from the caches when possible. A 404 is
// tolerated as an empty body, since some armor models are sporadically
// missing upstream; the empty result is cached like any other.
func (c *Client) Get(rawURL string) (string, error) {
	return c.cached(rawURL, func() (string, error) {
		return c.request(rawURL, func() (*http.Response, error) {
			return c.httpClient.Get(rawURL)
		})
	})
}

// PostForm fetches a URL with view/params form fields, cached by the
// combination of all three.
func (c *Client) PostForm(rawURL, view, params string) (string, error) {
	return c.cached(rawURL+view+params, func() (string, error) {
		form := url.Values{}
		form.Set("view", view)
		form.Set("params", params)
		return c.request(rawURL, func() (*http.Response, error) {
			return c.httpClient.PostForm(rawURL, form)
		})
	})
}

// request runs one HTTP call through the circuit breaker and returns the
// decoded body.
func (c *Client) request(rawURL string, do func() (*http.Response, error)) (string, error) {
	result, err := c.breaker.Execute(func() (any, error) {
		resp, err := do()
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			c.logger.Warn("got 404, treating as empty body", "url", rawURL)
			return "", nil
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
		}

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		c.logger.Info("downloaded", "url", rawURL, "bytes", len(raw))

		if strings.HasSuffix(rawURL, ".gz") {
			decoded, err := gunzip(raw)
			if err != nil {
				return nil, fmt.Errorf("decompressing %s: %w", rawURL, err)
			}
			return decoded, nil
		}
		return string(raw), nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func gunzip(data []byte) (string, error) {
	r, err := gzip.NewReader(strings.NewReader(string(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
