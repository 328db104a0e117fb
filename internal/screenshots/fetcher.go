// Package screenshots resolves screenshot payloads to image bytes.
// Inline base64 payloads are decoded directly; referenced URLs are
// fetched over HTTP through a read-through TTL cache so re-rendering a
// chat log does not refetch every image.
package screenshots

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ShivamAgarwal-code/AI-Cortex/internal/cachemanager"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/chats/domain"
	"github.com/ShivamAgarwal-code/AI-Cortex/internal/log"
)

// ErrNoImage is returned for screenshots that carry no visual payload.
var ErrNoImage = errors.New("screenshot carries no image")

// maxImageBytes caps a fetched image body.
const maxImageBytes = 8 << 20

// cacheTTL is how long a fetched image stays warm.
const cacheTTL = 10 * time.Minute

// Fetcher resolves screenshots to raw image bytes.
type Fetcher struct {
	cache *cachemanager.ReadThroughCache[string, []byte, string]
}

// NewFetcher creates a fetcher backed by the given HTTP client.
// A nil client uses a default with a 30s timeout. skipCache disables
// the read-through cache, useful in tests and debug runs.
func NewFetcher(client *http.Client, skipCache bool) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	manager := cachemanager.NewInMemoryCacheManager[string, []byte](
		"screenshots", cachemanager.DefaultExpiration, cachemanager.DefaultCleanupInterval)

	fetch := func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build image request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read image body: %w", err)
		}
		log.Debug(log.CatCache, "fetched image", "url", url, "bytes", len(data))
		return data, nil
	}

	return &Fetcher{
		cache: cachemanager.NewReadThroughCache[string, []byte, string](manager, fetch, skipCache),
	}
}

// Image returns the raw image bytes for a screenshot. Inline payloads
// bypass the cache entirely. Returns ErrNoImage when the screenshot
// has neither an inline payload nor a URL.
func (f *Fetcher) Image(ctx context.Context, shot domain.Screenshot) ([]byte, error) {
	switch {
	case shot.Base64 != "":
		data, err := base64.StdEncoding.DecodeString(shot.Base64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode inline image: %w", err)
		}
		return data, nil
	case shot.URL != "":
		return f.cache.GetWithRefresh(ctx, shot.URL, shot.URL, cacheTTL)
	default:
		return nil, ErrNoImage
	}
}
