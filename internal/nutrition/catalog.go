package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/2beens/fitlog/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// ErrCatalogUnavailable covers every way the remote food catalog can
// fail: transport errors, non-200 statuses, garbage payloads. Callers
// degrade to an empty result, the food log itself never depends on it.
var ErrCatalogUnavailable = errors.New("food catalog unavailable")

const (
	catalogCacheSizeMb = 20
	catalogCacheExpire = 60 * 60 // seconds
	catalogSearchLimit = 25
)

// Catalog is a client for the remote food database. Responses are opaque
// JSON documents, passed through to the frontend untouched and cached for
// an hour.
type Catalog struct {
	cache      *freecache.Cache
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewCatalog(baseURL, apiKey string, httpClient *http.Client) *Catalog {
	megabyte := 1024 * 1024
	return &Catalog{
		cache:      freecache.NewCache(catalogCacheSizeMb * megabyte),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Search queries the catalog by free-text food name.
func (c *Catalog) Search(ctx context.Context, query string) (_ json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.catalog.search")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := "search::" + query
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found catalog search %q in cache", query)
		return cached, nil
	}

	reqURL := fmt.Sprintf(
		"%s/search?query=%s&pageSize=%d&api_key=%s",
		c.baseURL, url.QueryEscape(query), catalogSearchLimit, c.apiKey,
	)
	return c.get(ctx, reqURL, cacheKey)
}

// Fetch returns the full catalog record of one food.
func (c *Catalog) Fetch(ctx context.Context, foodID string) (_ json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "nutrition.catalog.fetch")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cacheKey := "food::" + foodID
	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		log.Tracef("found catalog food %s in cache", foodID)
		return cached, nil
	}

	reqURL := fmt.Sprintf("%s/food/%s?api_key=%s", c.baseURL, url.PathEscape(foodID), c.apiKey)
	return c.get(ctx, reqURL, cacheKey)
}

func (c *Catalog) get(ctx context.Context, reqURL, cacheKey string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCatalogUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http client do: %s", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrCatalogUnavailable, resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %s", ErrCatalogUnavailable, err)
	}
	if !json.Valid(respBytes) {
		return nil, fmt.Errorf("%w: response is not valid json", ErrCatalogUnavailable)
	}

	if err := c.cache.Set([]byte(cacheKey), respBytes, catalogCacheExpire); err != nil {
		log.Errorf("failed to write catalog cache for %s: %s", cacheKey, err)
	}

	return respBytes, nil
}
