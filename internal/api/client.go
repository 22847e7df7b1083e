package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// DefaultBaseURL is where the activity backend listens by default
const DefaultBaseURL = "http://localhost:5000"

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	GPSCacheMB  int
	GPSCacheTTL time.Duration
	// RateLimit requests are allowed per RateWindow, 0 for no budget
	RateLimit   int
	RateWindow  time.Duration
	MinInterval time.Duration
	HTTPClient  *http.Client
}

// Client talks to the activity backend
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	gpsCache    *freecache.Cache
	gpsCacheTTL int // seconds
}

// NewClient creates a backend client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.GPSCacheMB <= 0 {
		opts.GPSCacheMB = 8
	}
	if opts.GPSCacheTTL <= 0 {
		opts.GPSCacheTTL = 10 * time.Minute
	}
	if opts.RateWindow <= 0 {
		opts.RateWindow = time.Minute
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	megabyte := 1024 * 1024
	return &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(opts.RateLimit, opts.RateWindow, opts.MinInterval),
		gpsCache:    freecache.NewCache(opts.GPSCacheMB * megabyte),
		gpsCacheTTL: int(opts.GPSCacheTTL / time.Second),
	}
}

// BaseURL returns the backend address the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListActivities fetches every activity, newest first
func (c *Client) ListActivities(ctx context.Context) ([]Activity, error) {
	var activities []Activity
	if err := c.getJSON(ctx, "/api/activities", &activities); err != nil {
		return nil, fmt.Errorf("fetching activities: %w", err)
	}

	// entries without an id can't be stored or referenced
	valid := activities[:0]
	for _, a := range activities {
		if a.ID == "" {
			log.Warnf("skipping activity without id (start %s)", a.StartTime.Format(time.RFC3339))
			continue
		}
		valid = append(valid, a)
	}
	return valid, nil
}

// GetGPS fetches the track of one activity. Responses are cached.
func (c *Client) GetGPS(ctx context.Context, activityID string) ([]GPSPoint, error) {
	cacheKey := []byte("gps::" + activityID)
	if cached, err := c.gpsCache.Get(cacheKey); err == nil {
		var points []GPSPoint
		if err := json.Unmarshal(cached, &points); err == nil {
			log.Tracef("gps track for %s served from cache", activityID)
			return points, nil
		} else {
			log.Errorf("failed to unmarshal cached gps track for %s: %s", activityID, err)
		}
	}

	body, err := c.do(ctx, http.MethodGet, "/api/activities/"+url.PathEscape(activityID)+"/gps")
	if err != nil {
		return nil, fmt.Errorf("fetching gps for %s: %w", activityID, err)
	}

	var points []GPSPoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("decoding gps for %s: %w", activityID, err)
	}

	if err := c.gpsCache.Set(cacheKey, body, c.gpsCacheTTL); err != nil {
		log.Debugf("gps track for %s not cached: %s", activityID, err)
	}

	return points, nil
}

// InvalidateGPS drops every cached track
func (c *Client) InvalidateGPS() {
	c.gpsCache.Clear()
}

// GetMaxValues fetches the backend's own per-metric maxima
func (c *Client) GetMaxValues(ctx context.Context) (map[string]float64, error) {
	values := make(map[string]float64)
	if err := c.getJSON(ctx, "/api/activities/max_values", &values); err != nil {
		return nil, fmt.Errorf("fetching max values: %w", err)
	}
	return values, nil
}

// TriggerSync asks the backend to pull new activities from its upstream
func (c *Client) TriggerSync(ctx context.Context) (*SyncResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/activities/sync")
	if err != nil {
		return nil, fmt.Errorf("triggering sync: %w", err)
	}

	var resp SyncResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decoding sync response: %w", err)
	}
	return &resp, nil
}

// RateLimitStatus returns the requests left in the current window
func (c *Client) RateLimitStatus() int {
	return c.rateLimiter.Status()
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("%s %s", method, req.URL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return body, nil
}
