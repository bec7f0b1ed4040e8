package geocode

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"
)

// Client is a reverse geocoding HTTP client with a small result cache.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	onFailure  func(error)

	mu       sync.Mutex
	cache    map[string]string
	inflight map[string]bool
}

// NewClient creates a client for baseURL. An empty baseURL disables lookups.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		cache:      map[string]string{},
		inflight:   map[string]bool{},
	}
}

// OnFailure registers a hook called with every lookup error.
func (c *Client) OnFailure(fn func(error)) {
	c.onFailure = fn
}

func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}

// Reverse looks up the place name at lat/lng. It returns "" on any failure.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) string {
	if c == nil || c.baseURL == "" {
		return ""
	}
	key := cacheKey(lat, lng)
	c.mu.Lock()
	name, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return name
	}

	name, err := c.fetch(ctx, lat, lng)
	if err != nil {
		log.Printf("[geocode] reverse %s: %v", key, err)
		if c.onFailure != nil {
			c.onFailure(err)
		}
		return ""
	}
	c.mu.Lock()
	c.cache[key] = name
	c.mu.Unlock()
	return name
}

// ReverseAsync looks up lat/lng in the background and passes the result to done.
// It returns immediately.
func (c *Client) ReverseAsync(lat, lng float64, done func(name string)) {
	go func() {
		name := c.Reverse(context.Background(), lat, lng)
		if done != nil {
			done(name)
		}
	}()
}

// Lookup returns the cached place name for lat/lng. On a miss it starts one
// background lookup per coordinate and returns "".
func (c *Client) Lookup(lat, lng float64) string {
	if c == nil || c.baseURL == "" {
		return ""
	}
	key := cacheKey(lat, lng)
	c.mu.Lock()
	name, ok := c.cache[key]
	if ok || c.inflight[key] {
		c.mu.Unlock()
		return name
	}
	c.inflight[key] = true
	c.mu.Unlock()

	c.ReverseAsync(lat, lng, func(string) {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	})
	return ""
}

func (c *Client) fetch(ctx context.Context, lat, lng float64) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("bad geocoder url: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", u.Redacted(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, u.Redacted())
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("malformed geocoder response")
	}
	name := gjson.GetBytes(body, "display_name")
	if !name.Exists() || name.Type != gjson.String {
		return "", fmt.Errorf("geocoder response has no display_name")
	}
	return name.String(), nil
}
