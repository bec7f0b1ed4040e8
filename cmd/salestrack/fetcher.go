package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/salestrack/tracking"
)

// fetcher loads recorded position histories from URLs or local files.
// This is CLI-specific logic and is not part of the core library.
type fetcher struct {
	httpClient *http.Client
}

func newFetcher() *fetcher {
	return &fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// fetch returns the raw bytes behind a URL or file path.
// Returns nil if urlOrPath is empty.
func (f *fetcher) fetch(urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}

	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	resp, err := f.httpClient.Get(urlOrPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}

	return io.ReadAll(resp.Body)
}

// fetchHistory decodes a JSON array of {"lat","lng","time"} samples.
func (f *fetcher) fetchHistory(urlOrPath string) ([]tracking.Sample, error) {
	data, err := f.fetch(urlOrPath)
	if err != nil {
		return nil, err
	}
	var samples []tracking.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", urlOrPath, err)
	}
	return samples, nil
}
