package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stdscore/internal/config"
	"stdscore/internal/pipeline"
)

const maxPageBytes = 32 << 20

// Fetcher downloads score pages published by a judge over HTTP.
type Fetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
}

func NewFetcher(cfg config.Config) *Fetcher {
	rps := cfg.FetchRateLimitRPS
	if rps <= 0 {
		rps = 1
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: time.Duration(cfg.FetchTimeoutMs) * time.Millisecond},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		attempts:   3,
	}
}

func IsURL(input string) bool {
	lower := strings.ToLower(input)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch downloads rawURL and labels the document with the last path
// segment, or the host for a bare URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (pipeline.Document, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return pipeline.Document{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return pipeline.Document{}, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return pipeline.Document{}, err
		}
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < f.attempts {
				backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
				time.Sleep(backoff)
				lastErr = fmt.Errorf("%s: status %d", rawURL, resp.StatusCode)
				continue
			}
			return pipeline.Document{}, fmt.Errorf("%s: status %d", rawURL, resp.StatusCode)
		}

		content, err := decode(labelFor(u), body, resp.Header.Get("Content-Type"))
		if err != nil {
			return pipeline.Document{}, fmt.Errorf("%s: %w", rawURL, err)
		}
		return pipeline.Document{Source: labelFor(u), Content: content}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("request failed")
	}
	return pipeline.Document{}, lastErr
}

// Load reads every input, fetching URLs with f and reading the rest from
// disk. Inputs that cannot be read are returned as errors.
func Load(ctx context.Context, inputs []string, f *Fetcher) ([]pipeline.Document, []error) {
	docs := make([]pipeline.Document, 0, len(inputs))
	var errs []error
	for _, in := range inputs {
		var doc pipeline.Document
		var err error
		if IsURL(in) && f != nil {
			doc, err = f.Fetch(ctx, in)
		} else {
			doc, err = LoadFile(in)
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}
		docs = append(docs, doc)
	}
	return docs, errs
}

func labelFor(u *url.URL) string {
	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return u.Host
	}
	return base
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
