// Package culler finds bookmarks whose posts are gone.
package culler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// Status represents the health status of a URL.
type Status int

const (
	Healthy     Status = iota // 2xx or 3xx response
	Dead                      // 404 or 410 Gone
	Unreachable               // timeout, DNS failure, connection refused, etc.
)

func (s Status) String() string {
	switch s {
	case Healthy:
		return "healthy"
	case Dead:
		return "dead"
	default:
		return "unreachable"
	}
}

// Result holds the check result for a single bookmark.
type Result struct {
	Bookmark   model.Bookmark
	Status     Status
	StatusCode int    // 0 if the connection failed
	Error      string // reason for unreachable URLs
}

// ProgressFunc is called after each URL is checked.
type ProgressFunc func(completed, total int)

// Params configures Check. Zero values pick the defaults.
type Params struct {
	HTTPClient  *http.Client
	Concurrency int
	Timeout     time.Duration // per URL
	// ExcludeDomains lists hosts whose 404s are reported as possibly
	// private instead of dead, e.g. protected accounts.
	ExcludeDomains []string
	OnProgress     ProgressFunc
	Logger         logger.Logger
}

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
	maxRedirects       = 10
)

// Check checks every bookmark URL concurrently. Results keep the order of
// bookmarks. It returns early with ctx's error when ctx is cancelled.
func Check(ctx context.Context, bookmarks []model.Bookmark, params Params) ([]Result, error) {
	if len(bookmarks) == 0 {
		return nil, nil
	}

	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}
	client := params.HTTPClient
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}

	exclude := make(map[string]bool, len(params.ExcludeDomains))
	for _, domain := range params.ExcludeDomains {
		exclude[strings.ToLower(domain)] = true
	}

	results := make([]Result, len(bookmarks))
	var progressMu sync.Mutex
	completed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range bookmarks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reqCtx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()

			results[i] = checkURL(reqCtx, client, bookmarks[i], exclude)
			log.Debug("url checked",
				logger.String("url", bookmarks[i].URL),
				logger.String("status", results[i].Status.String()),
				logger.Int("code", results[i].StatusCode))

			if params.OnProgress != nil {
				progressMu.Lock()
				completed++
				params.OnProgress(completed, len(bookmarks))
				progressMu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DeadOnly returns the results with status Dead.
func DeadOnly(results []Result) []Result {
	var dead []Result
	for _, r := range results {
		if r.Status == Dead {
			dead = append(dead, r)
		}
	}
	return dead
}

// checkURL checks a single URL, trying HEAD first and falling back to GET
// for servers that reject HEAD.
func checkURL(ctx context.Context, client *http.Client, b model.Bookmark, exclude map[string]bool) Result {
	result := Result{Bookmark: b}

	resp, err := do(ctx, client, http.MethodHead, b.URL)
	if err == nil && resp.StatusCode == http.StatusMethodNotAllowed {
		resp.Body.Close()
		err = errors.New("head not allowed")
	}
	if err != nil {
		resp, err = do(ctx, client, http.MethodGet, b.URL)
		if err != nil {
			result.Status = Unreachable
			result.Error = normalizeError(err.Error())
			return result
		}
	}
	defer resp.Body.Close()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Status = Healthy
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		if isExcludedDomain(b.URL, exclude) {
			result.Status = Unreachable
			result.Error = "Possibly private (auth required)"
		} else {
			result.Status = Dead
		}
	default:
		// 5xx and auth walls may be temporary
		result.Status = Unreachable
		result.Error = http.StatusText(resp.StatusCode)
	}

	return result
}

func do(ctx context.Context, client *http.Client, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return client.Do(req)
}

// isExcludedDomain checks if the URL's host is an excluded domain or one of
// its subdomains.
func isExcludedDomain(rawURL string, exclude map[string]bool) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if exclude[host] {
		return true
	}
	for domain := range exclude {
		if strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"):
		return "TLS/certificate error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	case strings.Contains(lower, "tls:"):
		return "TLS error"
	default:
		return errStr
	}
}
