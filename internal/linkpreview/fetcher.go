package linkpreview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

const (
	DefaultUserAgent      = "PostmarkPreview/1.0"
	DefaultOEmbedEndpoint = "https://publish.twitter.com/oembed"
	DefaultTimeout        = 5 * time.Second

	maxOEmbedBytes = 500_000
	maxPageBytes   = 1_000_000
)

// oembedHosts are the hosts whose posts are resolved through oEmbed first.
var oembedHosts = map[string]bool{
	"x.com":           true,
	"www.x.com":       true,
	"twitter.com":     true,
	"www.twitter.com": true,
	"mobile.x.com":    true,
}

// FetcherParams configures a Fetcher. Zero values pick the defaults.
type FetcherParams struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	UserAgent      string
	OEmbedEndpoint string
	Logger         logger.Logger
}

// Fetcher resolves preview metadata for a URL.
type Fetcher struct {
	httpClient     *http.Client
	userAgent      string
	oembedEndpoint string
	log            logger.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(params FetcherParams) *Fetcher {
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := params.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	userAgent := params.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	endpoint := params.OEmbedEndpoint
	if endpoint == "" {
		endpoint = DefaultOEmbedEndpoint
	}
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Fetcher{
		httpClient:     client,
		userAgent:      userAgent,
		oembedEndpoint: endpoint,
		log:            log,
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	HTML         string `json:"html"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
}

// Fetch returns the preview for rawURL. Only an invalid URL is an error;
// upstream failures degrade to a preview carrying just the URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (model.Preview, error) {
	rawURL, err := model.ValidateHTTPURL(rawURL)
	if err != nil {
		return model.Preview{}, err
	}
	target, _ := url.Parse(rawURL)

	if oembedHosts[strings.ToLower(target.Hostname())] {
		p, err := f.fetchOEmbed(ctx, rawURL)
		if err == nil {
			return p, nil
		}
		f.log.Debug("oembed lookup failed",
			logger.String("url", rawURL),
			logger.Error(err))
	}

	p, err := f.fetchPage(ctx, target)
	if err != nil {
		f.log.Debug("page fetch failed",
			logger.String("url", rawURL),
			logger.Error(err))
		return model.Preview{URL: rawURL}, nil
	}
	return p, nil
}

func (f *Fetcher) fetchOEmbed(ctx context.Context, rawURL string) (model.Preview, error) {
	endpoint, err := url.Parse(f.oembedEndpoint)
	if err != nil {
		return model.Preview{}, fmt.Errorf("parse oembed endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", rawURL)
	q.Set("omit_script", "true")
	endpoint.RawQuery = q.Encode()

	body, err := f.get(ctx, endpoint.String(), maxOEmbedBytes)
	if err != nil {
		return model.Preview{}, err
	}

	var resp oembedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return model.Preview{}, fmt.Errorf("decode oembed: %w", err)
	}
	if resp.HTML == "" {
		return model.Preview{}, fmt.Errorf("oembed: empty html")
	}

	title := resp.Title
	if title == "" {
		title = resp.AuthorName
	}
	return model.Preview{
		URL:      rawURL,
		Title:    title,
		HTML:     resp.HTML,
		Provider: resp.ProviderName,
	}, nil
}

func (f *Fetcher) fetchPage(ctx context.Context, target *url.URL) (model.Preview, error) {
	body, err := f.get(ctx, target.String(), maxPageBytes)
	if err != nil {
		return model.Preview{}, err
	}

	p, err := ParseMeta(strings.NewReader(string(body)), target)
	if err != nil {
		return model.Preview{}, err
	}
	p.URL = target.String()
	return p, nil
}

// get performs a GET and returns at most limit bytes of a 2xx body.
func (f *Fetcher) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
