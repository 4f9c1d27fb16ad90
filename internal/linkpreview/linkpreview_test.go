package linkpreview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"gotest.tools/v3/assert"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

const ogPage = `<!DOCTYPE html>
<html><head>
<title>Fallback title</title>
<meta property="og:title" content=" Post by rob ">
<meta property="og:description" content="hello world">
<meta name="description" content="plain description">
<meta property="og:image" content="/img/card.png">
<meta property="og:site_name" content="Bluesky">
</head><body><p>content</p></body></html>`

func TestParseMeta(t *testing.T) {
	base, _ := url.Parse("https://bsky.app/profile/rob/post/1")

	tests := []struct {
		name string
		page string
		want model.Preview
	}{
		{
			name: "open graph",
			page: ogPage,
			want: model.Preview{
				Title:       "Post by rob",
				Description: "hello world",
				Image:       "https://bsky.app/img/card.png",
				Provider:    "Bluesky",
			},
		},
		{
			name: "title and description fallback",
			page: `<html><head><title> Plain </title><meta name="Description" content="desc"></head></html>`,
			want: model.Preview{Title: "Plain", Description: "desc"},
		},
		{
			name: "absolute image kept",
			page: `<html><head><meta property="og:image" content="https://cdn.example.com/a.png"></head></html>`,
			want: model.Preview{Image: "https://cdn.example.com/a.png"},
		},
		{
			name: "nothing",
			page: `<html><body>just text</body></html>`,
			want: model.Preview{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMeta(strings.NewReader(tt.page), base)
			assert.NilError(t, err)
			assert.DeepEqual(t, got, tt.want)
		})
	}
}

func TestFetcher_Page(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(ogPage))
	}))
	defer ts.Close()

	f := NewFetcher(FetcherParams{})
	p, err := f.Fetch(context.Background(), ts.URL+"/post/1")
	assert.NilError(t, err)
	assert.Equal(t, p.URL, ts.URL+"/post/1")
	assert.Equal(t, p.Title, "Post by rob")
	assert.Equal(t, p.Image, ts.URL+"/img/card.png")
	assert.Equal(t, gotUA, DefaultUserAgent)
}

func TestFetcher_UpstreamFailureDegrades(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := NewFetcher(FetcherParams{})
	p, err := f.Fetch(context.Background(), ts.URL+"/post/1")
	assert.NilError(t, err)
	assert.DeepEqual(t, p, model.Preview{URL: ts.URL + "/post/1"})
}

func TestFetcher_InvalidURL(t *testing.T) {
	f := NewFetcher(FetcherParams{})
	_, err := f.Fetch(context.Background(), "ftp://example.com/file")
	assert.Assert(t, model.IsValidation(err))
}

func TestFetcher_OEmbed(t *testing.T) {
	var gotURL string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"author_name":"Go","html":"<blockquote class=\"twitter-tweet\"><p>hi</p></blockquote>","provider_name":"Twitter"}`))
	}))
	defer ts.Close()

	f := NewFetcher(FetcherParams{OEmbedEndpoint: ts.URL + "/oembed"})
	p, err := f.Fetch(context.Background(), "https://x.com/golang/status/1")
	assert.NilError(t, err)
	assert.Equal(t, gotURL, "https://x.com/golang/status/1")
	assert.Equal(t, p.Title, "Go")
	assert.Equal(t, p.Provider, "Twitter")
	assert.Assert(t, p.HasEmbed())
}

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string]model.Preview
	getErr  error
	setHits int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]model.Preview{}}
}

func (c *memoryCache) Get(_ context.Context, rawURL string) (model.Preview, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return model.Preview{}, false, c.getErr
	}
	p, ok := c.items[rawURL]
	return p, ok, nil
}

func (c *memoryCache) Set(_ context.Context, rawURL string, p model.Preview, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setHits++
	c.items[rawURL] = p
	return nil
}

type countingResolver struct {
	calls   int
	preview model.Preview
}

func (r *countingResolver) Fetch(_ context.Context, rawURL string) (model.Preview, error) {
	r.calls++
	p := r.preview
	p.URL = rawURL
	return p, nil
}

func TestService_CachesResolvedPreviews(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	resolver := &countingResolver{preview: model.Preview{Title: "t"}}
	s := NewService(resolver, cache, time.Hour, logger.Nop())

	for range 3 {
		p, err := s.Preview(ctx, "https://bsky.app/post/1")
		assert.NilError(t, err)
		assert.Equal(t, p.Title, "t")
	}
	assert.Equal(t, resolver.calls, 1)
	assert.Equal(t, cache.setHits, 1)
}

func TestService_SkipsEmptyPreviews(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	resolver := &countingResolver{}
	s := NewService(resolver, cache, time.Hour, nil)

	_, err := s.Preview(ctx, "https://bsky.app/post/1")
	assert.NilError(t, err)
	_, err = s.Preview(ctx, "https://bsky.app/post/1")
	assert.NilError(t, err)

	assert.Equal(t, resolver.calls, 2)
	assert.Equal(t, cache.setHits, 0)
}

func TestService_CacheReadFailureFallsThrough(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	resolver := &countingResolver{preview: model.Preview{Title: "t"}}
	s := NewService(resolver, cache, time.Hour, nil)

	p, err := s.Preview(context.Background(), "https://bsky.app/post/1")
	assert.NilError(t, err)
	assert.Equal(t, p.Title, "t")
}

func TestService_InvalidURL(t *testing.T) {
	resolver := &countingResolver{}
	s := NewService(resolver, nil, time.Hour, nil)

	_, err := s.Preview(context.Background(), "")
	assert.Assert(t, model.IsValidation(err))
	assert.Equal(t, resolver.calls, 0)
}

func TestPreviewKey(t *testing.T) {
	a := PreviewKey("https://x.com/a/status/1")
	assert.Assert(t, strings.HasPrefix(a, KeyPrefixPreview))
	assert.Equal(t, a, PreviewKey("https://x.com/a/status/1"))
	assert.Assert(t, a != PreviewKey("https://x.com/a/status/2"))
}

// TestRedisCache runs against a live Redis when POSTMARK_TEST_REDIS_ADDR is set.
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("POSTMARK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POSTMARK_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	client, err := ConnectRedis(ctx, addr, logger.Nop())
	assert.NilError(t, err)
	defer client.Close()

	c := NewRedisCache(client)
	rawURL := "https://x.com/test/status/" + model.GenerateUUID()
	t.Cleanup(func() { client.Del(ctx, PreviewKey(rawURL)) })

	_, ok, err := c.Get(ctx, rawURL)
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	want := model.Preview{URL: rawURL, Title: "cached"}
	assert.NilError(t, c.Set(ctx, rawURL, want, time.Minute))

	got, ok, err := c.Get(ctx, rawURL)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.DeepEqual(t, got, want)

	ttl, err := client.TTL(ctx, PreviewKey(rawURL)).Result()
	assert.NilError(t, err)
	assert.Assert(t, ttl > 0 && ttl <= time.Minute)
	assert.Assert(t, !errors.Is(err, redis.Nil))
}
