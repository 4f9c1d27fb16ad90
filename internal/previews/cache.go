// Package previews caches link previews by bookmark id. The cache only grows:
// a bookmark list change never invalidates entries, it only adds the missing
// ones in one concurrent batch.
package previews

import (
	"context"
	"maps"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

const (
	DefaultConcurrency = 8
	DefaultTimeout     = 10 * time.Second
)

// Fetcher resolves the preview for a URL.
type Fetcher interface {
	Preview(ctx context.Context, rawURL string) (model.Preview, error)
}

// EmbedWidget renders rich embed markup. Load runs once per session, on the
// first batch that brings in an embed; Rescan runs on every later one.
type EmbedWidget interface {
	Load(ctx context.Context, entries map[string]model.Preview) error
	Rescan(entries map[string]model.Preview)
}

// Params configures a Cache. Zero values pick the defaults.
type Params struct {
	Fetcher     Fetcher
	Widget      EmbedWidget // optional
	Logger      logger.Logger
	Concurrency int
	Timeout     time.Duration // per fetch
}

// Cache maps bookmark ids to previews and tracks ids with a fetch in flight.
type Cache struct {
	fetcher     Fetcher
	widget      EmbedWidget
	log         logger.Logger
	concurrency int
	timeout     time.Duration

	mu      sync.Mutex
	entries map[string]model.Preview
	pending map[string]bool

	widgetMu     sync.Mutex
	widgetLoaded bool
	widgetErr    error

	inflight sync.WaitGroup
}

// New creates an empty Cache.
func New(params Params) *Cache {
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Cache{
		fetcher:     params.Fetcher,
		widget:      params.Widget,
		log:         log,
		concurrency: concurrency,
		timeout:     timeout,
		entries:     map[string]model.Preview{},
		pending:     map[string]bool{},
	}
}

// Batch is one group of preview fetches started by Fill.
type Batch struct {
	ids  []string
	done chan struct{}
}

// IDs returns the bookmark ids this batch fetches.
func (b *Batch) IDs() []string {
	return b.ids
}

// Done is closed once the batch result has been merged into the cache.
func (b *Batch) Done() <-chan struct{} {
	return b.done
}

// Wait blocks until the batch is merged or ctx is done.
func (b *Batch) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func doneBatch() *Batch {
	b := &Batch{done: make(chan struct{})}
	close(b.done)
	return b
}

// Fill starts one batch fetching every bookmark whose preview is neither
// cached nor already in flight. The ids are marked pending before any fetch
// is issued and cleared in the same step that merges the results, so a
// second Fill during the batch never requests them again. The batch is not
// cancelled when ctx is: its result is merged whenever it arrives.
func (c *Cache) Fill(ctx context.Context, bookmarks []model.Bookmark) *Batch {
	c.mu.Lock()
	var ids, urls []string
	for _, b := range bookmarks {
		if _, ok := c.entries[b.ID]; ok || c.pending[b.ID] {
			continue
		}
		c.pending[b.ID] = true
		ids = append(ids, b.ID)
		urls = append(urls, b.URL)
	}
	c.mu.Unlock()

	if len(ids) == 0 {
		return doneBatch()
	}

	batch := &Batch{ids: ids, done: make(chan struct{})}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(batch.done)
		c.run(context.WithoutCancel(ctx), ids, urls)
	}()
	return batch
}

func (c *Cache) run(ctx context.Context, ids, urls []string) {
	results := make([]model.Preview, len(ids))

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for i := range ids {
		g.Go(func() error {
			results[i] = c.fetch(ctx, ids[i], urls[i])
			return nil
		})
	}
	g.Wait()

	c.mu.Lock()
	gainedEmbed := false
	for i, id := range ids {
		c.entries[id] = results[i]
		delete(c.pending, id)
		if results[i].HasEmbed() {
			gainedEmbed = true
		}
	}
	var snapshot map[string]model.Preview
	if gainedEmbed {
		snapshot = maps.Clone(c.entries)
	}
	c.mu.Unlock()

	c.log.Debug("preview batch merged", logger.Int("count", len(ids)))

	if gainedEmbed {
		c.notifyWidget(ctx, snapshot)
	}
}

// fetch never fails: errors degrade to an empty preview that is cached and
// not retried.
func (c *Cache) fetch(ctx context.Context, id, rawURL string) model.Preview {
	if c.fetcher == nil {
		return model.Preview{}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.fetcher.Preview(ctx, rawURL)
	if err != nil {
		c.log.Debug("preview fetch failed",
			logger.String("bookmark_id", id),
			logger.String("url", rawURL),
			logger.Error(err))
		return model.Preview{}
	}
	return p
}

func (c *Cache) notifyWidget(ctx context.Context, entries map[string]model.Preview) {
	if c.widget == nil {
		return
	}

	c.widgetMu.Lock()
	defer c.widgetMu.Unlock()

	if !c.widgetLoaded {
		c.widgetLoaded = true
		if err := c.widget.Load(ctx, entries); err != nil {
			c.widgetErr = err
			c.log.Warn("embed widget load failed", logger.Error(err))
		}
		return
	}
	if c.widgetErr != nil {
		return
	}
	c.widget.Rescan(entries)
}

// Get returns the cached preview for a bookmark id.
func (c *Cache) Get(id string) (model.Preview, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[id]
	return p, ok
}

// Pending reports whether a fetch for id is in flight.
func (c *Cache) Pending(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[id]
}

// Snapshot returns a copy of every cached entry.
func (c *Cache) Snapshot() map[string]model.Preview {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Evict drops the entry for a deleted bookmark. An in-flight fetch for the
// id still merges when it completes.
func (c *Cache) Evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Wait blocks until every batch started so far has been merged.
func (c *Cache) Wait() {
	c.inflight.Wait()
}
