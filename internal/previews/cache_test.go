package previews

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/nikbrunner/postmark/internal/model"
)

// gatedFetcher blocks each fetch until its URL is released.
type gatedFetcher struct {
	mu       sync.Mutex
	calls    map[string]int
	gates    map[string]chan struct{}
	finished chan string
	failURLs map[string]bool
	embeds   map[string]bool
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{
		calls:    map[string]int{},
		gates:    map[string]chan struct{}{},
		finished: make(chan string, 100),
		failURLs: map[string]bool{},
		embeds:   map[string]bool{},
	}
}

func (f *gatedFetcher) gate(url string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.gates[url]
	if !ok {
		g = make(chan struct{})
		f.gates[url] = g
	}
	return g
}

func (f *gatedFetcher) release(urls ...string) {
	for _, u := range urls {
		close(f.gate(u))
	}
}

func (f *gatedFetcher) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func (f *gatedFetcher) Preview(ctx context.Context, url string) (model.Preview, error) {
	f.mu.Lock()
	f.calls[url]++
	fail := f.failURLs[url]
	embed := f.embeds[url]
	f.mu.Unlock()

	defer func() { f.finished <- url }()

	select {
	case <-f.gate(url):
	case <-ctx.Done():
		return model.Preview{}, ctx.Err()
	}

	if fail {
		return model.Preview{}, errors.New("upstream failed")
	}
	p := model.Preview{URL: url, Title: "title " + url}
	if embed {
		p.HTML = "<blockquote><p>" + url + "</p></blockquote>"
	}
	return p, nil
}

func bookmarks(ids ...string) []model.Bookmark {
	out := make([]model.Bookmark, len(ids))
	for i, id := range ids {
		out[i] = model.Bookmark{ID: id, URL: "https://x.com/" + id}
	}
	return out
}

func url(id string) string { return "https://x.com/" + id }

func waitBatch(t *testing.T, b *Batch) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NilError(t, b.Wait(ctx))
}

func TestFill_FetchesOnlyMissing(t *testing.T) {
	f := newGatedFetcher()
	f.release(url("a"), url("b"), url("c"))
	c := New(Params{Fetcher: f})

	b := c.Fill(context.Background(), bookmarks("a", "b"))
	assert.DeepEqual(t, b.IDs(), []string{"a", "b"})
	waitBatch(t, b)

	b = c.Fill(context.Background(), bookmarks("a", "b", "c"))
	assert.DeepEqual(t, b.IDs(), []string{"c"})
	waitBatch(t, b)

	// Nothing missing: no batch work, no requests
	b = c.Fill(context.Background(), bookmarks("a", "b", "c"))
	assert.Assert(t, is.Len(b.IDs(), 0))
	waitBatch(t, b)

	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, f.callCount(url(id)), 1, id)
	}
	assert.Equal(t, c.Len(), 3)
}

func TestFill_NeverInvalidates(t *testing.T) {
	f := newGatedFetcher()
	f.release(url("a"), url("b"))
	c := New(Params{Fetcher: f})

	waitBatch(t, c.Fill(context.Background(), bookmarks("a")))
	waitBatch(t, c.Fill(context.Background(), bookmarks("b")))

	p, ok := c.Get("a")
	assert.Assert(t, ok)
	assert.Equal(t, p.Title, "title "+url("a"))
	assert.Equal(t, c.Len(), 2)
}

func TestFill_NoDuplicateInFlight(t *testing.T) {
	f := newGatedFetcher()
	c := New(Params{Fetcher: f})

	first := c.Fill(context.Background(), bookmarks("a", "b"))
	assert.Assert(t, c.Pending("a"))

	// List changes while the first batch is in flight
	second := c.Fill(context.Background(), bookmarks("b", "c"))
	assert.DeepEqual(t, second.IDs(), []string{"c"})

	f.release(url("a"), url("b"), url("c"))
	waitBatch(t, first)
	waitBatch(t, second)

	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, f.callCount(url(id)), 1, id)
		assert.Assert(t, !c.Pending(id))
	}
}

func TestFill_DuplicateIDsInOneList(t *testing.T) {
	f := newGatedFetcher()
	f.release(url("a"))
	c := New(Params{Fetcher: f})

	b := c.Fill(context.Background(), bookmarks("a", "a"))
	assert.DeepEqual(t, b.IDs(), []string{"a"})
	waitBatch(t, b)
	assert.Equal(t, f.callCount(url("a")), 1)
}

func TestFill_MergesBatchAtomically(t *testing.T) {
	f := newGatedFetcher()
	c := New(Params{Fetcher: f})

	b := c.Fill(context.Background(), bookmarks("a", "b", "c"))

	f.release(url("a"), url("b"))
	for range 2 {
		<-f.finished
	}

	// Two fetches returned but the batch is not merged until all three have
	_, ok := c.Get("a")
	assert.Assert(t, !ok)
	_, ok = c.Get("b")
	assert.Assert(t, !ok)
	assert.Assert(t, c.Pending("a"))

	f.release(url("c"))
	waitBatch(t, b)

	assert.Equal(t, c.Len(), 3)
	assert.Assert(t, !c.Pending("a"))
}

func TestFill_FailureIsolated(t *testing.T) {
	f := newGatedFetcher()
	f.failURLs[url("bad")] = true
	f.release(url("ok"), url("bad"))
	c := New(Params{Fetcher: f})

	waitBatch(t, c.Fill(context.Background(), bookmarks("ok", "bad")))

	good, ok := c.Get("ok")
	assert.Assert(t, ok)
	assert.Assert(t, !good.IsEmpty())

	bad, ok := c.Get("bad")
	assert.Assert(t, ok)
	assert.Assert(t, bad.IsEmpty())

	// Failed entries are not retried
	waitBatch(t, c.Fill(context.Background(), bookmarks("ok", "bad")))
	assert.Equal(t, f.callCount(url("bad")), 1)
}

func TestFill_SurvivesCallerCancellation(t *testing.T) {
	f := newGatedFetcher()
	c := New(Params{Fetcher: f})

	ctx, cancel := context.WithCancel(context.Background())
	b := c.Fill(ctx, bookmarks("a"))
	cancel()

	f.release(url("a"))
	waitBatch(t, b)

	p, ok := c.Get("a")
	assert.Assert(t, ok)
	assert.Assert(t, !p.IsEmpty())
}

func TestFill_PerFetchTimeout(t *testing.T) {
	f := newGatedFetcher()
	c := New(Params{Fetcher: f, Timeout: 20 * time.Millisecond})

	// Never released: the fetch times out and degrades to an empty preview
	waitBatch(t, c.Fill(context.Background(), bookmarks("slow")))

	p, ok := c.Get("slow")
	assert.Assert(t, ok)
	assert.Assert(t, p.IsEmpty())
}

func TestEvictAndWait(t *testing.T) {
	f := newGatedFetcher()
	f.release(url("a"), url("b"))
	c := New(Params{Fetcher: f})

	c.Fill(context.Background(), bookmarks("a"))
	c.Fill(context.Background(), bookmarks("b"))
	c.Wait()
	assert.Equal(t, c.Len(), 2)

	c.Evict("a")
	_, ok := c.Get("a")
	assert.Assert(t, !ok)

	snap := c.Snapshot()
	snap["zzz"] = model.Preview{}
	assert.Equal(t, c.Len(), 1)
}

type recordingWidget struct {
	mu      sync.Mutex
	loads   int
	rescans int
	loadErr error
	seen    []int
}

func (w *recordingWidget) Load(_ context.Context, entries map[string]model.Preview) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loads++
	w.seen = append(w.seen, len(entries))
	return w.loadErr
}

func (w *recordingWidget) Rescan(entries map[string]model.Preview) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rescans++
	w.seen = append(w.seen, len(entries))
}

func TestWidget_LoadOnceThenRescan(t *testing.T) {
	f := newGatedFetcher()
	f.embeds[url("e1")] = true
	f.embeds[url("e2")] = true
	f.embeds[url("e3")] = true
	f.release(url("plain"), url("e1"), url("e2"), url("e3"))
	w := &recordingWidget{}
	c := New(Params{Fetcher: f, Widget: w})

	// No embed: widget untouched
	waitBatch(t, c.Fill(context.Background(), bookmarks("plain")))
	assert.Equal(t, w.loads, 0)

	waitBatch(t, c.Fill(context.Background(), bookmarks("e1")))
	waitBatch(t, c.Fill(context.Background(), bookmarks("e2")))
	waitBatch(t, c.Fill(context.Background(), bookmarks("e3")))

	assert.Equal(t, w.loads, 1)
	assert.Equal(t, w.rescans, 2)
	assert.DeepEqual(t, w.seen, []int{2, 3, 4})
}

func TestWidget_LoadFailureStopsRescans(t *testing.T) {
	f := newGatedFetcher()
	f.embeds[url("e1")] = true
	f.embeds[url("e2")] = true
	f.release(url("e1"), url("e2"))
	w := &recordingWidget{loadErr: errors.New("blocked")}
	c := New(Params{Fetcher: f, Widget: w})

	waitBatch(t, c.Fill(context.Background(), bookmarks("e1")))
	waitBatch(t, c.Fill(context.Background(), bookmarks("e2")))

	assert.Equal(t, w.loads, 1)
	assert.Equal(t, w.rescans, 0)
}
