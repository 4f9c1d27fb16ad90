package embed

import (
	"context"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/nikbrunner/postmark/internal/model"
)

const tweet = `<blockquote class="twitter-tweet"><p lang="en" dir="ltr">Go 1.25 is out!<br>Grab it now <a href="https://t.co/abc">https://t.co/abc</a></p>&mdash; Go (@golang) <a href="https://twitter.com/golang/status/1">August 12, 2025</a></blockquote>
<script async src="https://platform.twitter.com/widgets.js" charset="utf-8"></script>`

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "tweet",
			markup: tweet,
			want:   "Go 1.25 is out!\nGrab it now https://t.co/abc\n\n— Go (@golang) August 12, 2025",
		},
		{
			name:   "script stripped",
			markup: `<p>hi</p><script>alert(1)</script>`,
			want:   "hi",
		},
		{
			name:   "plain text",
			markup: "just   text",
			want:   "just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Render(NewPolicy(), tt.markup), tt.want)
		})
	}
}

func TestWidget_LoadAndRescan(t *testing.T) {
	w := New()
	entries := map[string]model.Preview{
		"a": {HTML: "<p>first</p>"},
		"b": {Title: "no embed"},
	}

	// Rescan before Load does nothing
	w.Rescan(entries)
	_, ok := w.Rendered("a")
	assert.Assert(t, !ok)
	assert.Assert(t, !w.Loaded())

	assert.NilError(t, w.Load(context.Background(), entries))
	text, ok := w.Rendered("a")
	assert.Assert(t, ok)
	assert.Equal(t, text, "first")
	_, ok = w.Rendered("b")
	assert.Assert(t, !ok)

	entries["c"] = model.Preview{HTML: "<p>second</p>"}
	w.Rescan(entries)
	text, ok = w.Rendered("c")
	assert.Assert(t, ok)
	assert.Equal(t, text, "second")

	// A second Load does not rebuild the policy
	assert.NilError(t, w.Load(context.Background(), entries))
	loads, scans := w.Stats()
	assert.Equal(t, loads, 1)
	assert.Equal(t, scans, 1)
}

func TestWidget_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New()
	err := w.Load(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Assert(t, !w.Loaded())
}
