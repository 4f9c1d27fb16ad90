package autofill

import (
	"errors"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

type fakeClipboard struct {
	value string
	err   error
	reads int
}

func (f *fakeClipboard) ReadAll() (string, error) {
	f.reads++
	return f.value, f.err
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func newController(cb Clipboard, clock *fakeClock) *Controller {
	return New(Params{Clipboard: cb, Now: clock.Now})
}

func TestFocus_FillsEmptyInput(t *testing.T) {
	cb := &fakeClipboard{value: "http://x"}
	c := newController(cb, newClock())

	assert.Assert(t, c.Focus())
	assert.Equal(t, c.Input(), "http://x")
	assert.Equal(t, c.State(), Offered)
	assert.Equal(t, c.LastObserved(), "http://x")
}

func TestFocus_NeverOverwritesTypedText(t *testing.T) {
	cb := &fakeClipboard{value: "xyz"}
	c := newController(cb, newClock())
	c.Edit("abc")

	for range 5 {
		assert.Assert(t, !c.Focus())
	}
	assert.Equal(t, c.Input(), "abc")

	// Changing the clipboard does not help either
	cb.value = "other"
	assert.Assert(t, !c.Focus())
	assert.Equal(t, c.Input(), "abc")
}

func TestFocus_OffersOncePerValue(t *testing.T) {
	cb := &fakeClipboard{value: "http://x"}
	c := newController(cb, newClock())

	assert.Assert(t, c.Focus())
	c.Clear()

	for range 3 {
		assert.Assert(t, !c.Focus())
		assert.Equal(t, c.Input(), "")
	}
	assert.Equal(t, c.State(), Dismissed)

	cb.value = "http://y"
	assert.Assert(t, c.Focus())
	assert.Equal(t, c.Input(), "http://y")
	assert.Equal(t, c.State(), Offered)
}

func TestFocus_CooldownAfterSave(t *testing.T) {
	cb := &fakeClipboard{value: "http://x"}
	clock := newClock()
	c := newController(cb, clock)

	assert.Assert(t, c.Focus())
	c.Saved("http://x")
	assert.Equal(t, c.Input(), "")
	assert.Assert(t, c.InCooldown())

	cb.value = "http://y"
	clock.Advance(29 * time.Second)
	assert.Assert(t, !c.Focus())
	assert.Equal(t, c.Input(), "")
	assert.Equal(t, cb.reads, 1)

	clock.Advance(time.Second)
	assert.Assert(t, !c.InCooldown())
	assert.Assert(t, c.Focus())
	assert.Equal(t, c.Input(), "http://y")
}

func TestSaved_KeepsTextEditedAfterSubmit(t *testing.T) {
	c := newController(&fakeClipboard{}, newClock())

	c.Edit("http://typed-later")
	c.Saved("http://submitted")
	assert.Equal(t, c.Input(), "http://typed-later")
	assert.Assert(t, c.InCooldown())

	c.Edit("  http://submitted ")
	c.Saved("http://submitted")
	assert.Equal(t, c.Input(), "")
}

func TestFocus_SameValueAfterCooldownNotReoffered(t *testing.T) {
	cb := &fakeClipboard{value: "http://x"}
	clock := newClock()
	c := newController(cb, clock)

	assert.Assert(t, c.Focus())
	c.Saved("http://x")
	clock.Advance(time.Minute)

	assert.Assert(t, !c.Focus())
	assert.Equal(t, c.Input(), "")
}

func TestFocus_PermissionDeniedLeavesStateUnchanged(t *testing.T) {
	cb := &fakeClipboard{err: errors.New("permission denied")}
	c := newController(cb, newClock())

	assert.Assert(t, !c.Focus())
	assert.Equal(t, c.State(), Idle)
	assert.Equal(t, c.Input(), "")
	assert.Equal(t, c.LastObserved(), "")

	cb.err = nil
	cb.value = "http://x"
	assert.Assert(t, c.Focus())
}

func TestFocus_EmptyClipboard(t *testing.T) {
	cb := &fakeClipboard{value: "   "}
	c := newController(cb, newClock())

	assert.Assert(t, !c.Focus())
	assert.Equal(t, c.State(), Idle)
}

func TestEdit_KeepsTextAndLeavesOffered(t *testing.T) {
	cb := &fakeClipboard{value: "http://x"}
	c := newController(cb, newClock())

	assert.Assert(t, c.Focus())
	c.Edit("http://x/edited")

	assert.Equal(t, c.Input(), "http://x/edited")
	assert.Equal(t, c.State(), Idle)
}

func TestNew_Defaults(t *testing.T) {
	c := New(Params{Clipboard: &fakeClipboard{}})
	assert.Equal(t, c.cooldown, DefaultCooldown)
	assert.Equal(t, c.State().String(), "idle")
	assert.Equal(t, Offered.String(), "offered")
	assert.Equal(t, Dismissed.String(), "dismissed")
}
