// Package autofill offers the system clipboard as the next bookmark URL when
// the input regains focus.
package autofill

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/nikbrunner/postmark/internal/logger"
	"github.com/nikbrunner/postmark/internal/model"
)

// DefaultCooldown suppresses auto-fill after a save.
const DefaultCooldown = 30 * time.Second

// State is the controller's offer state.
type State int

const (
	// Idle: nothing offered.
	Idle State = iota
	// Offered: the input holds a value copied from the clipboard.
	Offered
	// Dismissed: the clipboard value was already offered once and is not
	// offered again until the clipboard changes.
	Dismissed
)

func (s State) String() string {
	switch s {
	case Offered:
		return "offered"
	case Dismissed:
		return "dismissed"
	default:
		return "idle"
	}
}

// Clipboard reads the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
}

// SystemClipboard reads the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", errUnsupported
	}
	return clipboard.ReadAll()
}

var errUnsupported = errors.New("no clipboard utility available")

// Params configures a Controller. Zero values pick the defaults.
type Params struct {
	Clipboard Clipboard
	Cooldown  time.Duration
	Now       func() time.Time
	Logger    logger.Logger
}

// Controller owns the URL input text and decides when the clipboard may
// replace it. It never writes to a non-empty input.
type Controller struct {
	clipboard Clipboard
	cooldown  time.Duration
	now       func() time.Time
	log       logger.Logger

	mu           sync.Mutex
	input        string
	state        State
	lastObserved string
	offerUsed    bool
	lastSave     time.Time
}

// New creates a Controller in the Idle state.
func New(params Params) *Controller {
	cb := params.Clipboard
	if cb == nil {
		cb = SystemClipboard{}
	}
	cooldown := params.Cooldown
	if cooldown < 0 {
		cooldown = 0
	} else if cooldown == 0 {
		cooldown = DefaultCooldown
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	log := params.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Controller{
		clipboard: cb,
		cooldown:  cooldown,
		now:       now,
		log:       log,
	}
}

// Focus handles the window or input regaining focus. It reports whether the
// input was filled from the clipboard.
func (c *Controller) Focus() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastSave.IsZero() && c.now().Sub(c.lastSave) < c.cooldown {
		return false
	}

	value, err := c.clipboard.ReadAll()
	if err != nil {
		perr := &model.PermissionError{Err: err}
		c.log.Debug("clipboard read skipped", logger.Error(perr))
		return false
	}
	value = strings.TrimSpace(value)

	if value != c.lastObserved {
		c.lastObserved = value
		c.offerUsed = false
	}

	if c.offerUsed {
		if c.state == Idle {
			c.state = Dismissed
		}
		return false
	}

	if value == "" || value == c.input || c.input != "" {
		return false
	}

	c.input = value
	c.offerUsed = true
	c.state = Offered
	return true
}

// Edit records a manual change to the input. The text is kept.
func (c *Controller) Edit(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
	c.state = Idle
}

// Clear empties the input through the dedicated clear control.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = ""
	c.state = Idle
}

// Saved records a successful save of url: the cooldown starts and the input
// is emptied for the next bookmark. Text edited after the save was submitted
// no longer matches url and is kept.
func (c *Controller) Saved(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSave = c.now()
	if strings.TrimSpace(c.input) != url {
		return
	}
	c.input = ""
	c.state = Idle
}

// Input returns the current input text.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// State returns the current offer state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastObserved returns the last clipboard value read.
func (c *Controller) LastObserved() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastObserved
}

// InCooldown reports whether a save happened less than the cooldown ago.
func (c *Controller) InCooldown() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.lastSave.IsZero() && c.now().Sub(c.lastSave) < c.cooldown
}
