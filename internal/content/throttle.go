package content

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
)

const DefaultImageCooldown = 5 * time.Second

// Cooldown gates image re-requests. It counts down once per elapsed second on
// its own ticker goroutine, which exits when the count reaches zero or on
// Reset.
type Cooldown struct {
	mu        sync.Mutex
	clk       clock.Clock
	seconds   int
	remaining int
	stop      chan struct{}
	done      chan struct{}
}

func NewCooldown(d time.Duration, clk clock.Clock) *Cooldown {
	if clk == nil {
		clk = clock.New()
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &Cooldown{clk: clk, seconds: secs}
}

func (c *Cooldown) CanRequest() bool {
	return c.Remaining() == 0
}

func (c *Cooldown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// StartCooldown restarts the countdown from the full duration on a fresh
// ticker, so the first decrement comes one whole second after the call.
func (c *Cooldown) StartCooldown() {
	c.mu.Lock()
	if c.seconds == 0 {
		c.mu.Unlock()
		return
	}
	oldStop, oldDone := c.stop, c.done
	stop := make(chan struct{})
	done := make(chan struct{})
	c.remaining = c.seconds
	c.stop, c.done = stop, done
	t := c.clk.Ticker(time.Second)
	go c.run(t, stop, done)
	c.mu.Unlock()

	if oldStop != nil {
		close(oldStop)
		<-oldDone
	}
}

func (c *Cooldown) run(t *clock.Ticker, stop, done chan struct{}) {
	defer close(done)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if !c.tick(stop) {
				return
			}
		}
	}
}

// tick decrements once and reports whether the loop owning stop should keep
// running.
func (c *Cooldown) tick(stop chan struct{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != stop {
		return false
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.stop, c.done = nil, nil
		return false
	}
	return true
}

// Reset zeroes the countdown and waits for the ticker goroutine to exit.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	c.remaining = 0
	stop, done := c.stop, c.done
	c.stop, c.done = nil, nil
	c.mu.Unlock()
	if stop != nil {
		close(stop)
		<-done
	}
}
