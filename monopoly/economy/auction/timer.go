package auction

import (
	"sync"
	"time"
)

// Countdown is a single cancellable countdown per record. Start and Reset
// replace any pending fire rather than stacking callbacks; each scheduling
// bumps a generation and the fire callback carries the generation it was
// scheduled under, so a stale fire can be recognized and dropped.
//
// The hard cancel guarantee lives at the manager: Cancel and Reset are only
// called while holding the record lock, and the expiry path re-checks
// Live(gen) under that same lock before resolving. If a cancel or reset
// happens-before the callback's critical section, the fire is a no-op.
type Countdown struct {
	mu    sync.Mutex
	clock Clock
	fire  func(gen uint64)

	pending Stopper
	gen     uint64
}

func NewCountdown(clock Clock, fire func(gen uint64)) *Countdown {
	return &Countdown{clock: clock, fire: fire}
}

// Start begins counting down, replacing any pending fire.
func (c *Countdown) Start(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleLocked(d)
}

// Reset atomically cancels any pending fire and restarts the countdown.
func (c *Countdown) Reset(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleLocked(d)
}

// Cancel stops the countdown. Any fire already in flight will fail its
// Live check and never reach the expiry path.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

// Live reports whether gen is still the current scheduling generation.
func (c *Countdown) Live(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *Countdown) scheduleLocked(d time.Duration) {
	c.gen++
	gen := c.gen
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.clock.AfterFunc(d, func() {
		c.fire(gen)
	})
}
