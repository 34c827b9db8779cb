package auction

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
)

// manualClock drives countdowns deterministically from test code.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers map[*manualTimer]struct{}
}

type manualTimer struct {
	clock    *manualClock
	deadline time.Time
	fn       func()
}

func newManualClock() *manualClock {
	return &manualClock{
		now:    time.Unix(1700000000, 0),
		timers: make(map[*manualTimer]struct{}),
	}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) AfterFunc(d time.Duration, fn func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{clock: c, deadline: c.now.Add(d), fn: fn}
	c.timers[t] = struct{}{}
	return t
}

func (t *manualTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if _, ok := t.clock.timers[t]; ok {
		delete(t.clock.timers, t)
		return true
	}
	return false
}

// Advance moves the clock forward and fires every timer that came due, in
// deadline order, outside the clock lock.
func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*manualTimer
	for t := range c.timers {
		if !t.deadline.After(c.now) {
			due = append(due, t)
			delete(c.timers, t)
		}
	}
	c.mu.Unlock()

	sort.Slice(due, func(i, j int) bool { return due[i].deadline.Before(due[j].deadline) })
	for _, t := range due {
		t.fn()
	}
}

// captureBroadcaster records every event for assertions.
type captureBroadcaster struct {
	mu     sync.Mutex
	events []Event
}

func (b *captureBroadcaster) Broadcast(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *captureBroadcaster) byType(eventType string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Event
	for _, event := range b.events {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func (b *captureBroadcaster) lastEnded(t *testing.T) EndedPayload {
	t.Helper()
	ended := b.byType(EventAuctionEnded)
	if len(ended) == 0 {
		t.Fatal("no auction_ended event broadcast")
	}
	payload, ok := ended[len(ended)-1].Payload.(EndedPayload)
	if !ok {
		t.Fatalf("auction_ended payload has type %T", ended[len(ended)-1].Payload)
	}
	return payload
}

type testEngine struct {
	manager   *Manager
	ledger    *ledger.MemoryLedger
	broadcast *captureBroadcaster
	clock     *manualClock
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	led := ledger.NewMemoryLedger()
	broadcast := &captureBroadcaster{}
	clock := newManualClock()

	manager := NewManager(
		NewRegistry(),
		led,
		NewSettlementEngine(led, 0.10),
		broadcast,
		clock,
		Options{
			InitialCountdown: 30 * time.Second,
			BidCountdown:     10 * time.Second,
			RecentCacheSize:  16,
		},
	)

	return &testEngine{
		manager:   manager,
		ledger:    led,
		broadcast: broadcast,
		clock:     clock,
	}
}
