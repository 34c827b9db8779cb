package auction

import (
	"sync"
	"testing"
	"time"
)

type fireLog struct {
	mu   sync.Mutex
	gens []uint64
}

func (f *fireLog) record(gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gens = append(f.gens, gen)
}

func (f *fireLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.gens)
}

func TestCountdownFiresOnce(t *testing.T) {
	clock := newManualClock()
	fired := &fireLog{}
	countdown := NewCountdown(clock, fired.record)

	countdown.Start(30 * time.Second)

	clock.Advance(29 * time.Second)
	if got := fired.count(); got != 0 {
		t.Fatalf("countdown fired %d times before the deadline", got)
	}

	clock.Advance(time.Second)
	if got := fired.count(); got != 1 {
		t.Fatalf("countdown fired %d times, want 1", got)
	}

	clock.Advance(time.Minute)
	if got := fired.count(); got != 1 {
		t.Fatalf("countdown fired %d times after expiry, want 1", got)
	}
}

func TestCountdownResetReplacesPendingFire(t *testing.T) {
	clock := newManualClock()
	fired := &fireLog{}
	countdown := NewCountdown(clock, fired.record)

	countdown.Start(30 * time.Second)
	clock.Advance(25 * time.Second)
	countdown.Reset(10 * time.Second)

	// Past the original deadline, before the new one.
	clock.Advance(6 * time.Second)
	if got := fired.count(); got != 0 {
		t.Fatalf("stale countdown fired %d times after reset", got)
	}

	clock.Advance(4 * time.Second)
	if got := fired.count(); got != 1 {
		t.Fatalf("countdown fired %d times, want 1", got)
	}
}

func TestCountdownCancelPreventsFire(t *testing.T) {
	clock := newManualClock()
	fired := &fireLog{}
	countdown := NewCountdown(clock, fired.record)

	countdown.Start(10 * time.Second)
	countdown.Cancel()

	clock.Advance(time.Minute)
	if got := fired.count(); got != 0 {
		t.Fatalf("countdown fired %d times after cancel", got)
	}
}

func TestCountdownStaleGenerationIsDead(t *testing.T) {
	clock := newManualClock()
	var gens []uint64
	countdown := NewCountdown(clock, func(gen uint64) { gens = append(gens, gen) })

	countdown.Start(10 * time.Second)
	clock.Advance(10 * time.Second)
	if len(gens) != 1 {
		t.Fatalf("expected one fire, got %d", len(gens))
	}
	staleGen := gens[0]

	// A fire that raced a reset carries the old generation; the manager's
	// Live check under the record lock must reject it.
	countdown.Reset(10 * time.Second)
	if countdown.Live(staleGen) {
		t.Error("stale generation still reported live after reset")
	}

	countdown.Cancel()
	countdown.Start(10 * time.Second)
	clock.Advance(10 * time.Second)
	if len(gens) != 2 {
		t.Fatalf("expected two fires total, got %d", len(gens))
	}
	if !countdown.Live(gens[1]) {
		t.Error("current generation not reported live")
	}
}
