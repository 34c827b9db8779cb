package auction

import (
	"fmt"
	"sort"
	"sync"
)

// Registry owns the live set of auction records. It is process-local and
// volatile; a restart loses all in-flight auctions.
type Registry struct {
	mu         sync.RWMutex
	byID       map[string]*Record
	byProperty map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byID:       make(map[string]*Record),
		byProperty: make(map[string]string),
	}
}

// Register adds a record, enforcing at most one live auction per property.
func (reg *Registry) Register(rec *Record) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if existing, ok := reg.byProperty[rec.propertyID]; ok {
		return fmt.Errorf("property %s already has auction %s: %w",
			rec.propertyID, existing, ErrConflict)
	}

	reg.byID[rec.id] = rec
	reg.byProperty[rec.propertyID] = rec.id
	return nil
}

// Get returns the record for id.
func (reg *Registry) Get(id string) (*Record, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rec, ok := reg.byID[id]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", id, ErrNotFound)
	}
	return rec, nil
}

// Remove evicts a terminal record.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	rec, ok := reg.byID[id]
	if !ok {
		return
	}
	delete(reg.byID, id)
	if reg.byProperty[rec.propertyID] == id {
		delete(reg.byProperty, rec.propertyID)
	}
}

// ListActive snapshots every Active record. Each call re-queries the live
// set, so the result is always current and re-traversable.
func (reg *Registry) ListActive() []Snapshot {
	reg.mu.RLock()
	records := make([]*Record, 0, len(reg.byID))
	for _, rec := range reg.byID {
		records = append(records, rec)
	}
	reg.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		if rec.status == StatusActive {
			snaps = append(snaps, rec.snapshotLocked())
		}
		rec.mu.Unlock()
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ID < snaps[j].ID })
	return snaps
}
