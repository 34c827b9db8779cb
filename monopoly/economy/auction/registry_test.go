package auction

import (
	"errors"
	"testing"
	"time"
)

func TestRegistryOneAuctionPerProperty(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(0, 0)

	first := newRecord("AAA001", "boardwalk", KindStandard, 100, []string{"alice"}, now)
	if err := reg.Register(first); err != nil {
		t.Fatalf("Register() = %v", err)
	}

	second := newRecord("AAA002", "boardwalk", KindStandard, 100, []string{"alice"}, now)
	if err := reg.Register(second); !errors.Is(err, ErrConflict) {
		t.Errorf("Register() on same property = %v, want ErrConflict", err)
	}

	other := newRecord("AAA003", "baltic", KindStandard, 50, []string{"alice"}, now)
	if err := reg.Register(other); err != nil {
		t.Errorf("Register() on other property = %v", err)
	}
}

func TestRegistryGetAndRemove(t *testing.T) {
	reg := NewRegistry()
	rec := newRecord("AAA001", "boardwalk", KindStandard, 100, []string{"alice"}, time.Unix(0, 0))
	if err := reg.Register(rec); err != nil {
		t.Fatalf("Register() = %v", err)
	}

	got, err := reg.Get("AAA001")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	if got != rec {
		t.Error("Get() returned a different record")
	}

	reg.Remove("AAA001")
	if _, err := reg.Get("AAA001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Remove = %v, want ErrNotFound", err)
	}

	// Property slot is freed so a new auction for it can register.
	if err := reg.Register(newRecord("AAA002", "boardwalk", KindStandard, 100, []string{"alice"}, time.Unix(0, 0))); err != nil {
		t.Errorf("Register() after Remove = %v", err)
	}
}

func TestRegistryListActive(t *testing.T) {
	reg := NewRegistry()
	now := time.Unix(0, 0)

	active := newRecord("BBB001", "boardwalk", KindStandard, 100, []string{"alice"}, now)
	resolving := newRecord("AAA001", "baltic", KindStandard, 50, []string{"alice"}, now)
	resolving.status = StatusResolving

	if err := reg.Register(active); err != nil {
		t.Fatalf("Register() = %v", err)
	}
	if err := reg.Register(resolving); err != nil {
		t.Fatalf("Register() = %v", err)
	}

	snaps := reg.ListActive()
	if len(snaps) != 1 {
		t.Fatalf("ListActive() returned %d snapshots, want 1", len(snaps))
	}
	if snaps[0].ID != "BBB001" {
		t.Errorf("ListActive()[0].ID = %s, want BBB001", snaps[0].ID)
	}
}
