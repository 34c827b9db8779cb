package auction

import (
	"errors"
	"testing"
	"time"
)

func testRecord() *Record {
	return newRecord("TEST01", "boardwalk", KindStandard, 100, []string{"alice", "bob", "carol"}, time.Unix(0, 0))
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	return validationErr.Reason
}

func TestValidateBid(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Record)
		playerID   string
		amount     int64
		wantReason Reason
	}{
		{
			name:     "first bid at minimum",
			playerID: "alice",
			amount:   100,
		},
		{
			name:       "first bid below minimum",
			playerID:   "alice",
			amount:     99,
			wantReason: ReasonBidTooLow,
		},
		{
			name:       "not eligible",
			playerID:   "mallory",
			amount:     150,
			wantReason: ReasonNotEligible,
		},
		{
			name: "already passed",
			mutate: func(rec *Record) {
				rec.passed["bob"] = struct{}{}
			},
			playerID:   "bob",
			amount:     150,
			wantReason: ReasonAlreadyPassed,
		},
		{
			name: "equal to current bid",
			mutate: func(rec *Record) {
				rec.currentBid = 150
				rec.currentBidder = "bob"
			},
			playerID:   "alice",
			amount:     150,
			wantReason: ReasonBidTooLow,
		},
		{
			name: "one above current bid",
			mutate: func(rec *Record) {
				rec.currentBid = 150
				rec.currentBidder = "bob"
			},
			playerID: "alice",
			amount:   151,
		},
		{
			name: "auction resolving",
			mutate: func(rec *Record) {
				rec.status = StatusResolving
			},
			playerID:   "alice",
			amount:     200,
			wantReason: ReasonNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			if tt.mutate != nil {
				tt.mutate(rec)
			}

			err := ValidateBid(rec, tt.playerID, tt.amount)
			if tt.wantReason == "" {
				if err != nil {
					t.Errorf("ValidateBid() = %v, want accept", err)
				}
				return
			}
			if got := reasonOf(t, err); got != tt.wantReason {
				t.Errorf("ValidateBid() reason = %s, want %s", got, tt.wantReason)
			}
		})
	}
}

func TestValidatePass(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Record)
		playerID   string
		wantReason Reason
	}{
		{
			name:     "eligible non-leader",
			playerID: "alice",
		},
		{
			name:       "not eligible",
			playerID:   "mallory",
			wantReason: ReasonNotEligible,
		},
		{
			name: "already passed",
			mutate: func(rec *Record) {
				rec.passed["alice"] = struct{}{}
			},
			playerID:   "alice",
			wantReason: ReasonAlreadyPassed,
		},
		{
			name: "leader cannot pass",
			mutate: func(rec *Record) {
				rec.currentBid = 120
				rec.currentBidder = "alice"
			},
			playerID:   "alice",
			wantReason: ReasonLeaderCannotPass,
		},
		{
			name: "former leader may pass after being outbid",
			mutate: func(rec *Record) {
				rec.currentBid = 150
				rec.currentBidder = "bob"
			},
			playerID: "alice",
		},
		{
			name: "auction cancelled",
			mutate: func(rec *Record) {
				rec.status = StatusCancelled
			},
			playerID:   "alice",
			wantReason: ReasonNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			if tt.mutate != nil {
				tt.mutate(rec)
			}

			err := ValidatePass(rec, tt.playerID)
			if tt.wantReason == "" {
				if err != nil {
					t.Errorf("ValidatePass() = %v, want accept", err)
				}
				return
			}
			if got := reasonOf(t, err); got != tt.wantReason {
				t.Errorf("ValidatePass() reason = %s, want %s", got, tt.wantReason)
			}
		})
	}
}
