package auction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
)

func settledRecord(bidder string, bid int64) *Record {
	rec := newRecord("SETL01", "boardwalk", KindStandard, 100, []string{"alice", "bob"}, time.Unix(0, 0))
	rec.status = StatusResolving
	if bidder != "" {
		rec.currentBidder = bidder
		rec.currentBid = bid
		rec.bidHistory = append(rec.bidHistory, BidEntry{PlayerID: bidder, Amount: bid})
	}
	return rec
}

func TestSettlementSold(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	led.AddPlayer("alice", 1000)
	led.AddProperty("boardwalk", 200, "", 0)
	engine := NewSettlementEngine(led, 0.10)

	result := engine.Execute(ctx, settledRecord("alice", 300))
	if result.Outcome != OutcomeSold {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeSold)
	}
	if result.OverbidToFund != 10 {
		t.Errorf("overbid to fund = %d, want 10", result.OverbidToFund)
	}

	funds, _ := led.GetFunds(ctx, "alice")
	if funds != 700 {
		t.Errorf("alice funds = %d, want 700", funds)
	}
	owner, _ := led.GetPropertyOwner(ctx, "boardwalk")
	if owner != "alice" {
		t.Errorf("owner = %q, want alice", owner)
	}
	balance, _ := led.Balance(ctx)
	if balance != 10 {
		t.Errorf("fund balance = %d, want 10", balance)
	}

	rows := led.Settlements()
	if len(rows) != 1 {
		t.Fatalf("settlement rows = %d, want 1", len(rows))
	}
	if rows[0].AuctionID != "SETL01" || rows[0].Outcome != string(OutcomeSold) || rows[0].BidCount != 1 {
		t.Errorf("settlement row = %+v", rows[0])
	}
}

func TestSettlementBidAtOrBelowListPriceRoutesNothing(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	led.AddPlayer("alice", 1000)
	led.AddProperty("boardwalk", 200, "", 0)
	engine := NewSettlementEngine(led, 0.10)

	result := engine.Execute(ctx, settledRecord("alice", 150))
	if result.Outcome != OutcomeSold {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeSold)
	}
	if result.OverbidToFund != 0 {
		t.Errorf("overbid to fund = %d, want 0", result.OverbidToFund)
	}
	balance, _ := led.Balance(ctx)
	if balance != 0 {
		t.Errorf("fund balance = %d, want 0", balance)
	}
}

func TestSettlementNoBidder(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	led.AddProperty("boardwalk", 200, "", 0)
	engine := NewSettlementEngine(led, 0.10)

	result := engine.Execute(ctx, settledRecord("", 0))
	if result.Outcome != OutcomeNoSale {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeNoSale)
	}

	rows := led.Settlements()
	if len(rows) != 1 || rows[0].Outcome != string(OutcomeNoSale) {
		t.Errorf("settlement rows = %+v, want one %s row", rows, OutcomeNoSale)
	}
}

func TestSettlementInsufficientFundsAtClose(t *testing.T) {
	ctx := context.Background()
	led := ledger.NewMemoryLedger()
	led.AddPlayer("alice", 250)
	led.AddProperty("boardwalk", 200, "", 0)
	engine := NewSettlementEngine(led, 0.10)

	result := engine.Execute(ctx, settledRecord("alice", 300))
	if result.Outcome != OutcomeInvalidWinner {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeInvalidWinner)
	}

	funds, _ := led.GetFunds(ctx, "alice")
	if funds != 250 {
		t.Errorf("alice funds = %d, want 250 untouched", funds)
	}
	owner, _ := led.GetPropertyOwner(ctx, "boardwalk")
	if owner != "" {
		t.Errorf("owner = %q, want bank-held", owner)
	}
}

// failingLedger accepts reads but refuses to commit.
type failingLedger struct {
	*ledger.MemoryLedger
}

var errCommit = errors.New("commit refused")

func (l *failingLedger) Settle(context.Context, func(context.Context, ledger.SettlementTx) error) error {
	return errCommit
}

func TestSettlementTransactionFailureVoidsSale(t *testing.T) {
	ctx := context.Background()
	mem := ledger.NewMemoryLedger()
	mem.AddPlayer("alice", 1000)
	mem.AddProperty("boardwalk", 200, "", 0)
	engine := NewSettlementEngine(&failingLedger{mem}, 0.10)

	result := engine.Execute(ctx, settledRecord("alice", 300))
	if result.Outcome != OutcomeError {
		t.Fatalf("outcome = %s, want %s", result.Outcome, OutcomeError)
	}

	funds, _ := mem.GetFunds(ctx, "alice")
	if funds != 1000 {
		t.Errorf("alice funds = %d, want 1000 after rollback", funds)
	}
	owner, _ := mem.GetPropertyOwner(ctx, "boardwalk")
	if owner != "" {
		t.Errorf("owner = %q, want bank-held after rollback", owner)
	}
	if rows := mem.Settlements(); len(rows) != 0 {
		t.Errorf("settlement rows = %d, want 0 after rollback", len(rows))
	}
}
