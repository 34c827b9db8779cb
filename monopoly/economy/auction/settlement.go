package auction

import (
	"context"
	"log/slog"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
)

// Outcome is the terminal result of a resolved auction.
type Outcome string

const (
	OutcomeSold          Outcome = "sold"
	OutcomeNoSale        Outcome = "no_sale"
	OutcomeInvalidWinner Outcome = "invalid_winner"
	OutcomeError         Outcome = "error"
	OutcomeCancelled     Outcome = "cancelled"
)

type SettlementResult struct {
	Outcome       Outcome
	WinnerID      string
	WinningBid    int64
	OverbidToFund int64
}

// SettlementEngine executes the financial and ownership consequences of a
// resolved auction, exactly once per record.
type SettlementEngine struct {
	ledger       ledger.Ledger
	fundFraction float64
}

func NewSettlementEngine(l ledger.Ledger, fundFraction float64) *SettlementEngine {
	return &SettlementEngine{ledger: l, fundFraction: fundFraction}
}

// Execute settles rec. The manager calls it from Resolving while holding the
// record's exclusive section, so no other operation can touch the record
// until settlement finishes. A failed settlement rolls back as a unit and is
// never retried; the outcome is terminal either way.
func (e *SettlementEngine) Execute(ctx context.Context, rec *Record) SettlementResult {
	if rec.currentBidder == "" {
		e.writeAuditRow(ctx, rec, SettlementResult{Outcome: OutcomeNoSale})
		return SettlementResult{Outcome: OutcomeNoSale}
	}

	winnerID := rec.currentBidder
	winningBid := rec.currentBid

	// Re-check funds fresh at settlement time; the winner may have spent
	// money elsewhere since the bid was placed. No fallback to the
	// next-highest bidder.
	funds, err := e.ledger.GetFunds(ctx, winnerID)
	if err != nil {
		slog.Error("Settlement funds lookup failed",
			slog.String("type", "auction"),
			slog.String("auction_id", rec.id),
			slog.String("winner_id", winnerID),
			slog.Any("error", err))
		return SettlementResult{Outcome: OutcomeError}
	}
	if funds < winningBid {
		slog.Warn("Winning bidder cannot pay at settlement",
			slog.String("type", "auction"),
			slog.String("auction_id", rec.id),
			slog.String("winner_id", winnerID),
			slog.Int64("funds", funds),
			slog.Int64("winning_bid", winningBid))
		result := SettlementResult{Outcome: OutcomeInvalidWinner}
		e.writeAuditRow(ctx, rec, result)
		return result
	}

	listPrice, err := e.ledger.GetPropertyListPrice(ctx, rec.propertyID)
	if err != nil {
		slog.Error("Settlement list price lookup failed",
			slog.String("type", "auction"),
			slog.String("auction_id", rec.id),
			slog.String("property_id", rec.propertyID),
			slog.Any("error", err))
		return SettlementResult{Outcome: OutcomeError}
	}

	var overbidToFund int64
	if overbid := winningBid - listPrice; overbid > 0 {
		overbidToFund = int64(float64(overbid) * e.fundFraction)
	}

	result := SettlementResult{
		Outcome:       OutcomeSold,
		WinnerID:      winnerID,
		WinningBid:    winningBid,
		OverbidToFund: overbidToFund,
	}

	err = e.ledger.Settle(ctx, func(ctx context.Context, tx ledger.SettlementTx) error {
		if err := tx.Debit(ctx, winnerID, winningBid); err != nil {
			return err
		}
		if err := tx.TransferProperty(ctx, rec.propertyID, winnerID); err != nil {
			return err
		}
		if overbidToFund > 0 {
			if err := tx.RouteToFund(ctx, overbidToFund, "auction overbid "+rec.id); err != nil {
				return err
			}
		}
		return tx.RecordSettlement(ctx, e.auditRow(rec, result))
	})
	if err != nil {
		// Rolled back as a unit. Not retried: a re-attempt after a partial
		// failure at the collaborator boundary could double-charge.
		slog.Error("Settlement failed, sale voided",
			slog.String("type", "auction"),
			slog.String("auction_id", rec.id),
			slog.String("winner_id", winnerID),
			slog.Any("error", err))
		return SettlementResult{Outcome: OutcomeError}
	}

	return result
}

func (e *SettlementEngine) auditRow(rec *Record, result SettlementResult) *models.SettlementRecord {
	return &models.SettlementRecord{
		AuctionID:     rec.id,
		PropertyID:    rec.propertyID,
		Outcome:       string(result.Outcome),
		WinnerID:      result.WinnerID,
		WinningBid:    result.WinningBid,
		OverbidToFund: result.OverbidToFund,
		BidCount:      len(rec.bidHistory),
	}
}

// writeAuditRow records terminal outcomes that move no money. A failure here
// only loses the audit row, never funds or ownership, so it is logged for
// manual reconciliation and the outcome stands.
func (e *SettlementEngine) writeAuditRow(ctx context.Context, rec *Record, result SettlementResult) {
	err := e.ledger.Settle(ctx, func(ctx context.Context, tx ledger.SettlementTx) error {
		return tx.RecordSettlement(ctx, e.auditRow(rec, result))
	})
	if err != nil {
		slog.Error("Failed to record settlement audit row",
			slog.String("type", "auction"),
			slog.String("auction_id", rec.id),
			slog.String("outcome", string(result.Outcome)),
			slog.Any("error", err))
	}
}
