package auction

// ValidateBid checks a bid command against a record without mutating it.
// Caller must hold the record's lock.
func ValidateBid(rec *Record, playerID string, amount int64) error {
	if rec.status != StatusActive {
		return rejected(ReasonNotActive)
	}
	if _, ok := rec.eligible[playerID]; !ok {
		return rejected(ReasonNotEligible)
	}
	if _, ok := rec.passed[playerID]; ok {
		return rejected(ReasonAlreadyPassed)
	}
	if amount <= rec.currentBid {
		return rejected(ReasonBidTooLow)
	}
	if rec.currentBid == 0 && amount < rec.minimumBid {
		return rejected(ReasonBidTooLow)
	}
	return nil
}

// ValidatePass checks a pass command against a record without mutating it.
// The current leader may not pass while holding the lead.
// Caller must hold the record's lock.
func ValidatePass(rec *Record, playerID string) error {
	if rec.status != StatusActive {
		return rejected(ReasonNotActive)
	}
	if _, ok := rec.eligible[playerID]; !ok {
		return rejected(ReasonNotEligible)
	}
	if _, ok := rec.passed[playerID]; ok {
		return rejected(ReasonAlreadyPassed)
	}
	if playerID == rec.currentBidder && rec.currentBidder != "" {
		return rejected(ReasonLeaderCannotPass)
	}
	return nil
}
