package recorder

// StakeEvent records one sized stake: the quote consumed and the resulting
// mint instruction parameters.
type StakeEvent struct {
	StakedUnits    int64
	QuoteOutUnits  int64
	OutputDecimals int
	MintUnits      int64
}

// ClaimEvent records one prepared claim (invest or VIP).
type ClaimEvent struct {
	Wallet       string
	Kind         string // "INVEST" or "VIP"
	RequestedUSD float64
	PaidUSD      float64
	UserUnits    int64
	FeeUnits     int64
	FeeRecipient string
}

// EntitlementSnapshot records one daily accrual computation for a watched wallet.
type EntitlementSnapshot struct {
	Wallet         string
	HeldUnits      int64
	EntitlementUSD float64
	PerDayUSD      float64
	Days           int64
}

// ReserveCheck records one observation of the reserve vault balance.
type ReserveCheck struct {
	BalanceUnits int64
	BalanceUSD   float64
	Low          bool
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordStake(evt *StakeEvent) error
	RecordClaim(evt *ClaimEvent) error
	RecordEntitlement(snap *EntitlementSnapshot) error
	RecordReserveCheck(evt *ReserveCheck) error
	Close() error
}
