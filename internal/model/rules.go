package model

// AccrualRule controls invest-claim accrual: every TokensPerUSDPerDay held
// destination tokens entitle the holder to 1 USD per elapsed day.
type AccrualRule struct {
	TokensPerUSDPerDay  float64
	DefaultFeeRecipient string
}

// Tier is a wallet-specific fixed menu of claimable USD amounts, independent
// of accrual. FeeRecipient overrides the rule default when non-empty.
type Tier struct {
	Wallet       string    `json:"wallet"`
	Amounts      []float64 `json:"amounts"`
	FeeRecipient string    `json:"fee_recipient,omitempty"`
}

// Rules is the externally supplied rules document: the accrual rule plus the
// ordered VIP tier list. Immutable for the session once loaded.
type Rules struct {
	Rule  AccrualRule
	Tiers []Tier
}
