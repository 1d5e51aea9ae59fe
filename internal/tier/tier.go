package tier

import "StakeSentinel/internal/model"

// Resolve returns the first tier whose wallet matches exactly, or false.
// Resolution over unchanged rules is idempotent.
func Resolve(wallet string, tiers []model.Tier) (model.Tier, bool) {
	for _, t := range tiers {
		if t.Wallet == wallet {
			return t, true
		}
	}
	return model.Tier{}, false
}

// Offers reports whether the tier's fixed menu contains the given USD amount.
func Offers(t model.Tier, amountUSD float64) bool {
	for _, a := range t.Amounts {
		if a == amountUSD {
			return true
		}
	}
	return false
}

// FeeRecipient returns the tier's override when set, else the rule default.
func FeeRecipient(t model.Tier, rule model.AccrualRule) string {
	if t.FeeRecipient != "" {
		return t.FeeRecipient
	}
	return rule.DefaultFeeRecipient
}
