package rules

import (
	"encoding/json"
	"fmt"
	"os"

	"StakeSentinel/internal/model"
)

// Built-in defaults used whenever the rules document is absent. The one-day
// rate matches the on-chain deployment's initial configuration.
const (
	DefaultTokensPerUSDPerDay = 120
	DefaultFeeRecipient       = "Gxovarj3kNDd6ks54KNXknRh1GP5ETaUdYGr1xgqeVNh"
)

// document mirrors the JSON layout served next to the dApp (vip.json).
type document struct {
	InvestRule struct {
		TokensPerUSDPerDay float64 `json:"tokens_per_usd_per_day"`
	} `json:"invest_rule"`
	InvestFeeRecipient string       `json:"invest_fee_recipient"`
	Tiers              []model.Tier `json:"tiers"`
}

// Default returns the built-in rules used when no document is available:
// default accrual rate, default fee recipient, no VIP tiers.
func Default() *model.Rules {
	return &model.Rules{
		Rule: model.AccrualRule{
			TokensPerUSDPerDay:  DefaultTokensPerUSDPerDay,
			DefaultFeeRecipient: DefaultFeeRecipient,
		},
	}
}

// Load reads the rules document from a JSON file. A missing file is not an
// error: the built-in defaults apply. A present but unparseable file is.
func Load(path string) (*model.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	r := &model.Rules{
		Rule: model.AccrualRule{
			TokensPerUSDPerDay:  doc.InvestRule.TokensPerUSDPerDay,
			DefaultFeeRecipient: doc.InvestFeeRecipient,
		},
		Tiers: doc.Tiers,
	}

	// Fill omitted fields from the defaults.
	if r.Rule.TokensPerUSDPerDay <= 0 {
		r.Rule.TokensPerUSDPerDay = DefaultTokensPerUSDPerDay
	}
	if r.Rule.DefaultFeeRecipient == "" {
		r.Rule.DefaultFeeRecipient = DefaultFeeRecipient
	}

	return r, nil
}
