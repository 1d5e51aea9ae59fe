package ledger

import (
	"fmt"
	"sync"
	"time"

	"StakeSentinel/internal/model"
)

const oneDay = 24 * time.Hour

// Entitlement is the result of one accrual computation. It carries everything
// Realize later needs so that advancement uses the same per-day rate the
// entitlement was computed with.
type Entitlement struct {
	Wallet         string
	USD            float64 // total claimable now; 0 means nothing to claim yet
	PerDayUSD      float64
	Days           int64
	LastRealizedAt time.Time
}

// Ledger computes time- and balance-proportional entitlements and advances
// per-wallet realization state after confirmed claims.
type Ledger struct {
	store *Store

	mu   sync.Mutex
	rule model.AccrualRule
}

// New creates a Ledger over the given store and accrual rule.
func New(store *Store, rule model.AccrualRule) *Ledger {
	return &Ledger{store: store, rule: rule}
}

// SetRule swaps the accrual rule, typically after a rules reload. Entitlements
// computed from here on use the new rate; already-prepared claims keep the
// per-day rate they were computed with.
func (l *Ledger) SetRule(rule model.AccrualRule) {
	l.mu.Lock()
	l.rule = rule
	l.mu.Unlock()
}

// Rule returns the accrual rule currently in effect.
func (l *Ledger) Rule() model.AccrualRule {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rule
}

// Entitlement computes the wallet's currently accrued claim in USD.
// A wallet with no recorded state starts one day in the past, which grants a
// single day's allowance on first use. Only whole elapsed days accrue.
func (l *Ledger) Entitlement(wallet string, now time.Time, heldUnits int64, tokenDecimals int) (*Entitlement, error) {
	rule := l.Rule()
	if rule.TokensPerUSDPerDay <= 0 {
		return nil, fmt.Errorf("invalid accrual rate %f", rule.TokensPerUSDPerDay)
	}

	last, ok := l.store.LastRealizedAt(wallet)
	if !ok {
		last = now.Add(-oneDay)
	}

	ent := &Entitlement{Wallet: wallet, LastRealizedAt: last}

	days := int64(now.Sub(last) / oneDay)
	if days < 0 {
		days = 0
	}
	ent.Days = days

	heldTokens := float64(heldUnits) / model.Pow10(tokenDecimals)
	if heldTokens <= 0 {
		return ent, nil
	}
	ent.PerDayUSD = heldTokens / rule.TokensPerUSDPerDay

	if days == 0 {
		return ent, nil
	}
	ent.USD = float64(days) * ent.PerDayUSD
	return ent, nil
}

// Realize advances the wallet's lastRealizedAt by the number of whole days the
// claimed amount covers at the entitlement's per-day rate. A partial claim
// leaves the fractional remainder accruing from the old anchor instead of
// resetting to now; resetting would silently discard unclaimed days.
// Call only after the external claim has been confirmed.
func (l *Ledger) Realize(ent *Entitlement, claimedUSD float64) error {
	if ent == nil || ent.PerDayUSD <= 0 {
		return fmt.Errorf("realize without a positive per-day rate")
	}
	if claimedUSD <= 0 {
		return fmt.Errorf("non-positive claim %f", claimedUSD)
	}

	days := int64(claimedUSD / ent.PerDayUSD)
	if days < 0 {
		days = 0
	}
	// days == 0 still writes: a first claim below one day's worth must pin the
	// bootstrap anchor so it isn't granted again on the next computation.
	newLast := ent.LastRealizedAt.Add(time.Duration(days) * oneDay)
	return l.store.SetLastRealizedAt(ent.Wallet, newLast)
}
