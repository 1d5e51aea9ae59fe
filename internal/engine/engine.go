package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"StakeSentinel/internal/chain"
	"StakeSentinel/internal/ledger"
	"StakeSentinel/internal/model"
	"StakeSentinel/internal/quote"
	"StakeSentinel/internal/reserve"
	"StakeSentinel/internal/sizing"
	"StakeSentinel/internal/splitter"
	"StakeSentinel/internal/tier"
)

var (
	// ErrNoEntitlement means nothing has accrued yet. Not an alarm condition.
	ErrNoEntitlement = errors.New("no entitlement")
	// ErrNotVIP means the wallet has no tier in the loaded rules.
	ErrNotVIP = errors.New("wallet not in vip list")
	// ErrAmountNotOffered means the requested USD amount is not on the
	// wallet's tier menu.
	ErrAmountNotOffered = errors.New("amount not offered by tier")
)

// Engine composes the quote adapter, sizing, accrual ledger, reserve guard
// and payout splitter into the two flows the on-chain program consumes.
// It holds no process-wide state: everything is injected.
type Engine struct {
	Quote  quote.Fetcher
	Chain  chain.Balances
	Ledger *ledger.Ledger
	Rules  *model.Rules
	Now    func() time.Time // defaults to time.Now

	TokenDecimals   int
	ReserveAccount  string
	ReserveDecimals int
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Stake converts a staked amount into stakeAndMint instruction parameters:
// quote the staked units against the reference stable asset, then size the
// destination-token mint at the token's precision.
func (e *Engine) Stake(ctx context.Context, stakedUnits int64) (*model.StakeAndMintParams, *model.Quote, error) {
	if stakedUnits <= 0 {
		return nil, nil, fmt.Errorf("non-positive stake %d", stakedUnits)
	}
	q, err := e.Quote.Quote(ctx, stakedUnits)
	if err != nil {
		return nil, nil, fmt.Errorf("stake quote: %w", err)
	}
	mintUnits, err := sizing.MintUnits(q.OutputUnits, q.OutputDecimals, e.TokenDecimals)
	if err != nil {
		return nil, nil, fmt.Errorf("stake sizing: %w", err)
	}
	return &model.StakeAndMintParams{
		StakedUnits: stakedUnits,
		MintUnits:   mintUnits,
	}, q, nil
}

// InvestClaim is a prepared invest-claim: instruction parameters plus the
// data ConfirmInvestClaim needs to advance the ledger afterwards.
type InvestClaim struct {
	Wallet      string
	USD         float64 // capped amount actually being claimed
	Params      model.ClaimSplitParams
	entitlement *ledger.Entitlement
}

// PrepareInvestClaim computes the wallet's current accrued entitlement, caps
// it to the reserve balance and splits the payout. It mutates nothing;
// persisted state advances only in ConfirmInvestClaim after the caller has
// confirmed the external claim succeeded.
func (e *Engine) PrepareInvestClaim(ctx context.Context, wallet string, heldUnits int64) (*InvestClaim, error) {
	ent, err := e.Ledger.Entitlement(wallet, e.now(), heldUnits, e.TokenDecimals)
	if err != nil {
		return nil, fmt.Errorf("invest entitlement: %w", err)
	}
	if ent.USD <= 0 {
		return nil, ErrNoEntitlement
	}

	reserveUnits, _, err := e.Chain.TokenAccountBalance(ctx, e.ReserveAccount)
	if err != nil {
		return nil, fmt.Errorf("invest reserve read: %w", err)
	}
	cappedUSD, err := reserve.Cap(ent.USD, reserveUnits, e.ReserveDecimals)
	if err != nil {
		return nil, fmt.Errorf("invest reserve cap: %w", err)
	}

	totalUnits := int64(math.Floor(cappedUSD * model.Pow10(e.ReserveDecimals)))
	if totalUnits <= 0 {
		return nil, ErrNoEntitlement
	}
	split, err := splitter.Split(totalUnits)
	if err != nil {
		return nil, fmt.Errorf("invest split: %w", err)
	}

	return &InvestClaim{
		Wallet: wallet,
		USD:    cappedUSD,
		Params: model.ClaimSplitParams{
			UserUnits:    split.UserUnits,
			FeeUnits:     split.FeeUnits,
			FeeRecipient: e.Rules.Rule.DefaultFeeRecipient,
		},
		entitlement: ent,
	}, nil
}

// ConfirmInvestClaim advances the accrual ledger for a claim the external
// program has confirmed. This is the only write the engine performs.
func (e *Engine) ConfirmInvestClaim(c *InvestClaim) error {
	if c == nil || c.entitlement == nil {
		return fmt.Errorf("confirm without a prepared claim")
	}
	if err := e.Ledger.Realize(c.entitlement, c.USD); err != nil {
		return fmt.Errorf("invest realize: %w", err)
	}
	return nil
}

// VIPClaim builds claimSplit parameters for a fixed tier amount. Unlike the
// invest flow the amount is never capped: the reserve must cover it in full.
func (e *Engine) VIPClaim(ctx context.Context, wallet string, amountUSD float64) (*model.ClaimSplitParams, error) {
	t, ok := tier.Resolve(wallet, e.Rules.Tiers)
	if !ok {
		return nil, ErrNotVIP
	}
	if !tier.Offers(t, amountUSD) {
		return nil, fmt.Errorf("%w: %.2f", ErrAmountNotOffered, amountUSD)
	}

	totalUnits := int64(math.Floor(amountUSD * model.Pow10(e.ReserveDecimals)))
	if totalUnits <= 0 {
		return nil, fmt.Errorf("%w: %.2f", ErrAmountNotOffered, amountUSD)
	}

	reserveUnits, _, err := e.Chain.TokenAccountBalance(ctx, e.ReserveAccount)
	if err != nil {
		return nil, fmt.Errorf("vip reserve read: %w", err)
	}
	if err := reserve.CheckSufficient(totalUnits, reserveUnits); err != nil {
		return nil, fmt.Errorf("vip claim: %w", err)
	}

	split, err := splitter.Split(totalUnits)
	if err != nil {
		return nil, fmt.Errorf("vip split: %w", err)
	}
	return &model.ClaimSplitParams{
		UserUnits:    split.UserUnits,
		FeeUnits:     split.FeeUnits,
		FeeRecipient: tier.FeeRecipient(t, e.Rules.Rule),
	}, nil
}
