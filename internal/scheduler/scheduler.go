package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"StakeSentinel/internal/chain"
	"StakeSentinel/internal/config"
	"StakeSentinel/internal/engine"
	"StakeSentinel/internal/ledger"
	"StakeSentinel/internal/model"
	"StakeSentinel/internal/notifier"
	"StakeSentinel/internal/recorder"
	"StakeSentinel/internal/rules"

	"github.com/robfig/cron/v3"
)

// Scheduler manages all cron tasks: the daily entitlement report for watched
// wallets and the periodic reserve-level check.
type Scheduler struct {
	Cron     *cron.Cron
	Engine   *engine.Engine
	Chain    chain.Balances
	Notifier *notifier.TelegramNotifier
	Recorder recorder.Recorder
	Ctx      context.Context

	Watch           []config.WatchEntry
	TokenMint       string
	LowWatermarkUSD float64
	RulesFile       string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, eng *engine.Engine, ch chain.Balances, tn *notifier.TelegramNotifier, rec recorder.Recorder, cfg *config.Config) *Scheduler {
	return &Scheduler{
		Cron:            cron.New(cron.WithSeconds()),
		Engine:          eng,
		Chain:           ch,
		Notifier:        tn,
		Recorder:        rec,
		Ctx:             ctx,
		Watch:           cfg.Watch,
		TokenMint:       cfg.Token.Mint,
		LowWatermarkUSD: cfg.Reserve.LowWatermarkUSD,
		RulesFile:       cfg.Rules.File,
	}
}

// RegisterAll registers the daily and reserve tasks.
func (s *Scheduler) RegisterAll(dailyCron, reserveCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reserveCron, s.reserveTask); err != nil {
		return fmt.Errorf("register reserve task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

// collectEntitlements computes the current entitlement for every watched
// wallet. A failed balance read leaves a nil entry so the report shows it.
func (s *Scheduler) collectEntitlements() map[string]*ledger.Entitlement {
	entries := make(map[string]*ledger.Entitlement, len(s.Watch))
	for _, w := range s.Watch {
		heldUnits, _, err := s.Chain.TokenAccountBalance(s.Ctx, w.TokenAccount)
		if err != nil {
			log.Printf("[WARN] balance read for %s: %v", w.Wallet, err)
			entries[w.Wallet] = nil
			continue
		}
		ent, err := s.Engine.Ledger.Entitlement(w.Wallet, time.Now(), heldUnits, s.Engine.TokenDecimals)
		if err != nil {
			log.Printf("[ERROR] entitlement for %s: %v", w.Wallet, err)
			entries[w.Wallet] = nil
			continue
		}
		entries[w.Wallet] = ent

		if err := s.Recorder.RecordEntitlement(&recorder.EntitlementSnapshot{
			Wallet:         w.Wallet,
			HeldUnits:      heldUnits,
			EntitlementUSD: ent.USD,
			PerDayUSD:      ent.PerDayUSD,
			Days:           ent.Days,
		}); err != nil {
			log.Printf("[ERROR] record entitlement: %v", err)
		}
	}
	return entries
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily entitlement report")
	entries := s.collectEntitlements()
	s.trySend(notifier.FormatEntitlementReport(s.TokenMint, entries))
}

func (s *Scheduler) reserveTask() {
	log.Println("[INFO] running reserve check")
	status, low, err := s.reserveStatus()
	if err != nil {
		log.Printf("[ERROR] reserve check: %v", err)
		return
	}
	// Quiet unless the reserve needs attention; the row is recorded either way.
	if low {
		s.trySend(status)
	}
}

func (s *Scheduler) reserveStatus() (string, bool, error) {
	balanceUnits, decimals, err := s.Chain.TokenAccountBalance(s.Ctx, s.Engine.ReserveAccount)
	if err != nil {
		return "", false, fmt.Errorf("reserve balance: %w", err)
	}
	if decimals == 0 {
		decimals = s.Engine.ReserveDecimals
	}
	balanceUSD := float64(balanceUnits) / model.Pow10(decimals)
	low := balanceUSD < s.LowWatermarkUSD

	if err := s.Recorder.RecordReserveCheck(&recorder.ReserveCheck{
		BalanceUnits: balanceUnits,
		BalanceUSD:   balanceUSD,
		Low:          low,
	}); err != nil {
		log.Printf("[ERROR] record reserve check: %v", err)
	}
	return notifier.FormatReserveStatus(balanceUnits, balanceUSD, low), low, nil
}

// HandleCommand processes an operator command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/stake":
		if len(fields) != 2 {
			return "usage: /stake <sol>"
		}
		return s.stakeDryRun(fields[1])
	case "/claim":
		if len(fields) != 2 {
			return "usage: /claim <wallet>"
		}
		return s.claimDryRun(fields[1])
	case "/reserve":
		status, _, err := s.reserveStatus()
		if err != nil {
			return fmt.Sprintf("reserve check failed: %v", err)
		}
		return status
	case "/entitlements":
		return notifier.FormatEntitlementReport(s.TokenMint, s.collectEntitlements())
	case "/tiers":
		return notifier.FormatTierMenu(s.Engine.Rules)
	case "/rules":
		r, err := rules.Load(s.RulesFile)
		if err != nil {
			return fmt.Sprintf("rules reload failed: %v", err)
		}
		s.Engine.Rules = r
		// The ledger captured the rule at construction; push the new one so
		// accrual uses the reloaded rate, not just the tier menu.
		s.Engine.Ledger.SetRule(r.Rule)
		return fmt.Sprintf("rules reloaded: %d tier(s), rate %g", len(r.Tiers), r.Rule.TokensPerUSDPerDay)
	default:
		return "Commands:\n• /reserve\n• /entitlements\n• /tiers\n• /rules\n• /stake <sol>\n• /claim <wallet>"
	}
}

// stakeDryRun sizes a stake without emitting anything on-chain: it answers
// "what would staking this much SOL mint right now".
func (s *Scheduler) stakeDryRun(solArg string) string {
	sol, err := strconv.ParseFloat(solArg, 64)
	if err != nil || sol <= 0 {
		return fmt.Sprintf("invalid SOL amount %q", solArg)
	}
	lamports := int64(sol * 1e9)

	params, q, err := s.Engine.Stake(s.Ctx, lamports)
	if err != nil {
		return fmt.Sprintf("stake sizing failed: %v", err)
	}
	if err := s.Recorder.RecordStake(&recorder.StakeEvent{
		StakedUnits:    params.StakedUnits,
		QuoteOutUnits:  q.OutputUnits,
		OutputDecimals: q.OutputDecimals,
		MintUnits:      params.MintUnits,
	}); err != nil {
		log.Printf("[ERROR] record stake: %v", err)
	}
	return notifier.FormatStakeReceipt(q, params, s.Engine.TokenDecimals)
}

// claimDryRun prepares (but never confirms) an invest claim for a watched
// wallet, showing the split the on-chain program would be asked to pay.
func (s *Scheduler) claimDryRun(wallet string) string {
	var entry *config.WatchEntry
	for i := range s.Watch {
		if s.Watch[i].Wallet == wallet {
			entry = &s.Watch[i]
			break
		}
	}
	if entry == nil {
		return fmt.Sprintf("wallet %s is not on the watch list", wallet)
	}

	heldUnits, _, err := s.Chain.TokenAccountBalance(s.Ctx, entry.TokenAccount)
	if err != nil {
		return fmt.Sprintf("balance read failed: %v", err)
	}
	claim, err := s.Engine.PrepareInvestClaim(s.Ctx, wallet, heldUnits)
	if err != nil {
		if errors.Is(err, engine.ErrNoEntitlement) {
			return "nothing to claim yet"
		}
		return fmt.Sprintf("claim preparation failed: %v", err)
	}
	if err := s.Recorder.RecordClaim(&recorder.ClaimEvent{
		Wallet:       wallet,
		Kind:         string(model.ClaimInvest),
		RequestedUSD: claim.USD,
		PaidUSD:      0, // dry run, nothing paid
		UserUnits:    claim.Params.UserUnits,
		FeeUnits:     claim.Params.FeeUnits,
		FeeRecipient: claim.Params.FeeRecipient,
	}); err != nil {
		log.Printf("[ERROR] record claim: %v", err)
	}
	return notifier.FormatClaimReceipt(wallet, model.ClaimInvest, claim.USD, &claim.Params)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
