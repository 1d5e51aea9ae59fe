package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StakeSentinel/internal/chain"
	"StakeSentinel/internal/config"
	"StakeSentinel/internal/engine"
	"StakeSentinel/internal/ledger"
	"StakeSentinel/internal/model"
	"StakeSentinel/internal/quote"
	"StakeSentinel/internal/recorder"
)

const vaultAcc = "vaultAcc"

func newTestScheduler(t *testing.T, reserveUnits int64) (*Scheduler, *ledger.Store) {
	t.Helper()
	store, err := ledger.NewStore(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	r := &model.Rules{
		Rule: model.AccrualRule{TokensPerUSDPerDay: 120, DefaultFeeRecipient: "feeAddr"},
	}
	mock := &chain.MockBalances{
		Balances: map[string]int64{
			vaultAcc:   reserveUnits,
			"tokenAcc": 240_000_000_000, // 240 tokens at 9 decimals
		},
		Decimals: 6,
	}
	eng := &engine.Engine{
		Quote:           &quote.MockFetcher{OutputUnits: 2_500_000, OutputDecimals: 6},
		Chain:           mock,
		Ledger:          ledger.New(store, r.Rule),
		Rules:           r,
		TokenDecimals:   9,
		ReserveAccount:  vaultAcc,
		ReserveDecimals: 6,
	}
	cfg := &config.Config{}
	cfg.Watch = []config.WatchEntry{{Wallet: "w", TokenAccount: "tokenAcc"}}
	cfg.Reserve.LowWatermarkUSD = 100

	return NewScheduler(context.Background(), eng, mock, nil, recorder.NewNoopRecorder(), cfg), store
}

func TestHandleCommand_Stake(t *testing.T) {
	s, _ := newTestScheduler(t, 40_000_000)

	// 1 SOL quoted at $2.50 mints 2.5 tokens at 9 decimals.
	reply := s.HandleCommand("/stake 1")
	if !strings.Contains(reply, "2500000000 units") {
		t.Errorf("expected mint units in reply, got %q", reply)
	}

	if reply := s.HandleCommand("/stake abc"); !strings.Contains(reply, "invalid") {
		t.Errorf("expected invalid amount reply, got %q", reply)
	}
	if reply := s.HandleCommand("/stake"); !strings.Contains(reply, "usage") {
		t.Errorf("expected usage reply, got %q", reply)
	}
}

func TestHandleCommand_Claim(t *testing.T) {
	s, store := newTestScheduler(t, 40_000_000)
	if err := store.SetLastRealizedAt("w", time.Now().Add(-3*24*time.Hour)); err != nil {
		t.Fatalf("seed anchor: %v", err)
	}

	// 240 tokens over 3 days at rate 120: $6 prepared, split 2/3 : 1/3.
	reply := s.HandleCommand("/claim w")
	if !strings.Contains(reply, "$6.0000") {
		t.Errorf("expected $6 claim in reply, got %q", reply)
	}
	if !strings.Contains(reply, "4000000") || !strings.Contains(reply, "2000000") {
		t.Errorf("expected split units in reply, got %q", reply)
	}

	// The dry run must not advance the ledger.
	last, ok := store.LastRealizedAt("w")
	if !ok {
		t.Fatal("expected anchor still present")
	}
	if time.Since(last) < 71*time.Hour {
		t.Errorf("dry run advanced the ledger: anchor %v", last)
	}

	if reply := s.HandleCommand("/claim stranger"); !strings.Contains(reply, "not on the watch list") {
		t.Errorf("expected unwatched reply, got %q", reply)
	}
}

func TestHandleCommand_ClaimNothingAccrued(t *testing.T) {
	s, store := newTestScheduler(t, 40_000_000)
	if err := store.SetLastRealizedAt("w", time.Now()); err != nil {
		t.Fatalf("seed anchor: %v", err)
	}
	if reply := s.HandleCommand("/claim w"); !strings.Contains(reply, "nothing to claim") {
		t.Errorf("expected nothing-to-claim reply, got %q", reply)
	}
}

func TestHandleCommand_RulesReloadChangesAccrual(t *testing.T) {
	s, store := newTestScheduler(t, 40_000_000)
	if err := store.SetLastRealizedAt("w", time.Now().Add(-3*24*time.Hour)); err != nil {
		t.Fatalf("seed anchor: %v", err)
	}

	// At the startup rate of 120, 240 tokens over 3 days claim $6.
	if reply := s.HandleCommand("/claim w"); !strings.Contains(reply, "$6.0000") {
		t.Fatalf("expected $6 claim before reload, got %q", reply)
	}

	rulesFile := filepath.Join(t.TempDir(), "rules.json")
	doc := `{"invest_rule":{"tokens_per_usd_per_day":240},"invest_fee_recipient":"newFee"}`
	if err := os.WriteFile(rulesFile, []byte(doc), 0644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	s.RulesFile = rulesFile

	reply := s.HandleCommand("/rules")
	if !strings.Contains(reply, "rate 240") {
		t.Fatalf("expected reload confirmation, got %q", reply)
	}

	// The reloaded rate must reach the accrual path, not just the tier menu:
	// at rate 240 the same balance and elapsed days claim $3.
	if reply := s.HandleCommand("/claim w"); !strings.Contains(reply, "$3.0000") {
		t.Errorf("expected $3 claim after reload, got %q", reply)
	}
	if got := s.Engine.Ledger.Rule().TokensPerUSDPerDay; got != 240 {
		t.Errorf("expected ledger rate 240 after reload, got %g", got)
	}
}

func TestHandleCommand_Reserve(t *testing.T) {
	s, _ := newTestScheduler(t, 40_000_000)
	reply := s.HandleCommand("/reserve")
	if !strings.Contains(reply, "$40.00") {
		t.Errorf("expected reserve balance in reply, got %q", reply)
	}
	// $40 is below the $100 watermark.
	if !strings.Contains(reply, "watermark") {
		t.Errorf("expected low-reserve warning, got %q", reply)
	}
}

func TestHandleCommand_Help(t *testing.T) {
	reply := (&Scheduler{}).HandleCommand("/bogus")
	if !strings.Contains(reply, "/reserve") || !strings.Contains(reply, "/stake") {
		t.Errorf("expected help text, got %q", reply)
	}
}
