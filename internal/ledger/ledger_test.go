package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"StakeSentinel/internal/model"
)

var testRule = model.AccrualRule{TokensPerUSDPerDay: 120, DefaultFeeRecipient: "fee"}

func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "accrual_state.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return New(store, testRule), path
}

func TestEntitlement_ZeroDay(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()

	// Anchor 23 hours ago: less than one whole day, nothing accrues.
	if err := l.store.SetLastRealizedAt("w", now.Add(-23*time.Hour)); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if ent.USD != 0 {
		t.Errorf("expected zero entitlement, got %f", ent.USD)
	}
	if ent.Days != 0 {
		t.Errorf("expected zero days, got %d", ent.Days)
	}
}

func TestEntitlement_Linearity(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()

	// 240 tokens held, rule 120 tokens per $/day, 3 elapsed days → $6.
	if err := l.store.SetLastRealizedAt("w", now.Add(-3*24*time.Hour)); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if ent.Days != 3 {
		t.Errorf("expected 3 days, got %d", ent.Days)
	}
	if ent.PerDayUSD != 2.0 {
		t.Errorf("expected $2/day, got %f", ent.PerDayUSD)
	}
	if ent.USD != 6.0 {
		t.Errorf("expected $6, got %f", ent.USD)
	}
}

func TestEntitlement_ZeroBalance(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()
	if err := l.store.SetLastRealizedAt("w", now.Add(-5*24*time.Hour)); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, err := l.Entitlement("w", now, 0, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if ent.USD != 0 || ent.PerDayUSD != 0 {
		t.Errorf("expected zero entitlement for empty balance, got %f (%f/day)", ent.USD, ent.PerDayUSD)
	}
}

func TestEntitlement_BootstrapsOneDay(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()

	// No recorded state: the wallet starts one day in the past, granting a
	// single day's allowance on first use.
	ent, err := l.Entitlement("fresh", now, 120_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if ent.Days != 1 {
		t.Errorf("expected 1 bootstrap day, got %d", ent.Days)
	}
	if ent.USD != 1.0 {
		t.Errorf("expected $1 for 120 tokens at rate 120, got %f", ent.USD)
	}
}

func TestSetRule_ChangesAccrualRate(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()
	if err := l.store.SetLastRealizedAt("w", now.Add(-2*24*time.Hour)); err != nil {
		t.Fatalf("set state: %v", err)
	}

	before, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	if before.PerDayUSD != 2.0 {
		t.Fatalf("expected $2/day at rate 120, got %f", before.PerDayUSD)
	}

	// Doubling the rate halves the per-day value for the same balance.
	l.SetRule(model.AccrualRule{TokensPerUSDPerDay: 240, DefaultFeeRecipient: "fee"})
	after, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement after rule change: %v", err)
	}
	if after.PerDayUSD != 1.0 {
		t.Errorf("expected $1/day at rate 240, got %f", after.PerDayUSD)
	}
	if after.USD != 2.0 {
		t.Errorf("expected $2 over 2 days, got %f", after.USD)
	}
}

func TestRealize_PartialClaimAdvancesWholeDays(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()
	anchor := now.Add(-3 * 24 * time.Hour)

	if err := l.store.SetLastRealizedAt("w", anchor); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement: %v", err)
	}
	// Entitled to $6 over 3 days at $2/day; claim $3.50 → only 1 whole day
	// realized, the anchor moves by exactly one day, not to now.
	if err := l.Realize(ent, 3.5); err != nil {
		t.Fatalf("realize: %v", err)
	}

	last, ok := l.store.LastRealizedAt("w")
	if !ok {
		t.Fatal("expected persisted state after realize")
	}
	wantLast := anchor.Add(24 * time.Hour)
	if last.UnixMilli() != wantLast.UnixMilli() {
		t.Errorf("expected anchor %v, got %v", wantLast, last)
	}

	// Two days' worth remain outstanding at the next check.
	next, err := l.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("second entitlement: %v", err)
	}
	if next.Days != 2 {
		t.Errorf("expected 2 outstanding days, got %d", next.Days)
	}
	if next.USD != 4.0 {
		t.Errorf("expected $4 outstanding, got %f", next.USD)
	}
}

func TestRealize_FullClaim(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()
	anchor := now.Add(-3 * 24 * time.Hour)

	if err := l.store.SetLastRealizedAt("w", anchor); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, _ := l.Entitlement("w", now, 240_000_000_000, 9)
	if err := l.Realize(ent, ent.USD); err != nil {
		t.Fatalf("realize: %v", err)
	}

	next, _ := l.Entitlement("w", now, 240_000_000_000, 9)
	if next.USD != 0 {
		t.Errorf("expected nothing outstanding after a full claim, got %f", next.USD)
	}
}

func TestRealize_RequiresPositiveInputs(t *testing.T) {
	l, _ := newTestLedger(t)
	now := time.Now()
	if err := l.store.SetLastRealizedAt("w", now.Add(-48*time.Hour)); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, _ := l.Entitlement("w", now, 240_000_000_000, 9)

	if err := l.Realize(ent, 0); err == nil {
		t.Error("expected error for zero claim")
	}
	if err := l.Realize(nil, 1); err == nil {
		t.Error("expected error for nil entitlement")
	}
	zeroRate := &Entitlement{Wallet: "w"}
	if err := l.Realize(zeroRate, 1); err == nil {
		t.Error("expected error for zero per-day rate")
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accrual_state.json")
	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	l := New(store, testRule)

	now := time.Now()
	anchor := now.Add(-3 * 24 * time.Hour)
	if err := store.SetLastRealizedAt("w", anchor); err != nil {
		t.Fatalf("set state: %v", err)
	}
	ent, _ := l.Entitlement("w", now, 240_000_000_000, 9)
	if err := l.Realize(ent, 3.5); err != nil {
		t.Fatalf("realize: %v", err)
	}
	before, _ := l.Entitlement("w", now, 240_000_000_000, 9)

	// Re-open from disk, as if after a restart: the remaining entitlement
	// must be identical.
	store2, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	l2 := New(store2, testRule)
	after, err := l2.Entitlement("w", now, 240_000_000_000, 9)
	if err != nil {
		t.Fatalf("entitlement after reopen: %v", err)
	}
	if after.USD != before.USD || after.Days != before.Days {
		t.Errorf("round-trip mismatch: before $%f/%dd, after $%f/%dd",
			before.USD, before.Days, after.USD, after.Days)
	}
}
