package notifier

import (
	"strings"
	"testing"
	"time"

	"StakeSentinel/internal/ledger"
)

func TestFormatEntitlementReport_StableOrder(t *testing.T) {
	entries := map[string]*ledger.Entitlement{
		"zulu":  {Wallet: "zulu", USD: 1, PerDayUSD: 1, Days: 1, LastRealizedAt: time.Now()},
		"alpha": {Wallet: "alpha", USD: 2, PerDayUSD: 2, Days: 1, LastRealizedAt: time.Now()},
		"mike":  nil, // failed balance read
	}

	report := FormatEntitlementReport("MintAddr", entries)
	if !strings.Contains(report, "MintAddr") {
		t.Errorf("expected token mint in header, got %q", report)
	}

	// Wallets appear alphabetically regardless of map iteration order.
	a, m, z := strings.Index(report, "alpha"), strings.Index(report, "mike"), strings.Index(report, "zulu")
	if a < 0 || m < 0 || z < 0 {
		t.Fatalf("expected all wallets in report, got %q", report)
	}
	if !(a < m && m < z) {
		t.Errorf("expected alphabetical wallet order, got positions %d/%d/%d", a, m, z)
	}
	if !strings.Contains(report, "balance read failed") {
		t.Errorf("expected failed-read marker, got %q", report)
	}
}

func TestFormatEntitlementReport_Empty(t *testing.T) {
	report := FormatEntitlementReport("", nil)
	if !strings.Contains(report, "No wallets on the watch list") {
		t.Errorf("expected empty-watch message, got %q", report)
	}
}
