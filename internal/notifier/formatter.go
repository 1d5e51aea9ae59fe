package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"StakeSentinel/internal/ledger"
	"StakeSentinel/internal/model"
)

func shortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// FormatEntitlementReport formats the daily accrual report for the watched
// wallets. Wallets are listed alphabetically so consecutive reports line up.
func FormatEntitlementReport(tokenMint string, entries map[string]*ledger.Entitlement) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>StakeSentinel daily report</b> | %s\n", time.Now().Format("2006-01-02")))
	if tokenMint != "" {
		b.WriteString(fmt.Sprintf("Token: %s\n", shortAddr(tokenMint)))
	}
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString("No wallets on the watch list.\n")
		return b.String()
	}

	wallets := make([]string, 0, len(entries))
	for wallet := range entries {
		wallets = append(wallets, wallet)
	}
	sort.Strings(wallets)

	for _, wallet := range wallets {
		ent := entries[wallet]
		b.WriteString(fmt.Sprintf("👛 %s\n", shortAddr(wallet)))
		if ent == nil {
			b.WriteString("  balance read failed\n")
			continue
		}
		b.WriteString(fmt.Sprintf("  accrued: $%.4f (%d day(s) × $%.4f/day)\n",
			ent.USD, ent.Days, ent.PerDayUSD))
		b.WriteString(fmt.Sprintf("  last realized: %s\n", ent.LastRealizedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}

// FormatReserveStatus formats the reserve vault balance for display.
func FormatReserveStatus(balanceUnits int64, balanceUSD float64, low bool) string {
	var b strings.Builder
	b.WriteString("📦 <b>Reserve vault</b>\n\n")
	b.WriteString(fmt.Sprintf("Balance: $%.2f (%d units)\n", balanceUSD, balanceUnits))
	if low {
		b.WriteString("\n⚠️ Reserve below the configured watermark — claims may be capped or refused.")
	}
	return b.String()
}

// FormatStakeReceipt formats a sized stake: what was quoted and what will be minted.
func FormatStakeReceipt(q *model.Quote, params *model.StakeAndMintParams, tokenDecimals int) string {
	quoteUSD := float64(q.OutputUnits) / model.Pow10(q.OutputDecimals)
	minted := float64(params.MintUnits) / model.Pow10(tokenDecimals)
	return fmt.Sprintf("🪙 <b>Stake sized</b>\n\nStaked: %d lamports\nQuoted: ~$%.4f\nMint: %.4f tokens (%d units)",
		params.StakedUnits, quoteUSD, minted, params.MintUnits)
}

// FormatClaimReceipt formats a prepared claim split.
func FormatClaimReceipt(wallet string, kind model.ClaimKind, usd float64, params *model.ClaimSplitParams) string {
	return fmt.Sprintf("💸 <b>%s claim prepared</b>\n\nWallet: %s\nAmount: $%.4f\nUser: %d units\nFee: %d units → %s",
		kind, shortAddr(wallet), usd, params.UserUnits, params.FeeUnits, shortAddr(params.FeeRecipient))
}

// FormatTierMenu formats the loaded VIP tier list.
func FormatTierMenu(r *model.Rules) string {
	var b strings.Builder
	b.WriteString("🎟 <b>VIP tiers</b>\n\n")
	b.WriteString(fmt.Sprintf("Accrual rule: %g tokens = $1/day\n", r.Rule.TokensPerUSDPerDay))
	b.WriteString(fmt.Sprintf("Default fee recipient: %s\n", shortAddr(r.Rule.DefaultFeeRecipient)))
	if len(r.Tiers) == 0 {
		b.WriteString("\nNo tiers loaded.")
		return b.String()
	}
	for _, t := range r.Tiers {
		b.WriteString(fmt.Sprintf("\n%s:", shortAddr(t.Wallet)))
		for _, a := range t.Amounts {
			b.WriteString(fmt.Sprintf(" $%g", a))
		}
		if t.FeeRecipient != "" {
			b.WriteString(fmt.Sprintf(" (fee → %s)", shortAddr(t.FeeRecipient)))
		}
	}
	return b.String()
}
