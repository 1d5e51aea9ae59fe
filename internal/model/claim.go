package model

// ClaimKind indicates which flow produced a claim.
type ClaimKind string

const (
	ClaimInvest ClaimKind = "INVEST"
	ClaimVIP    ClaimKind = "VIP"
)

// ClaimSplit divides an approved payout between claimant and fee recipient.
// Invariant: UserUnits + FeeUnits == total and FeeUnits == total/3 (floor).
type ClaimSplit struct {
	UserUnits int64
	FeeUnits  int64
}

// Total returns the combined payout in reserve-asset smallest units.
func (s ClaimSplit) Total() int64 { return s.UserUnits + s.FeeUnits }

// StakeAndMintParams are the instruction parameters for the on-chain
// stakeAndMint call. The engine computes them; it never submits them.
type StakeAndMintParams struct {
	StakedUnits int64
	MintUnits   int64
}

// ClaimSplitParams are the instruction parameters for the on-chain claimSplit
// call, paid from the shared reserve vault.
type ClaimSplitParams struct {
	UserUnits    int64
	FeeUnits     int64
	FeeRecipient string
}
