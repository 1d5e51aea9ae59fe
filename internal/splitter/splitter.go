package splitter

import (
	"fmt"

	"StakeSentinel/internal/model"
)

// Split divides a payout between claimant and fee recipient: one third
// (floored) to the fee recipient, the remainder to the claimant.
// Deterministic; the only invalid input is a negative total.
func Split(totalUnits int64) (model.ClaimSplit, error) {
	if totalUnits < 0 {
		return model.ClaimSplit{}, fmt.Errorf("negative payout %d", totalUnits)
	}
	fee := totalUnits / 3
	return model.ClaimSplit{
		UserUnits: totalUnits - fee,
		FeeUnits:  fee,
	}, nil
}
