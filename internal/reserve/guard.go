package reserve

import (
	"errors"
	"fmt"

	"StakeSentinel/internal/model"
)

var (
	// ErrExhausted means the shared reserve has no remaining capacity.
	ErrExhausted = errors.New("reserve exhausted")
	// ErrInsufficient means the reserve holds less than a fixed requested
	// amount that must be paid in full or not at all.
	ErrInsufficient = errors.New("reserve insufficient")
)

// Cap limits a requested USD payout to the reserve's observed balance.
// Capping is silent; only an empty reserve is an error. The read is a
// point-in-time snapshot and the external program remains the final authority.
func Cap(requestedUSD float64, reserveUnits int64, reserveDecimals int) (float64, error) {
	if requestedUSD < 0 {
		return 0, fmt.Errorf("negative request %f", requestedUSD)
	}
	reserveUSD := float64(reserveUnits) / model.Pow10(reserveDecimals)
	capped := requestedUSD
	if capped > reserveUSD {
		capped = reserveUSD
	}
	if capped <= 0 {
		return 0, ErrExhausted
	}
	return capped, nil
}

// CheckSufficient verifies the reserve can cover a fixed payout in full.
// Used by the VIP path, which pays listed amounts exactly rather than capping.
func CheckSufficient(requestedUnits, reserveUnits int64) error {
	if reserveUnits <= 0 {
		return ErrExhausted
	}
	if reserveUnits < requestedUnits {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficient, reserveUnits, requestedUnits)
	}
	return nil
}
