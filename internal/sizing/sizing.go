package sizing

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnderflow means the computed mint amount rounded to zero. Not retryable
// without a larger stake.
var ErrUnderflow = errors.New("sizing underflow")

// ErrOverflow means the scaled mint amount does not fit in an int64. A wrapped
// amount must never reach an instruction, so this is rejected outright.
var ErrOverflow = errors.New("sizing overflow")

// maxDecimalSpread bounds 10^n to what int64 can hold.
const maxDecimalSpread = 18

// MintUnits converts a quote's stable-asset output into destination-token
// smallest units, targeting 1 destination token per 1 USD of quoted value:
//
//	tokenDecimals >= outputDecimals: outputUnits * 10^(tokenDecimals-outputDecimals)
//	tokenDecimals <  outputDecimals: outputUnits / 10^(outputDecimals-tokenDecimals), floored
//
// The asymmetry is deliberate: scaling up is exact, scaling down truncates.
func MintUnits(outputUnits int64, outputDecimals, tokenDecimals int) (int64, error) {
	if outputDecimals < 0 || tokenDecimals < 0 {
		return 0, fmt.Errorf("negative decimals (%d, %d)", outputDecimals, tokenDecimals)
	}
	if outputUnits <= 0 {
		return 0, fmt.Errorf("%w: non-positive quote output %d", ErrUnderflow, outputUnits)
	}

	var mintUnits int64
	if tokenDecimals >= outputDecimals {
		diff := tokenDecimals - outputDecimals
		if diff > maxDecimalSpread {
			return 0, fmt.Errorf("%w: decimal spread %d", ErrOverflow, diff)
		}
		factor := pow10(diff)
		if outputUnits > math.MaxInt64/factor {
			return 0, fmt.Errorf("%w: %d output units scaled by 10^%d", ErrOverflow, outputUnits, diff)
		}
		mintUnits = outputUnits * factor
	} else {
		diff := outputDecimals - tokenDecimals
		if diff > maxDecimalSpread {
			return 0, fmt.Errorf("%w: %d output units round to zero at %d decimals", ErrUnderflow, outputUnits, tokenDecimals)
		}
		mintUnits = outputUnits / pow10(diff)
	}
	if mintUnits <= 0 {
		return 0, fmt.Errorf("%w: %d output units round to zero at %d decimals", ErrUnderflow, outputUnits, tokenDecimals)
	}
	return mintUnits, nil
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
