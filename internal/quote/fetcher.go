package quote

import (
	"context"
	"errors"

	"StakeSentinel/internal/model"
)

// ErrUnavailable is returned for any network, transport, or malformed-response
// failure. No retries happen inside the adapter; the caller decides.
var ErrUnavailable = errors.New("quote unavailable")

// Fetcher obtains a current exchange rate for a staked amount.
type Fetcher interface {
	// Quote returns how much of the reference stable asset inputUnits of the
	// staked asset is worth right now, at the adapter's fixed slippage.
	Quote(ctx context.Context, inputUnits int64) (*model.Quote, error)
	Name() string
}
