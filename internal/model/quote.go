package model

import "time"

// Quote is a point-in-time exchange rate between the staked asset and the
// reference stable asset. Ephemeral; never persisted.
type Quote struct {
	InputUnits     int64 // staked asset, smallest units (lamports)
	OutputUnits    int64 // reference stable asset, smallest units
	OutputDecimals int
	FetchedAt      time.Time
}
