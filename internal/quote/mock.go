package quote

import (
	"context"
	"time"

	"StakeSentinel/internal/model"
)

// MockFetcher returns controllable fixed quotes for development and testing.
type MockFetcher struct {
	OutputUnits    int64
	OutputDecimals int
	Err            error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Quote(_ context.Context, inputUnits int64) (*model.Quote, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &model.Quote{
		InputUnits:     inputUnits,
		OutputUnits:    m.OutputUnits,
		OutputDecimals: m.OutputDecimals,
		FetchedAt:      time.Now(),
	}, nil
}
