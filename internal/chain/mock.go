package chain

import "context"

// MockBalances returns controllable fixed balances for development and testing.
// Balances maps account address to smallest-unit amount.
type MockBalances struct {
	Balances map[string]int64
	Decimals int
	Err      error
}

func (m *MockBalances) TokenAccountBalance(_ context.Context, account string) (int64, int, error) {
	if m.Err != nil {
		return 0, 0, m.Err
	}
	return m.Balances[account], m.Decimals, nil
}
