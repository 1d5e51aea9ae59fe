package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Balances reads token account balances from the chain. A single call is one
// point-in-time snapshot; no caching, no transactional isolation.
type Balances interface {
	// TokenAccountBalance returns the account's balance in smallest units
	// together with the mint's decimal precision.
	TokenAccountBalance(ctx context.Context, account string) (int64, int, error)
}

// RPCClient implements Balances over Solana JSON-RPC.
type RPCClient struct {
	Endpoint string
	Client   *http.Client
}

// NewRPCClient creates a client with optional proxy support.
func NewRPCClient(endpoint, proxyURL string) *RPCClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RPCClient{
		Endpoint: endpoint,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// rpcResponse is the getTokenAccountBalance response envelope.
type rpcResponse struct {
	Result *struct {
		Value struct {
			Amount   string `json:"amount"`
			Decimals int    `json:"decimals"`
		} `json:"value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *RPCClient) TokenAccountBalance(ctx context.Context, account string) (int64, int, error) {
	payload := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getTokenAccountBalance",
		"params":  []string{account},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, 0, fmt.Errorf("marshal rpc payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("rpc fetch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("rpc read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("rpc: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var rr rpcResponse
	if err := json.Unmarshal(respBody, &rr); err != nil {
		return 0, 0, fmt.Errorf("rpc decode: %w", err)
	}
	if rr.Error != nil {
		return 0, 0, fmt.Errorf("rpc error %d: %s", rr.Error.Code, rr.Error.Message)
	}
	if rr.Result == nil {
		return 0, 0, fmt.Errorf("rpc: empty result")
	}

	amount, err := strconv.ParseInt(rr.Result.Value.Amount, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("rpc: non-numeric amount %q", rr.Result.Value.Amount)
	}
	return amount, rr.Result.Value.Decimals, nil
}
