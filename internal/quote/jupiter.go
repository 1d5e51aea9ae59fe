package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"StakeSentinel/internal/model"
)

// JupiterFetcher implements Fetcher against a Jupiter-style quote API.
// One outbound query per call, no retry logic.
type JupiterFetcher struct {
	BaseURL        string
	InputMint      string
	OutputMint     string
	SlippageBps    int
	OutputDecimals int
	Client         *http.Client
}

// NewJupiterFetcher creates a fetcher with optional proxy support.
func NewJupiterFetcher(baseURL, inputMint, outputMint string, slippageBps, outputDecimals int, proxyURL string) *JupiterFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &JupiterFetcher{
		BaseURL:        baseURL,
		InputMint:      inputMint,
		OutputMint:     outputMint,
		SlippageBps:    slippageBps,
		OutputDecimals: outputDecimals,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *JupiterFetcher) Name() string { return "jupiter" }

// quoteResponse is the subset of the quote API response we consume.
// outAmount is a string-encoded integer in the output asset's smallest units.
type quoteResponse struct {
	OutAmount string `json:"outAmount"`
}

func (f *JupiterFetcher) Quote(ctx context.Context, inputUnits int64) (*model.Quote, error) {
	if inputUnits <= 0 {
		return nil, fmt.Errorf("%w: non-positive input %d", ErrUnavailable, inputUnits)
	}

	q := url.Values{}
	q.Set("inputMint", f.InputMint)
	q.Set("outputMint", f.OutputMint)
	q.Set("amount", strconv.FormatInt(inputUnits, 10))
	q.Set("slippageBps", strconv.Itoa(f.SlippageBps))
	u := fmt.Sprintf("%s/quote?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var qr quoteResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	if qr.OutAmount == "" {
		return nil, fmt.Errorf("%w: missing outAmount", ErrUnavailable)
	}
	out, err := strconv.ParseInt(qr.OutAmount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: non-numeric outAmount %q", ErrUnavailable, qr.OutAmount)
	}
	if out <= 0 {
		return nil, fmt.Errorf("%w: non-positive outAmount %d", ErrUnavailable, out)
	}

	return &model.Quote{
		InputUnits:     inputUnits,
		OutputUnits:    out,
		OutputDecimals: f.OutputDecimals,
		FetchedAt:      time.Now(),
	}, nil
}
