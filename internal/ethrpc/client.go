// Package ethrpc is a minimal Ethereum JSON-RPC client for balance lookups.
package ethrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

var ErrRPC = errors.New("json-rpc error")

// Every supported chain's native token uses 18 decimals.
const nativeDecimals = 18

type Balance struct {
	Wei    *big.Int
	Native decimal.Decimal
}

type Client struct {
	http   *http.Client
	nextID atomic.Int64
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{http: httpClient}
}

// GetBalance calls eth_getBalance for address at the latest block.
func (c *Client) GetBalance(ctx context.Context, rpcURL, address string) (Balance, error) {
	result, err := c.call(ctx, rpcURL, "eth_getBalance", address, "latest")
	if err != nil {
		return Balance{}, err
	}

	hex := strings.TrimPrefix(result.String(), "0x")
	if hex == "" {
		hex = "0"
	}
	wei, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return Balance{}, fmt.Errorf("eth_getBalance: invalid quantity %q", result.String())
	}

	return Balance{
		Wei:    wei,
		Native: decimal.NewFromBigInt(wei, -nativeDecimals),
	}, nil
}

func (c *Client) call(ctx context.Context, rpcURL, method string, params ...any) (gjson.Result, error) {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      c.nextID.Add(1),
		"method":  method,
		"params":  params,
	})
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: encoding request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(payload))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: building request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%s: reading response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s: invalid json response", method)
	}

	parsed := gjson.ParseBytes(body)
	if rpcErr := parsed.Get("error"); rpcErr.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: %w: %d %s", method, ErrRPC, rpcErr.Get("code").Int(), rpcErr.Get("message").String())
	}
	result := parsed.Get("result")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%s: missing result", method)
	}
	return result, nil
}
