package pricefeed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/model"
)

// Source fetches current USD prices from one oracle.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Price, error)
}

// coinGeckoSource reads the simple/price endpoint for every mapped symbol in one call.
type coinGeckoSource struct {
	client  *http.Client
	baseURL string
	ids     map[string]string // symbol -> coingecko id
}

func NewCoinGeckoSource(client *http.Client, baseURL string, ids map[string]string) Source {
	return &coinGeckoSource{client: client, baseURL: strings.TrimRight(baseURL, "/"), ids: ids}
}

func (s *coinGeckoSource) Name() string { return "coingecko" }

func (s *coinGeckoSource) Fetch(ctx context.Context) ([]model.Price, error) {
	if len(s.ids) == 0 {
		return nil, nil
	}

	symbols := make([]string, 0, len(s.ids))
	ids := make([]string, 0, len(s.ids))
	for symbol, id := range s.ids {
		symbols = append(symbols, symbol)
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sort.Strings(symbols)

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")

	body, err := getJSON(ctx, s.client, s.baseURL+"/simple/price?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}

	// A symbol that fails to parse does not discard the others.
	now := time.Now().UTC()
	var (
		prices []model.Price
		errs   []error
	)
	for _, symbol := range symbols {
		result := gjson.GetBytes(body, gjson.Escape(s.ids[symbol])+".usd")
		price, err := parsePrice(result)
		if err != nil {
			errs = append(errs, fmt.Errorf("coingecko %s: %w", symbol, err))
			continue
		}
		prices = append(prices, model.Price{Symbol: symbol, PriceUSD: price, Source: s.Name(), ObservedAt: now})
	}
	return prices, errors.Join(errs...)
}

// jsonPathSource reads one symbol's price from an arbitrary JSON endpoint.
type jsonPathSource struct {
	client *http.Client
	name   string
	url    string
	path   string
	symbol string
}

func NewJSONPathSource(client *http.Client, name, symbol, url, path string) Source {
	return &jsonPathSource{client: client, name: name, url: url, path: path, symbol: symbol}
}

func (s *jsonPathSource) Name() string { return s.name }

func (s *jsonPathSource) Fetch(ctx context.Context) ([]model.Price, error) {
	body, err := getJSON(ctx, s.client, s.url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	price, err := parsePrice(gjson.GetBytes(body, s.path))
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", s.name, s.symbol, err)
	}
	return []model.Price{{Symbol: s.symbol, PriceUSD: price, Source: s.name, ObservedAt: time.Now().UTC()}}, nil
}

// Sources builds the oracles configured for the tracked symbols.
func Sources(cfg config.PriceConfig, client *http.Client) []Source {
	tracked := make(map[string]bool, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		tracked[strings.ToUpper(s)] = true
	}

	ids := map[string]string{}
	for symbol, id := range cfg.CoinGeckoIDs {
		if tracked[symbol] {
			ids[symbol] = id
		}
	}

	var sources []Source
	if len(ids) > 0 {
		sources = append(sources, NewCoinGeckoSource(client, cfg.CoinGeckoBaseURL, ids))
	}
	if tracked["HKT"] && cfg.HKTSourceURL != "" {
		sources = append(sources, NewJSONPathSource(client, "hkt-oracle", "HKT", cfg.HKTSourceURL, cfg.HKTSourcePath))
	}
	return sources
}

func parsePrice(result gjson.Result) (decimal.Decimal, error) {
	if !result.Exists() {
		return decimal.Zero, fmt.Errorf("price missing from response")
	}
	// Raw keeps full precision for numbers; Str is set for quoted prices.
	raw := result.Raw
	if result.Type == gjson.String {
		raw = result.Str
	}
	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing price %q: %w", raw, err)
	}
	if price.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price %s", price)
	}
	return price, nil
}

func getJSON(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid json response")
	}
	return body, nil
}
