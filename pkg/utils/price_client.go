package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

// PairQuoteResponse represents the response structure from the quote API
type PairQuoteResponse struct {
	Pair      string  `json:"pair"`
	Price     float64 `json:"price"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// PairQuote is what callers consume: the live price and the day's high.
type PairQuote struct {
	Price   float64
	DayHigh float64
}

// pair price cache (in-memory)
type pairPriceCacheEntry struct {
	quote     PairQuote
	updatedAt time.Time
}

var (
	pairPriceCache   = make(map[string]pairPriceCacheEntry)
	pairPriceCacheMu sync.RWMutex
)

// GetPairQuote retrieves the latest price and day high for a trading pair
// from the quote API. Returns: quote, useCached, error.
// 接口失败时回退到内存缓存；没有缓存则返回错误，绝不编造价格。
func GetPairQuote(pair string) (PairQuote, bool, error) {
	baseURL := os.Getenv("PRICE_API_URL")
	if baseURL == "" {
		baseURL = "https://quote.example-exchange.com/api/v1/ticker"
	}

	params := url.Values{}
	params.Add("pair", pair)
	fullURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	resp, err := http.Get(fullURL)
	if err != nil {
		return cachedPairQuote(pair, fmt.Errorf("failed to make HTTP request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return cachedPairQuote(pair, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode))
	}

	var quoteResponse PairQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quoteResponse); err != nil {
		return cachedPairQuote(pair, fmt.Errorf("failed to decode JSON response: %w", err))
	}

	if quoteResponse.Price <= 0 {
		return cachedPairQuote(pair, fmt.Errorf("quote API returned non-positive price: %f", quoteResponse.Price))
	}

	quote := PairQuote{
		Price:   quoteResponse.Price,
		DayHigh: quoteResponse.DayHigh,
	}
	if quote.DayHigh < quote.Price {
		quote.DayHigh = quote.Price
	}

	// update cache
	pairPriceCacheMu.Lock()
	pairPriceCache[pair] = pairPriceCacheEntry{
		quote:     quote,
		updatedAt: time.Now(),
	}
	pairPriceCacheMu.Unlock()

	return quote, false, nil
}

// cachedPairQuote falls back to the cached quote if available
func cachedPairQuote(pair string, cause error) (PairQuote, bool, error) {
	pairPriceCacheMu.RLock()
	entry, ok := pairPriceCache[pair]
	pairPriceCacheMu.RUnlock()
	if ok {
		return entry.quote, true, nil
	}
	return PairQuote{}, false, fmt.Errorf("failed to get quote and no cached price: %w", cause)
}
