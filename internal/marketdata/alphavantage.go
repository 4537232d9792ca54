package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultAlphaVantageURL = "https://www.alphavantage.co/query"
	defaultRequestTimeout  = 10 * time.Second
)

// APIError represents an upstream API error with status code and response body.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

// AlphaVantageClient retrieves quotes from the Alpha Vantage GLOBAL_QUOTE
// endpoint. The free tier carries no options or implied-volatility data, so
// GetOptionChain synthesizes a chain around the live quote and
// GetImpliedVolatility returns the documented default.
type AlphaVantageClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  *logrus.Logger
	now     func() time.Time
}

// Ensure AlphaVantageClient implements Provider at compile time.
var _ Provider = (*AlphaVantageClient)(nil)

// NewAlphaVantageClient creates a client with default timeout and endpoint.
func NewAlphaVantageClient(apiKey string, logger *logrus.Logger) *AlphaVantageClient {
	return NewAlphaVantageClientWithBaseURL(apiKey, defaultAlphaVantageURL, logger)
}

// NewAlphaVantageClientWithBaseURL creates a client against a custom
// endpoint, used by tests to point at an httptest server.
func NewAlphaVantageClientWithBaseURL(apiKey, baseURL string, logger *logrus.Logger) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = defaultAlphaVantageURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &AlphaVantageClient{
		client:  &http.Client{Timeout: defaultRequestTimeout},
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
		now:     time.Now,
	}
}

// globalQuoteResponse mirrors Alpha Vantage's numbered-key GLOBAL_QUOTE payload.
type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PreviousClose string `json:"08. previous close"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

// GetQuote retrieves the current quote for a symbol.
func (c *AlphaVantageClient) GetQuote(symbol string) (*Quote, error) {
	return c.GetQuoteCtx(context.Background(), symbol)
}

// GetQuoteCtx retrieves the current quote with context support.
func (c *AlphaVantageClient) GetQuoteCtx(ctx context.Context, symbol string) (*Quote, error) {
	symbol = strings.ToUpper(symbol)
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)
	params.Set("apikey", c.apiKey)

	var response globalQuoteResponse
	if err := c.makeRequestCtx(ctx, c.baseURL+"?"+params.Encode(), &response); err != nil {
		return nil, err
	}

	q := response.GlobalQuote
	if q.Symbol == "" || q.Price == "" {
		return nil, fmt.Errorf("no quote found for symbol: %s", symbol)
	}

	price, err := strconv.ParseFloat(q.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing quote price %q: %w", q.Price, err)
	}
	change, _ := strconv.ParseFloat(q.Change, 64)
	prevClose, _ := strconv.ParseFloat(q.PreviousClose, 64)
	volume, _ := strconv.ParseInt(q.Volume, 10, 64)
	changePct, _ := strconv.ParseFloat(strings.TrimSuffix(q.ChangePercent, "%"), 64)

	return &Quote{
		Symbol:        q.Symbol,
		Price:         price,
		Change:        change,
		ChangePercent: changePct,
		PreviousClose: prevClose,
		Volume:        volume,
	}, nil
}

// GetImpliedVolatility returns the default base volatility; Alpha Vantage
// has no IV endpoint on the free tier.
func (c *AlphaVantageClient) GetImpliedVolatility(symbol string) (float64, error) {
	return DefaultImpliedVolatility, nil
}

// GetOptionChain synthesizes a chain around the live quote.
func (c *AlphaVantageClient) GetOptionChain(symbol string) (*Chain, error) {
	quote, err := c.GetQuote(symbol)
	if err != nil {
		return nil, err
	}
	return GenerateChain(quote.Symbol, quote.Price, c.now()), nil
}

func (c *AlphaVantageClient) makeRequestCtx(ctx context.Context, endpoint string, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Add("Accept", "application/json")
	req.Header.Add("User-Agent", "optionsanalyzer/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)) // 64KB cap
		if readErr != nil {
			return &APIError{Status: resp.StatusCode, Body: "failed to read error body"}
		}
		return &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(response); err != nil && err != io.EOF {
		return err
	}
	return nil
}
