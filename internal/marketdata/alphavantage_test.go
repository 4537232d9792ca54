package marketdata

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
)

const globalQuotePayload = `{
  "Global Quote": {
    "01. symbol": "AAPL",
    "02. open": "184.35",
    "03. high": "186.40",
    "04. low": "183.92",
    "05. price": "185.50",
    "06. volume": "54321000",
    "07. latest trading day": "2024-03-01",
    "08. previous close": "184.10",
    "09. change": "1.40",
    "10. change percent": "0.7605%"
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAlphaVantageClientWithBaseURL("testkey", server.URL, logger)
}

func TestGetQuote(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(globalQuotePayload))
	})

	quote, err := client.GetQuote("aapl")
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}

	if quote.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", quote.Symbol)
	}
	if quote.Price != 185.50 {
		t.Errorf("Price = %v, want 185.50", quote.Price)
	}
	if quote.Change != 1.40 {
		t.Errorf("Change = %v, want 1.40", quote.Change)
	}
	if quote.ChangePercent != 0.7605 {
		t.Errorf("ChangePercent = %v, want 0.7605", quote.ChangePercent)
	}
	if quote.PreviousClose != 184.10 {
		t.Errorf("PreviousClose = %v, want 184.10", quote.PreviousClose)
	}
	if quote.Volume != 54321000 {
		t.Errorf("Volume = %v, want 54321000", quote.Volume)
	}

	// The symbol is uppercased before hitting the API.
	req, err := http.NewRequest(http.MethodGet, "/?"+gotQuery, http.NoBody)
	if err != nil {
		t.Fatalf("parsing recorded query: %v", err)
	}
	q := req.URL.Query()
	if q.Get("function") != "GLOBAL_QUOTE" {
		t.Errorf("function = %q, want GLOBAL_QUOTE", q.Get("function"))
	}
	if q.Get("symbol") != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", q.Get("symbol"))
	}
	if q.Get("apikey") != "testkey" {
		t.Errorf("apikey = %q, want testkey", q.Get("apikey"))
	}
}

func TestGetQuote_EmptyResponse(t *testing.T) {
	// Alpha Vantage returns an empty Global Quote object for unknown symbols.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Global Quote": {}}`))
	})

	if _, err := client.GetQuote("NOPE"); err == nil {
		t.Fatal("expected error for empty quote payload")
	}
}

func TestGetQuote_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := client.GetQuote("AAPL")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d, want 429", apiErr.Status)
	}
}

func TestGetQuote_BadPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "not-a-number"}}`))
	})

	if _, err := client.GetQuote("AAPL"); err == nil {
		t.Fatal("expected error for unparseable price")
	}
}

func TestGetImpliedVolatility_Default(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("implied volatility lookup must not hit the network")
	})

	iv, err := client.GetImpliedVolatility("AAPL")
	if err != nil {
		t.Fatalf("GetImpliedVolatility: %v", err)
	}
	if iv != DefaultImpliedVolatility {
		t.Errorf("iv = %v, want %v", iv, DefaultImpliedVolatility)
	}
}

func TestGetOptionChain_SynthesizesAroundQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(globalQuotePayload))
	})

	chain, err := client.GetOptionChain("AAPL")
	if err != nil {
		t.Fatalf("GetOptionChain: %v", err)
	}
	if chain.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", chain.Symbol)
	}
	if chain.CurrentPrice != 185.50 {
		t.Errorf("CurrentPrice = %v, want 185.50", chain.CurrentPrice)
	}
	if len(chain.Strikes) == 0 {
		t.Error("chain has no strikes")
	}
}
