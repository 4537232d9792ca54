package marketdata

import (
	"math"
	"time"

	"optionsanalyzer/internal/util"
)

// Chain generation parameters. Strikes step $5 covering 10 intervals each
// side of spot; implied volatility rises with distance from the money
// (a simple smile).
const (
	strikeInterval   = 5.0
	strikeSpan       = 10
	baseChainIV      = 0.25
	smileSlope       = 0.1
	chainDTE         = 30
	atmBand          = 2.5
	bidFactor        = 0.95
	askFactor        = 1.05
	chainExpirations = 5
)

// ChainStrike is one strike row of an option chain.
type ChainStrike struct {
	Strike       float64 `json:"strike"`
	CallBid      float64 `json:"call_bid"`
	CallAsk      float64 `json:"call_ask"`
	CallVolume   int64   `json:"call_volume"`
	PutBid       float64 `json:"put_bid"`
	PutAsk       float64 `json:"put_ask"`
	PutVolume    int64   `json:"put_volume"`
	IV           float64 `json:"iv"`
	IsAtTheMoney bool    `json:"is_at_the_money"`
}

// Chain is an option chain snapshot around the current underlying price.
type Chain struct {
	Symbol       string        `json:"symbol"`
	CurrentPrice float64       `json:"current_price"`
	Expirations  []string      `json:"expirations"`
	Strikes      []ChainStrike `json:"strikes"`
}

// GenerateChain builds a synthetic but realistic option chain around the
// given spot price: $5 strike increments, an IV smile, and premium proxies
// scaled by volatility and a 30-day time horizon. Used when the upstream
// data source has no options coverage.
func GenerateChain(symbol string, spot float64, now time.Time) *Chain {
	chain := &Chain{
		Symbol:       symbol,
		CurrentPrice: spot,
		Expirations:  NextExpirations(now, chainExpirations),
	}

	baseStrike := math.Round(spot/strikeInterval) * strikeInterval
	timeFactor := math.Sqrt(float64(chainDTE) / 365.0)

	for i := -strikeSpan; i <= strikeSpan; i++ {
		strike := baseStrike + float64(i)*strikeInterval
		if strike <= 0 {
			continue
		}

		distance := math.Abs(strike-spot) / spot
		iv := baseChainIV + distance*smileSlope

		timeValue := spot * iv * timeFactor * 0.4
		callPremium := timeValue * (1 - distance)
		if strike <= spot {
			callPremium = (spot-strike)*0.5 + timeValue
		}
		putPremium := timeValue * (1 - distance)
		if strike >= spot {
			putPremium = (strike-spot)*0.5 + timeValue
		}
		callPremium = math.Max(0.01, callPremium)
		putPremium = math.Max(0.01, putPremium)

		chain.Strikes = append(chain.Strikes, ChainStrike{
			Strike:       strike,
			CallBid:      util.RoundToTick(callPremium*bidFactor, 0.01),
			CallAsk:      util.RoundToTick(callPremium*askFactor, 0.01),
			CallVolume:   int64(10000 * (1 - distance)),
			PutBid:       util.RoundToTick(putPremium*bidFactor, 0.01),
			PutAsk:       util.RoundToTick(putPremium*askFactor, 0.01),
			PutVolume:    int64(8000 * (1 - distance)),
			IV:           util.RoundToTick(iv, 0.0001),
			IsAtTheMoney: math.Abs(strike-spot) < atmBand,
		})
	}
	return chain
}

// NextExpirations returns the next n monthly option expirations (third
// Friday of the month) on or after now, formatted as 2006-01-02.
func NextExpirations(now time.Time, n int) []string {
	dates := make([]string, 0, n)
	year, month := now.Year(), now.Month()
	for len(dates) < n {
		exp := thirdFriday(year, month)
		if !exp.Before(now.Truncate(24 * time.Hour)) {
			dates = append(dates, exp.Format("2006-01-02"))
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}
	return dates
}

func thirdFriday(year int, month time.Month) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != time.Friday {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 14)
}
