package server

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"optionsanalyzer/internal/analysis"
	"optionsanalyzer/internal/marketdata"
	"optionsanalyzer/internal/models"
	"optionsanalyzer/internal/storage"
	"optionsanalyzer/internal/util"
)

// legRequest is the wire form of one leg.
type legRequest struct {
	Type           string  `json:"type"`
	Action         string  `json:"action"`
	Strike         float64 `json:"strike"`
	Premium        float64 `json:"premium"`
	Quantity       int     `json:"quantity"`
	Volatility     float64 `json:"volatility,omitempty"`
	ExpirationDays int     `json:"expiration_days,omitempty"`
}

func (lr legRequest) toLeg() (models.Leg, error) {
	leg, err := models.NewLeg(models.OptionType(lr.Type), models.Action(lr.Action), lr.Strike, lr.Premium, lr.Quantity)
	if err != nil {
		return models.Leg{}, err
	}
	if lr.Volatility > 0 {
		leg = leg.WithVolatility(lr.Volatility)
	}
	if lr.ExpirationDays > 0 {
		leg = leg.WithExpirationDays(lr.ExpirationDays)
	}
	return leg, nil
}

func buildPosition(ticker, name string, legReqs []legRequest) (models.Position, error) {
	legs := make([]models.Leg, 0, len(legReqs))
	for _, lr := range legReqs {
		leg, err := lr.toLeg()
		if err != nil {
			return models.Position{}, err
		}
		legs = append(legs, leg)
	}
	return models.NewPosition(ticker, name, legs)
}

// resolveSpot uses the explicit spot price when the caller supplied one,
// otherwise asks the market data provider.
func (s *Server) resolveSpot(ticker string, spot float64) (float64, error) {
	if spot > 0 {
		return spot, nil
	}
	quote, err := s.provider.GetQuote(ticker)
	if err != nil {
		return 0, err
	}
	return quote.Price, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps the core's error taxonomy onto HTTP statuses: invalid
// legs and sweep parameters are the caller's fault, everything else is
// upstream or internal.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var validationErr *models.ValidationError
	var configErr *analysis.ConfigurationError
	switch {
	case errors.As(err, &validationErr), errors.As(err, &configErr):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, storage.ErrStrategyNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.logger.WithError(err).Error("Request failed")
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	quote, err := s.provider.GetQuoteCtx(r.Context(), symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) handleGetChain(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	chain, err := s.provider.GetOptionChain(symbol)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, chain)
}

type analyzeRequest struct {
	Ticker    string       `json:"ticker"`
	Name      string       `json:"name,omitempty"`
	Legs      []legRequest `json:"legs"`
	SpotPrice float64      `json:"spot_price,omitempty"`
}

// analyzeResponse overrides the risk/reward field for serialization. A
// position that cannot lose carries the +Inf sentinel, which has no JSON
// encoding; the wire form for an undefined ratio is null.
type analyzeResponse struct {
	*analysis.AnalysisResult
	RiskRewardRatio *float64 `json:"risk_reward_ratio"`
}

func newAnalyzeResponse(result *analysis.AnalysisResult) analyzeResponse {
	resp := analyzeResponse{AnalysisResult: result}
	if !math.IsInf(result.RiskRewardRatio, 0) {
		resp.RiskRewardRatio = &result.RiskRewardRatio
	}
	return resp
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pos, err := buildPosition(req.Ticker, req.Name, req.Legs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spot, err := s.resolveSpot(req.Ticker, req.SpotPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := analysis.Analyze(r.Context(), pos, spot, s.analysis, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newAnalyzeResponse(result))
}

type probabilityRequest struct {
	Ticker      string       `json:"ticker"`
	Legs        []legRequest `json:"legs"`
	SpotPrice   float64      `json:"spot_price,omitempty"`
	SampleCount int          `json:"sample_count,omitempty"`
}

func (s *Server) handleProbability(w http.ResponseWriter, r *http.Request) {
	var req probabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pos, err := buildPosition(req.Ticker, "", req.Legs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spot, err := s.resolveSpot(req.Ticker, req.SpotPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}
	samples := req.SampleCount
	if samples == 0 {
		samples = s.analysis.SampleCount
	}

	detail, err := analysis.NewDefaultSampler().EstimateWithDetail(pos, spot, samples)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

type scenarioRequest struct {
	Ticker                 string       `json:"ticker"`
	Legs                   []legRequest `json:"legs"`
	SpotPrice              float64      `json:"spot_price,omitempty"`
	BaseVolatility         float64      `json:"base_volatility,omitempty"`
	PriceShockPercent      float64      `json:"price_shock_percent"`
	VolatilityShockPercent float64      `json:"volatility_shock_percent"`
	DaysToExpiry           int          `json:"days_to_expiry"`
}

type scenarioResponse struct {
	analysis.ScenarioResult
	Recommendations []models.Recommendation `json:"recommendations"`
}

func (s *Server) handleScenario(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pos, err := buildPosition(req.Ticker, "", req.Legs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spot, err := s.resolveSpot(req.Ticker, req.SpotPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}

	baseVol := req.BaseVolatility
	if baseVol <= 0 {
		if baseVol, err = s.provider.GetImpliedVolatility(req.Ticker); err != nil {
			baseVol = marketdata.DefaultImpliedVolatility
		}
	}

	result, err := analysis.SimulateScenario(pos, spot, baseVol, analysis.ScenarioParams{
		PriceShockPercent:      req.PriceShockPercent,
		VolatilityShockPercent: req.VolatilityShockPercent,
		DaysToExpiry:           req.DaysToExpiry,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	result.CurrentPnL = util.RoundCents(result.CurrentPnL)
	result.ScenarioPnL = util.RoundCents(result.ScenarioPnL)
	result.PnLChange = util.RoundCents(result.PnLChange)

	s.writeJSON(w, http.StatusOK, scenarioResponse{
		ScenarioResult:  result,
		Recommendations: analysis.GenerateAdjustmentRecommendations(pos, result.CurrentPnL),
	})
}

type recommendationsRequest struct {
	Ticker    string       `json:"ticker"`
	Legs      []legRequest `json:"legs"`
	SpotPrice float64      `json:"spot_price,omitempty"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pos, err := buildPosition(req.Ticker, "", req.Legs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spot, err := s.resolveSpot(req.Ticker, req.SpotPrice)
	if err != nil {
		s.writeError(w, err)
		return
	}

	pnl := analysis.PositionPnLAt(pos, spot)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"current_pnl":     util.RoundCents(pnl),
		"recommendations": analysis.GenerateAdjustmentRecommendations(pos, pnl),
	})
}

type strategyRequest struct {
	Name         string       `json:"name"`
	Ticker       string       `json:"ticker"`
	Legs         []legRequest `json:"legs"`
	Notes        string       `json:"notes,omitempty"`
	EntryPrice   float64      `json:"entry_price,omitempty"`
	TargetProfit float64      `json:"target_profit,omitempty"`
	StopLoss     float64      `json:"stop_loss,omitempty"`
}

func (s *Server) handleCreateStrategy(w http.ResponseWriter, r *http.Request) {
	var req strategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	pos, err := buildPosition(req.Ticker, req.Name, req.Legs)
	if err != nil {
		s.writeError(w, err)
		return
	}

	stored, err := s.storage.CreateStrategy(storage.Strategy{
		Position:     pos,
		Notes:        req.Notes,
		EntryPrice:   req.EntryPrice,
		TargetProfit: req.TargetProfit,
		StopLoss:     req.StopLoss,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, stored)
}

func (s *Server) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	s.writeJSON(w, http.StatusOK, s.storage.ListStrategies(status))
}

func (s *Server) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := s.storage.GetStrategy(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategy)
}

func (s *Server) handleUpdateStrategy(w http.ResponseWriter, r *http.Request) {
	var update storage.StrategyUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	strategy, err := s.storage.UpdateStrategy(chi.URLParam(r, "id"), update)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, strategy)
}

func (s *Server) handleDeleteStrategy(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.DeleteStrategy(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "strategy deleted"})
}

func (s *Server) handleRollStrategy(w http.ResponseWriter, r *http.Request) {
	strategy, err := s.storage.GetStrategy(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"strategy_id":      strategy.ID,
		"ticker":           strategy.Position.Ticker,
		"roll_suggestions": analysis.GenerateRollSuggestions(strategy.Position),
		"next_expirations": marketdata.NextExpirations(time.Now().UTC(), 3),
	})
}
