package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/backtest"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/collector"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/insights"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/model"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/report"
	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/scoring"
)

type scoreResponse struct {
	model.CompositeResult
	Insights map[string]string `json:"insights"`
}

type lookupResponse struct {
	Query  string `json:"query"`
	Symbol string `json:"symbol"`
}

type regimeResponse struct {
	Market model.MarketRegime `json:"market"`
	Macro  *model.MacroRegime `json:"macro,omitempty"`
}

func tickerParam(r *http.Request) string {
	return collector.NormalizeTicker(chi.URLParam(r, "ticker"))
}

func liveParam(r *http.Request) bool {
	switch r.URL.Query().Get("live") {
	case "1", "true", "yes":
		return true
	}
	return false
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// score answers with the scoring error payload itself on failure.
func (s *Server) score(w http.ResponseWriter, r *http.Request, ticker string, live bool) (model.CompositeResult, bool) {
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return model.CompositeResult{}, false
	}
	res, err := s.scorer.Score(r.Context(), ticker, live)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, scoring.ErrNoPriceData) || errors.Is(err, collector.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("score failed")
		s.writeJSON(w, status, scoring.ErrorPayload(err))
		return model.CompositeResult{}, false
	}
	return res, true
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	res, ok := s.score(w, r, tickerParam(r), liveParam(r))
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, scoreResponse{CompositeResult: res, Insights: insights.Insights(res)})
}

func (s *Server) sectorFor(w http.ResponseWriter, r *http.Request, ticker string) (string, bool) {
	if sector := r.URL.Query().Get("sector"); sector != "" {
		return sector, true
	}
	res, ok := s.score(w, r, ticker, false)
	if !ok {
		return "", false
	}
	return res.Sector, true
}

func (s *Server) handlePeers(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	sector, ok := s.sectorFor(w, r, ticker)
	if !ok {
		return
	}
	rows := s.peers.Comparison(r.Context(), ticker, sector, liveParam(r))
	s.writeJSON(w, http.StatusOK, map[string]any{
		"ticker": ticker,
		"sector": sector,
		"peers":  rows,
	})
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	res, err := backtest.Run(r.Context(), s.provider, ticker)
	if err != nil {
		if errors.Is(err, backtest.ErrInsufficientData) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeError(w, http.StatusBadGateway, fmt.Sprintf("backtest %s: %v", ticker, err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"result":  res,
		"metrics": res.Metrics(),
	})
}

func (s *Server) handleRegime(w http.ResponseWriter, r *http.Request) {
	ticker := tickerParam(r)
	market, err := insights.MarketRegime(r.Context(), s.provider, ticker)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	resp := regimeResponse{Market: market}
	macro, ok, err := s.store.LatestRegime(r.Context())
	if err != nil {
		s.log.Warn().Err(err).Msg("load macro regime")
	} else if ok {
		resp.Macro = &macro
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePulse(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, insights.GlobalPulse(r.Context(), s.provider, s.log))
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	sym, err := s.provider.Lookup(r.Context(), q)
	if err != nil {
		if errors.Is(err, collector.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, fmt.Sprintf("no ticker found for %q", q))
			return
		}
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, lookupResponse{Query: q, Symbol: collector.NormalizeTicker(sym)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	ext := strings.ToLower(path.Ext(file))
	ticker := collector.NormalizeTicker(strings.TrimSuffix(file, path.Ext(file)))

	if ext != ".csv" && ext != ".pdf" {
		s.writeError(w, http.StatusNotFound, "export format must be .csv or .pdf")
		return
	}
	res, ok := s.score(w, r, ticker, liveParam(r))
	if !ok {
		return
	}

	var buf bytes.Buffer
	var contentType string
	switch ext {
	case ".csv":
		contentType = "text/csv"
		if err := report.WriteCSV(&buf, res); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	case ".pdf":
		contentType = "application/pdf"
		in := report.PDFInput{
			Result:   res,
			Peers:    s.peers.Comparison(r.Context(), ticker, res.Sector, false),
			Insights: insights.Insights(res),
			Now:      s.now(),
		}
		if err := report.WritePDF(&buf, in); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Ticker+"_report"+ext))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Error().Err(err).Msg("write export")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, model.ErrorResult{Error: message})
}
