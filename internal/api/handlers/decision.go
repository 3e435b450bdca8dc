package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/internal/report"
	"github.com/wonny/aegis-wheel/pkg/logger"
	"github.com/wonny/aegis-wheel/pkg/redis"
)

// Report origins (X-Report-Source header)
const (
	SourceCache = "cache"
	SourceFile  = "file"
)

// DecisionHandler serves the stored decision reports (read-only)
// ⭐ SSOT: 리포트 조회 API 핸들러는 이 구조체에서만
type DecisionHandler struct {
	cache      *redis.Cache // nil or disabled → file only
	reportPath string
	logger     *logger.Logger
}

// NewDecisionHandler creates a new decision handler
func NewDecisionHandler(cache *redis.Cache, reportPath string, log *logger.Logger) *DecisionHandler {
	return &DecisionHandler{
		cache:      cache,
		reportPath: reportPath,
		logger:     log,
	}
}

// GetLatest returns the latest report
// GET /api/decision/latest
func (h *DecisionHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	data, source, err := h.latest(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	respondRaw(w, http.StatusOK, data, source)
}

// GetSummary returns section counts of the latest report
// GET /api/decision/latest/summary
func (h *DecisionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latestReport(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"runId":         rep.RunID,
		"generatedAt":   rep.GeneratedAt,
		"portfolioDate": rep.PortfolioDate,
		"summary":       rep.Summarize(),
	})
}

// GetPlan returns the weekly plan of the latest report
// GET /api/decision/latest/plan
func (h *DecisionHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.latestReport(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, rep.WeeklyPlan)
}

// GetByDate returns the report archived for a portfolio date
// GET /api/decision/{date}
func (h *DecisionHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := contracts.ParseDate(date); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid date format (expected YYYY-MM-DD)")
		return
	}

	if h.cache.Enabled() {
		data, found, err := h.cache.GetRaw(r.Context(), redis.DecisionRunKey(date))
		if err != nil {
			h.logger.WithError(err).Warn("Report cache read failed")
		} else if found {
			respondRaw(w, http.StatusOK, data, SourceCache)
			return
		}
	}

	// 파일에는 최신 리포트만 있음
	rep, data, err := report.ReadFile(h.reportPath)
	if err == nil && rep.PortfolioDate == date {
		respondRaw(w, http.StatusOK, data, SourceFile)
		return
	}
	respondError(w, http.StatusNotFound, "No report for "+date)
}

func (h *DecisionHandler) latest(r *http.Request) ([]byte, string, error) {
	if h.cache.Enabled() {
		data, found, err := h.cache.GetRaw(r.Context(), redis.KeyDecisionLatest)
		if err != nil {
			h.logger.WithError(err).Warn("Report cache read failed, falling back to file")
		} else if found {
			return data, SourceCache, nil
		}
	}

	data, err := os.ReadFile(h.reportPath)
	if err != nil {
		return nil, "", err
	}
	return data, SourceFile, nil
}

func (h *DecisionHandler) latestReport(w http.ResponseWriter, r *http.Request) (*contracts.DecisionReport, bool) {
	data, _, err := h.latest(r)
	if err != nil {
		h.fail(w, err)
		return nil, false
	}
	rep, err := report.Unmarshal(data)
	if err != nil {
		h.logger.WithError(err).Error("Stored report is not valid JSON")
		respondError(w, http.StatusInternalServerError, "Stored report is unreadable")
		return nil, false
	}
	return rep, true
}

func (h *DecisionHandler) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, os.ErrNotExist) {
		respondError(w, http.StatusNotFound, "No decision report yet")
		return
	}
	h.logger.WithError(err).Error("Failed to read decision report")
	respondError(w, http.StatusInternalServerError, "Failed to retrieve decision report")
}
