package rest

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
)

// maxOverviewRows bounds the generated tables behind GET /v1/overview.
const maxOverviewRows = 20000

// InsightsHandler serves the regulation summary and the executive overview.
type InsightsHandler struct {
	summarize *usecase.SummarizeRegulation
	overview  *usecase.BuildOverview
	logger    *slog.Logger
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(summarize *usecase.SummarizeRegulation, overview *usecase.BuildOverview, logger *slog.Logger) *InsightsHandler {
	return &InsightsHandler{summarize: summarize, overview: overview, logger: logger}
}

// RegisterRoutes registers insight endpoints on the provided ServeMux.
func (h *InsightsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/regulations/summary", h.Summarize)
	mux.HandleFunc("GET /v1/overview", h.Overview)
}

// Summarize handles POST /v1/regulations/summary.
func (h *InsightsHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req dto.SummarizeRegulationRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.summarize.Execute(r.Context(), req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Overview handles GET /v1/overview?rows=N, computed on generated tables.
func (h *InsightsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	req := dto.BuildOverviewRequest{}
	if raw := r.URL.Query().Get("rows"); raw != "" {
		rows, err := strconv.Atoi(raw)
		if err != nil || rows <= 0 || rows > maxOverviewRows {
			writeError(w, http.StatusBadRequest, "rows must be between 1 and "+strconv.Itoa(maxOverviewRows))
			return
		}
		req.Rows = rows
	}

	ov, err := h.overview.Execute(r.Context(), req)
	if err != nil {
		code := statusForError(err)
		if code >= http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "overview failed", "error", err)
		}
		writeError(w, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ov)
}
