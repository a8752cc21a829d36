package rest

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/tabular"
)

// maxCSVBody bounds uploaded batch tables.
const maxCSVBody = 64 << 20

// Response headers describing a scored batch.
const (
	HeaderBatchID  = "X-Batch-ID"
	HeaderMethod   = "X-Scoring-Method"
	HeaderFlagged  = "X-Flagged-Count"
	HeaderHighRisk = "X-High-Risk-Count"
	HeaderModelAUC = "X-Model-AUC"
)

// ScoringHandler serves the single-transaction endpoint and the CSV batch
// endpoints.
type ScoringHandler struct {
	scoreTransaction *usecase.ScoreTransaction
	scoreFraudBatch  *usecase.ScoreFraudBatch
	scoreLoanBook    *usecase.ScoreLoanBook
	logger           *slog.Logger
}

// NewScoringHandler creates a new scoring handler.
func NewScoringHandler(
	scoreTransaction *usecase.ScoreTransaction,
	scoreFraudBatch *usecase.ScoreFraudBatch,
	scoreLoanBook *usecase.ScoreLoanBook,
	logger *slog.Logger,
) *ScoringHandler {
	return &ScoringHandler{
		scoreTransaction: scoreTransaction,
		scoreFraudBatch:  scoreFraudBatch,
		scoreLoanBook:    scoreLoanBook,
		logger:           logger,
	}
}

// RegisterRoutes registers scoring endpoints on the provided ServeMux.
func (h *ScoringHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /score/fraud", h.ScoreFraud)
	mux.HandleFunc("POST /v1/batches/fraud", h.ScoreFraudBatch)
	mux.HandleFunc("POST /v1/batches/loans", h.ScoreLoanBook)
}

// ScoreFraud handles POST /score/fraud.
func (h *ScoringHandler) ScoreFraud(w http.ResponseWriter, r *http.Request) {
	var req dto.ScoreTransactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.scoreTransaction.Execute(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ScoreFraudBatch handles POST /v1/batches/fraud?method=anomaly|heuristic.
// Set stored=true to score with the persisted forest.
func (h *ScoringHandler) ScoreFraudBatch(w http.ResponseWriter, r *http.Request) {
	method, err := service.ParseScoringMethod(r.URL.Query().Get("method"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stored, err := queryBool(r, "stored")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txns, err := tabular.ReadTransactions(http.MaxBytesReader(w, r.Body, maxCSVBody))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.scoreFraudBatch.Execute(r.Context(), dto.ScoreFraudBatchRequest{
		Method:         method,
		Transactions:   txns,
		UseStoredModel: stored,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := tabular.WriteScoredTransactions(&buf, resp.Scored); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(HeaderBatchID, resp.BatchID.String())
	w.Header().Set(HeaderMethod, string(resp.Method))
	w.Header().Set(HeaderFlagged, strconv.Itoa(resp.Flagged))
	writeCSV(w, buf.Bytes())
}

// ScoreLoanBook handles POST /v1/batches/loans. Labeled books report the
// held-out AUC in the X-Model-AUC header.
func (h *ScoringHandler) ScoreLoanBook(w http.ResponseWriter, r *http.Request) {
	stored, err := queryBool(r, "stored")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := tabular.ReadLoans(http.MaxBytesReader(w, r.Body, maxCSVBody))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.scoreLoanBook.Execute(r.Context(), dto.ScoreLoanBookRequest{Book: book, UseStoredModel: stored})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := tabular.WriteScoredLoans(&buf, resp.Scored, resp.Labeled); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set(HeaderBatchID, resp.BatchID.String())
	w.Header().Set(HeaderHighRisk, strconv.Itoa(resp.HighRisk))
	if resp.AUC != nil {
		w.Header().Set(HeaderModelAUC, strconv.FormatFloat(*resp.AUC, 'f', 4, 64))
	}
	writeCSV(w, buf.Bytes())
}

func (h *ScoringHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusForError(err)
	if code >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "scoring request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, code, err.Error())
}

func writeCSV(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func queryBool(r *http.Request, key string) (bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid query parameter %s=%q", key, raw)
	}
	return v, nil
}
