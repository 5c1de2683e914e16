package handler

import (
	"net/http"

	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/service"
)

type SummaryHandler struct {
	summaryService *service.SummaryService
}

func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

type summaryRequest struct {
	Scope  string `json:"scope"`
	Notify bool   `json:"notify"`
}

func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req summaryRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	scope, err := model.ParseScopeType(req.Scope)
	if err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	summary, err := h.summaryService.Generate(r.Context(), user.ID, scope, req.Notify)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if summary.Degraded {
		writeJSON(w, http.StatusOK, summary)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *SummaryHandler) Summaries(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	summaries, err := h.summaryService.Summaries(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// Active returns the current summary for one scope.
func (h *SummaryHandler) Active(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	scope, err := model.ParseScopeType(r.PathValue("scope"))
	if err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	summary, err := h.summaryService.Active(r.Context(), user.ID, scope)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
