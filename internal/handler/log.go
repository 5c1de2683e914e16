package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/repository"
	"github.com/fitcoach/coach/internal/service"
)

const (
	maxSubmissionBody  = 32 << 20 // 32MB, several photos or a report
	maxMultipartMemory = 8 << 20
)

type LogHandler struct {
	logService *service.LogService
}

func NewLogHandler(logService *service.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

type logRequest struct {
	LogType  string   `json:"log_type"`
	WeightKg *float64 `json:"weight_kg"`
	Text     string   `json:"text"`
	Source   string   `json:"source"`
}

// Submit accepts a JSON body, or a multipart form when files are attached.
func (h *LogHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	in, err := h.readLogInput(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	submission, err := h.logService.Submit(r.Context(), user.ID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, submission)
}

func (h *LogHandler) readLogInput(w http.ResponseWriter, r *http.Request) (service.LogInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req logRequest
		err := decodeJSON(w, r, &req)
		if err != nil {
			return service.LogInput{}, err
		}
		return toLogInput(req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBody)
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		return service.LogInput{}, badRequest(errors.New("invalid multipart form"))
	}

	req := logRequest{
		LogType: r.FormValue("log_type"),
		Text:    r.FormValue("text"),
		Source:  r.FormValue("source"),
	}
	if raw := strings.TrimSpace(r.FormValue("weight_kg")); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return service.LogInput{}, badRequest(errors.New("weight must be a number"))
		}
		req.WeightKg = &weight
	}

	in, err := toLogInput(req)
	if err != nil {
		return service.LogInput{}, err
	}

	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			return service.LogInput{}, fmt.Errorf("failed to open upload: %w", err)
		}
		data, err := io.ReadAll(file)
		closeErr := file.Close()
		if closeErr != nil {
			slog.Warn("failed to close upload", "error", closeErr)
		}
		if err != nil {
			return service.LogInput{}, fmt.Errorf("failed to read upload: %w", err)
		}
		in.Files = append(in.Files, service.Upload{Filename: header.Filename, Data: data})
	}
	return in, nil
}

func toLogInput(req logRequest) (service.LogInput, error) {
	logType, err := model.ParseLogType(req.LogType)
	if err != nil {
		return service.LogInput{}, badRequest(err)
	}
	source := req.Source
	if source == "" {
		source = "web"
	}
	return service.LogInput{
		LogType:  logType,
		WeightKg: req.WeightKg,
		Text:     req.Text,
		Source:   source,
	}, nil
}

func (h *LogHandler) Logs(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	limit := repository.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeMessage(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	logs, err := h.logService.Recent(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *LogHandler) Log(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	log, err := h.logService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, log)
}

func (h *LogHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	dashboard, err := h.logService.Dashboard(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *LogHandler) Export(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	logs, err := h.logService.Export(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=logs-export.json")

	err = json.NewEncoder(w).Encode(logs)
	if err != nil {
		slog.Error("failed to encode logs", "error", err, "user_id", user.ID)
	}
}
