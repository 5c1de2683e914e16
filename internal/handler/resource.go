package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fitcoach/coach/internal/ctxkeys"
	"github.com/fitcoach/coach/internal/model"
	"github.com/fitcoach/coach/internal/service"
)

type ResourceHandler struct {
	resourceService *service.ResourceService
}

func NewResourceHandler(resourceService *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
	}
}

// Upload stores a single file outside of a log submission, e.g. a medical
// report attached later.
func (h *ResourceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBody)
	err := r.ParseMultipartForm(maxMultipartMemory)
	if err != nil {
		writeError(w, r, badRequest(errors.New("invalid multipart form")))
		return
	}

	category, err := model.ParseLogType(r.FormValue("category"))
	if err != nil {
		writeError(w, r, badRequest(err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, badRequest(errors.New("file is required")))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	resource, err := h.resourceService.Upload(r.Context(), user.ID, category, service.Upload{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resource)
}

func (h *ResourceHandler) Resource(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	resource, err := h.resourceService.ByID(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resource)
}

func (h *ResourceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.resourceService.Delete(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
