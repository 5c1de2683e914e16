package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fitcoach/coach/internal/handler"
	"github.com/fitcoach/coach/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, category, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("category", category))
	part, err := form.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/resources", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func TestResourceHandler_UploadFetchDelete(t *testing.T) {
	env := newTestEnv(t, okReply)
	user := env.createUser(t)
	h := handler.NewResourceHandler(env.resourceService)

	rec := serve(h.Upload, user, uploadRequest(t, "medical", "report.pdf", []byte("%PDF-1.4\n%âãÏÓ\n")))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resource := decode[model.Resource](t, rec)
	assert.Equal(t, model.ResourceTypePDF, resource.ResourceType)
	assert.Equal(t, 1, env.storage.Len())

	req := httptest.NewRequest(http.MethodGet, "/api/resources/"+resource.ID, nil)
	req.SetPathValue("id", resource.ID)
	rec = serve(h.Resource, user, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[model.Resource](t, rec).URL, "memory://private/"+user.ID+"/medical/")

	req = httptest.NewRequest(http.MethodDelete, "/api/resources/"+resource.ID, nil)
	req.SetPathValue("id", resource.ID)
	rec = serve(h.Delete, user, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, env.storage.Len())
}

func TestResourceHandler_UploadRejects(t *testing.T) {
	env := newTestEnv(t, okReply)
	user := env.createUser(t)
	h := handler.NewResourceHandler(env.resourceService)

	rec := serve(h.Upload, user, uploadRequest(t, "food", "notes.txt", []byte("just text")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(h.Upload, user, uploadRequest(t, "pets", "dog.png", pngHeader))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.storage.Len())
}
