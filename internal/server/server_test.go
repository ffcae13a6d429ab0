package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumor-ml/commons.systems/cardparse/internal/parse"
	"github.com/rumor-ml/commons.systems/cardparse/internal/store"
)

const uploadText = `HDFC Bank Credit Card Statement
NIKHIL KHANDELWAL
Card No : 4514 56XX XXXX 1234
Statement Date : 15/05/2023
Payment Due Date Total Dues Minimum Amount Due
04/06/2023 12,450.75 622.54
Date Description Amount
12/05/2023 SWIGGY ORDER 450.00 Dr
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	dispatcher, err := parse.NewDispatcher(parse.Options{})
	require.NoError(t, err)

	st, err := store.Open(filepath.Join(t.TempDir(), "cardparse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return New(dispatcher, st, log)
}

func multipartBody(t *testing.T, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestParseUpload(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "may.txt", uploadText)
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var stmt store.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stmt))
	assert.NotEmpty(t, stmt.ID)
	assert.Equal(t, "may.txt", stmt.FileName)
	assert.Equal(t, "hdfc", stmt.Bank)
	assert.Equal(t, store.StatusParsed, stmt.Status)
	require.NotNil(t, stmt.Record)
	assert.Equal(t, "12450.75", stmt.Record.TotalAmountDue)

	// The stored row is retrievable by id.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/statements/"+stmt.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestParseUpload_EmptyDocument(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := multipartBody(t, "blank.txt", "   \n")
	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The failure is persisted for later inspection.
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/statements", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var statements []*store.Statement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statements))
	require.Len(t, statements, 1)
	assert.Equal(t, store.StatusFailed, statements[0].Status)
	assert.NotEmpty(t, statements[0].ErrorMessage)
}

func TestParseUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/parse", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStatement_NotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/statements/missing-id", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "missing-id")
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/parse", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
