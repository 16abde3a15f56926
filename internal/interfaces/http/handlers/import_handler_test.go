package handlers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/PatentVault/internal/application/importing"
	"github.com/turtacn/PatentVault/internal/domain/patent"
	"github.com/turtacn/PatentVault/pkg/errors"
)

func testContext() context.Context { return context.Background() }

type stubImporter struct {
	text  string
	doc   importing.Document
	docs  []importing.Document
	opts  importing.Options
	err   error
	batch *importing.BatchResult
}

func (s *stubImporter) result(opts importing.Options) *importing.Result {
	return &importing.Result{
		Patents:   []*patent.Patent{{ID: "x1", Name: "太陽能板"}},
		Method:    importing.MethodHeuristic,
		Committed: opts.Commit,
	}
}

func (s *stubImporter) FromText(_ context.Context, text string, opts importing.Options) (*importing.Result, error) {
	s.text, s.opts = text, opts
	if s.err != nil {
		return nil, s.err
	}
	return s.result(opts), nil
}

func (s *stubImporter) FromFile(_ context.Context, doc importing.Document, opts importing.Options) (*importing.Result, error) {
	s.doc, s.opts = doc, opts
	if s.err != nil {
		return nil, s.err
	}
	return s.result(opts), nil
}

func (s *stubImporter) Batch(_ context.Context, docs []importing.Document, opts importing.Options) (*importing.BatchResult, error) {
	s.docs, s.opts = docs, opts
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestImportText(t *testing.T) {
	imp := &stubImporter{}
	h := NewImportHandler(imp, 0, nil, nil)

	w := httptest.NewRecorder()
	h.Text(w, httptest.NewRequest(http.MethodPost, "/import/text",
		strings.NewReader(`{"text":"[54] 太陽能板","heuristicOnly":true}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[54] 太陽能板", imp.text)
	assert.Equal(t, importing.Options{HeuristicOnly: true}, imp.opts)
	res := decodeBody[importing.Result](t, w)
	assert.Equal(t, importing.MethodHeuristic, res.Method)
	require.Len(t, res.Patents, 1)
}

func TestImportText_CommitReturnsCreated(t *testing.T) {
	h := NewImportHandler(&stubImporter{}, 0, nil, nil)
	w := httptest.NewRecorder()
	h.Text(w, httptest.NewRequest(http.MethodPost, "/import/text", strings.NewReader(`{"text":"x","commit":true}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestImportText_EmptyInput(t *testing.T) {
	imp := &stubImporter{err: errors.New(errors.ErrCodeImportEmptyInput, "nothing to import")}
	errs := &errorCounter{}
	h := NewImportHandler(imp, 0, nil, errs)

	w := httptest.NewRecorder()
	h.Text(w, httptest.NewRequest(http.MethodPost, "/import/text", strings.NewReader(`{"text":"  "}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "IMP_001", decodeBody[ErrorResponse](t, w).Code)
	assert.Equal(t, []string{"IMP_001"}, errs.codes)
}

func TestImportFile(t *testing.T) {
	imp := &stubImporter{}
	h := NewImportHandler(imp, 0, nil, nil)

	body, ct := multipartBody(t, "file", map[string]string{"gazette.txt": "[54] 發明名稱 太陽能板"})
	req := httptest.NewRequest(http.MethodPost, "/import/file?commit=true", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.File(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "gazette.txt", imp.doc.Name)
	assert.Equal(t, "[54] 發明名稱 太陽能板", string(imp.doc.Data))
	assert.True(t, imp.opts.Commit)
}

func TestImportFile_Validation(t *testing.T) {
	h := NewImportHandler(&stubImporter{}, 8, nil, nil)

	w := httptest.NewRecorder()
	h.File(w, httptest.NewRequest(http.MethodPost, "/import/file", strings.NewReader("plain")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, ct := multipartBody(t, "other", map[string]string{"a.txt": "x"})
	req := httptest.NewRequest(http.MethodPost, "/import/file", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	h.File(w, req)
	assert.Equal(t, "IMP_001", decodeBody[ErrorResponse](t, w).Code)

	body, ct = multipartBody(t, "file", map[string]string{"big.txt": "0123456789abcdef"})
	req = httptest.NewRequest(http.MethodPost, "/import/file", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	h.File(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "IMP_004", decodeBody[ErrorResponse](t, w).Code)
}

func TestImportBatch(t *testing.T) {
	imp := &stubImporter{batch: &importing.BatchResult{
		Items:     []importing.BatchItem{{Name: "a.txt"}, {Name: "b.txt"}},
		Succeeded: 2,
	}}
	h := NewImportHandler(imp, 0, nil, nil)

	body, ct := multipartBody(t, "files", map[string]string{"a.txt": "one", "b.txt": "two"})
	req := httptest.NewRequest(http.MethodPost, "/import/batch?heuristicOnly=1", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	h.Batch(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, imp.docs, 2)
	assert.True(t, imp.opts.HeuristicOnly)
	assert.Equal(t, 2, decodeBody[importing.BatchResult](t, w).Succeeded)
}

//Personal.AI order the ending
