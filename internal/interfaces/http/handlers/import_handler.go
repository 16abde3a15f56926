package handlers

import (
	"context"
	stderrors "errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/turtacn/PatentVault/internal/application/importing"
	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// Importer is the document import pipeline.
type Importer interface {
	FromText(ctx context.Context, text string, opts importing.Options) (*importing.Result, error)
	FromFile(ctx context.Context, doc importing.Document, opts importing.Options) (*importing.Result, error)
	Batch(ctx context.Context, docs []importing.Document, opts importing.Options) (*importing.BatchResult, error)
}

const maxBatchDocuments = 8

// ImportHandler turns pasted text and uploaded documents into patent records.
type ImportHandler struct {
	base
	importer Importer
	maxBytes int64
}

// NewImportHandler creates a new ImportHandler. maxBytes bounds a single
// uploaded document.
func NewImportHandler(importer Importer, maxBytes int64, logger logging.Logger, errs ErrorRecorder) *ImportHandler {
	if maxBytes <= 0 {
		maxBytes = importing.DefaultMaxDocumentBytes
	}
	return &ImportHandler{base: newBase("import", logger, errs), importer: importer, maxBytes: maxBytes}
}

// ImportTextRequest is the body of POST /import/text.
type ImportTextRequest struct {
	Text          string `json:"text"`
	HeuristicOnly bool   `json:"heuristicOnly"`
	Commit        bool   `json:"commit"`
}

func optionsFrom(r *http.Request) importing.Options {
	return importing.Options{HeuristicOnly: queryBool(r, "heuristicOnly"), Commit: queryBool(r, "commit")}
}

// Text handles POST /import/text.
func (h *ImportHandler) Text(w http.ResponseWriter, r *http.Request) {
	var req ImportTextRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.importer.FromText(r.Context(), req.Text, importing.Options{HeuristicOnly: req.HeuristicOnly, Commit: req.Commit})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, statusFor(res.Committed), res)
}

// File handles POST /import/file with a multipart "file" part.
func (h *ImportHandler) File(w http.ResponseWriter, r *http.Request) {
	docs, err := h.readDocuments(w, r, "file")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.importer.FromFile(r.Context(), docs[0], optionsFrom(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, statusFor(res.Committed), res)
}

// Batch handles POST /import/batch with one or more multipart "files" parts.
func (h *ImportHandler) Batch(w http.ResponseWriter, r *http.Request) {
	docs, err := h.readDocuments(w, r, "files")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	opts := optionsFrom(r)
	res, err := h.importer.Batch(r.Context(), docs, opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, statusFor(opts.Commit && res.Succeeded > 0), res)
}

func statusFor(committed bool) int {
	if committed {
		return http.StatusCreated
	}
	return http.StatusOK
}

// readDocuments parses the multipart form and reads every part named field.
func (h *ImportHandler) readDocuments(w http.ResponseWriter, r *http.Request, field string) ([]importing.Document, error) {
	// a batch may carry several documents of up to maxBytes each
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes*maxBatchDocuments+(1<<20))
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeImportTooLarge, "upload too large")
		}
		return nil, errors.InvalidParam("expected a multipart form").WithDetail(err.Error())
	}
	headers := r.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, errors.New(errors.ErrCodeImportEmptyInput, "no file uploaded").WithDetail(field)
	}

	docs := make([]importing.Document, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxBytes {
			return nil, errors.New(errors.ErrCodeImportTooLarge, "document too large").WithDetail(fh.Filename)
		}
		data, err := readPart(fh)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeImportDocumentRead, "failed to read upload").WithDetail(fh.Filename)
		}
		docs = append(docs, importing.Document{
			Name:     fh.Filename,
			Data:     data,
			MIMEType: fh.Header.Get("Content-Type"),
		})
	}
	return docs, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

//Personal.AI order the ending
