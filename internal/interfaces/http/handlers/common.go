package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/turtacn/PatentVault/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/PatentVault/pkg/errors"
)

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorRecorder counts failed requests by component and error code.
type ErrorRecorder interface {
	RecordError(component, code string)
}

// base carries what every handler needs to answer a request.
type base struct {
	component string
	logger    logging.Logger
	errs      ErrorRecorder
}

func newBase(component string, logger logging.Logger, errs ErrorRecorder) base {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return base{component: component, logger: logger.Named(component), errs: errs}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// fail maps err onto its HTTP status. Errors without an AppError code are
// reported as internal and their text is not sent to the client.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	resp := ErrorResponse{Code: code.String(), Message: errors.DefaultMessageForCode(errors.CodeInternal)}
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}

	if status >= http.StatusInternalServerError {
		b.logger.Error("request failed", logging.String("method", r.Method), logging.String("path", r.URL.Path), logging.Err(err))
	}
	if b.errs != nil {
		b.errs.RecordError(b.component, code.String())
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return errors.InvalidParam("request body is empty")
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.New(errors.ErrCodeImportTooLarge, "request body too large")
		}
		return errors.InvalidParam("invalid request body").WithDetail(err.Error())
	}
	return nil
}

// queryBool parses a boolean query parameter; a bare "?flag" counts as true.
func queryBool(r *http.Request, name string) bool {
	q := r.URL.Query()
	if !q.Has(name) {
		return false
	}
	v := strings.TrimSpace(q.Get(name))
	if v == "" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

//Personal.AI order the ending
