package errors

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter turns classified errors into JSON error responses.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates a new HTTP error adapter.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// StatusFor maps an error to an HTTP status code.
func (a *HTTPErrorAdapter) StatusFor(err error) int {
	classified, ok := AsClassified(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch classified.Category() {
	case CategoryNotebook:
		return http.StatusBadRequest
	case CategoryAuthoring:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error    string `json:"error"`
	Category string `json:"category,omitempty"`
}

// WriteErrorResponse logs the error and writes it as a JSON body with the
// mapped status code.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: "internal server error"}
	if classified, ok := AsClassified(err); ok {
		resp.Error = classified.Message()
		resp.Category = string(classified.Category())
		attrs := []any{"category", resp.Category}
		if cause := classified.Cause(); cause != nil {
			attrs = append(attrs, "cause", cause.Error())
		}
		a.logger.Error(classified.Message(), attrs...)
	} else if err != nil {
		a.logger.Error("request failed", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(a.StatusFor(err))
	_ = json.NewEncoder(w).Encode(resp)
}
