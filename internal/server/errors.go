// Package server provides the HTTP REST API for the intelligence extractor.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/channelchangers/intelextract/internal/analysis"
	"github.com/channelchangers/intelextract/internal/critique"
	"github.com/channelchangers/intelextract/internal/research"
	"github.com/channelchangers/intelextract/internal/workspace"
)

// ErrNotFound indicates a library record was not found
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("record not found: %s", e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnavailable indicates a feature whose backend is not configured on
// this deployment, such as research without a search API key.
type ErrUnavailable struct {
	Feature string
}

func (e *ErrUnavailable) Error() string {
	return fmt.Sprintf("%s is not configured on this server", e.Feature)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Upstream model and pipeline failures map to 502: the request was valid
// but the intelligence backend could not serve it.
func HTTPStatus(err error) int {
	var notFound *ErrNotFound
	var validation *ErrValidation
	var unavailable *ErrUnavailable
	var extraction *analysis.ExtractionError
	var critiqueErr *critique.CritiqueError
	var researchErr *research.ResearchError
	var pipelineErr *workspace.PipelineError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &extraction), errors.As(err, &critiqueErr),
		errors.As(err, &researchErr), errors.As(err, &pipelineErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, HTTPStatus(err), errorResponse{Error: err.Error()})
}
