// Package responses writes the JSON envelope every endpoint shares. Success
// payloads carry status "success" plus a data object; list payloads add
// results/total/page/pages. Failures map a coded error onto status "fail"
// (4xx) or "error" (5xx) with a public message.
package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/dmreyes-dev/partstream-backend/pkg/errors"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
)

// SuccessEnvelope is the wire shape of every non-error response.
type SuccessEnvelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Total   *int64 `json:"total,omitempty"`
	Page    *int   `json:"page,omitempty"`
	Pages   *int   `json:"pages,omitempty"`
	Data    any    `json:"data"`
}

// FailureEnvelope is the wire shape of every error response.
type FailureEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ListMeta carries pagination metadata for list responses.
type ListMeta struct {
	Results int
	Total   int64
	Page    int
	Pages   int
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessEnvelope{Status: "success", Data: data})
}

// WriteList writes a paginated success envelope.
func WriteList(w http.ResponseWriter, meta ListMeta, data any) {
	writeJSON(w, http.StatusOK, SuccessEnvelope{
		Status:  "success",
		Results: &meta.Results,
		Total:   &meta.Total,
		Page:    &meta.Page,
		Pages:   &meta.Pages,
		Data:    data,
	})
}

// WriteNoContent is used by deletes; the body is intentionally empty.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())

	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeForbidden,
		pkgerrors.CodeUnauthorized,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeConflict,
		pkgerrors.CodeRateLimit:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	status := "error"
	if meta.HTTPStatus >= 400 && meta.HTTPStatus < 500 {
		status = "fail"
	}

	payload := FailureEnvelope{
		Status:  status,
		Message: msg,
	}
	if meta.DetailsAllowed {
		if details := typed.Details(); details != nil {
			payload.Details = details
		}
	}

	if logg != nil {
		trace := pkgerrors.Dump(err)

		fields := map[string]any{
			"error":         trace.Message,
			"error_code":    trace.Code,
			"error_chain":   trace.Chain,
			"sql_state":     trace.SQLState,
			"pg_detail":     trace.Detail,
			"pg_message":    trace.DriverMsg,
			"pg_table":      trace.Table,
			"pg_column":     trace.Column,
			"pg_constraint": trace.Constraint,
		}

		ctx = logg.WithFields(ctx, fields)
		logg.Error(ctx, "request.error", err)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
