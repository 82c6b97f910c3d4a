package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/distr-sh/recoverd/api"
	internalctx "github.com/distr-sh/recoverd/internal/context"
	"github.com/distr-sh/recoverd/internal/recovery"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const maxBodySize = 1 << 20

// JsonBody decodes the request body into T. An empty body decodes to the zero
// value of T. On error an error envelope has already been written.
func JsonBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	t, err := decodeJsonBody[T](w, r)
	if err != nil {
		internalctx.GetLogger(r.Context()).Debug("bad json payload", zap.Error(err))
		RespondError(w, http.StatusBadRequest, "The request body is not valid JSON")
	}
	return t, err
}

// decodeJsonBody is like JsonBody but leaves responding to the caller. On error
// the zero value of T is returned.
func decodeJsonBody[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var t T
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&t)
	if errors.Is(err, io.EOF) {
		return t, nil
	} else if err != nil {
		var zero T
		return zero, err
	}
	return t, nil
}

func RespondJSON(w http.ResponseWriter, data any) {
	RespondJSONStatus(w, http.StatusOK, data)
}

func RespondJSONStatus(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, message string, body any) {
	RespondJSONStatus(w, status, api.Response{
		Header: api.Header{Status: api.StatusSuccess, Message: message},
		Body:   body,
	})
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSONStatus(w, status, api.Response{
		Header: api.Header{Status: api.StatusError, Message: message},
	})
}

// respondRejected writes the error envelope for err. Dependency failures and
// unexpected errors are logged and reported to sentry.
func respondRejected(ctx context.Context, w http.ResponseWriter, err error) {
	var rejected *recovery.RejectedError
	if !errors.As(err, &rejected) {
		captureException(ctx, err)
		internalctx.GetLogger(ctx).Error("unexpected error", zap.Error(err))
		RespondError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	status := statusForKind(rejected.Kind)
	if status >= http.StatusInternalServerError {
		captureException(ctx, err)
	}
	RespondError(w, status, rejected.Message())
}

func statusForKind(kind recovery.Kind) int {
	switch kind {
	case recovery.KindValidation, recovery.KindOwnership:
		return http.StatusBadRequest
	case recovery.KindNotFound:
		return http.StatusNotFound
	case recovery.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func captureException(ctx context.Context, err error) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.CaptureException(err)
	} else {
		sentry.CaptureException(err)
	}
}
