package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/backend/internal/logging"
)

// apiResponse is the uniform envelope returned by every endpoint. StatusCode
// mirrors the HTTP status so clients reading only the body stay consistent
// with clients reading the wire status.
type apiResponse struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(ctx, w, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < http.StatusBadRequest,
	})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string, errs ...string) {
	writeEnvelope(ctx, w, apiResponse{
		StatusCode: status,
		Message:    message,
		Errors:     errs,
	})
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, resp apiResponse) {
	// Clients expect errors as an array, never null or absent.
	if resp.Errors == nil {
		resp.Errors = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)

	logger := logging.FromContext(ctx)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("encode response body", "status", resp.StatusCode, "error", err)
		return
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		logger.Error("request failed", "status", resp.StatusCode, "message", resp.Message)
	case resp.StatusCode >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", resp.StatusCode, "message", resp.Message)
	}
}
