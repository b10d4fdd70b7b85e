package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondErrorAlwaysCarriesErrorsArray(t *testing.T) {
	rec := httptest.NewRecorder()

	respondError(context.Background(), rec, http.StatusBadRequest, "invalid input")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d got %d", http.StatusBadRequest, rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"errors":[]`) {
		t.Fatalf("expected an empty errors array in the body, got %s", body)
	}
}

func TestRespondErrorListsValidationErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	respondError(context.Background(), rec, http.StatusBadRequest, "validation failed",
		"username is required", "email is required")

	var resp testEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) != 2 || resp.Success {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestRespondDataEmitsEmptyErrorsArray(t *testing.T) {
	rec := httptest.NewRecorder()

	respondData(context.Background(), rec, http.StatusOK, map[string]int{"count": 1}, "ok")

	if body := rec.Body.String(); !strings.Contains(body, `"errors":[]`) {
		t.Fatalf("expected an empty errors array in the body, got %s", body)
	}
}
