package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/matzehuels/railinfra/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeRegionNotFound, "x"), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeAlreadyRegistered, "x")), http.StatusConflict},
		{errors.New(errors.ErrCodeUnresolvedReference, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNetwork, "x"), http.StatusBadGateway},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.err); got != tt.want {
			t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New(errors.ErrCodeRegionNotFound, "region %q not found", "Yard"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeRegionNotFound || body.Message != `region "Yard" not found` {
		t.Errorf("body = %+v", body)
	}
}

func TestWriteErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("open /etc/secret: permission denied"))
	if rec.Code != http.StatusInternalServerError || strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"yard"}`))
	if err := DecodeJSON(req, &v); err != nil || v.Name != "yard" {
		t.Errorf("DecodeJSON() = %v, %+v", err, v)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	if err := DecodeJSON(req, &v); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown field error = %v", err)
	}
}
