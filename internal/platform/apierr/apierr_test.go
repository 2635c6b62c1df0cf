package apierr

import (
	"errors"
	"net/http"
	"testing"

	domainagg "github.com/AlcMaple/bridge-inspection-backend/internal/domain/aggregates"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domainagg.Validationf("op", "bad"), http.StatusBadRequest, "validation"},
		{"not found", domainagg.NotFoundf("op", "missing"), http.StatusNotFound, "not_found"},
		{"conflict", domainagg.NewError(domainagg.CodeConflict, "op", "dup", nil), http.StatusConflict, "conflict"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "save_failed"},
		{"already api", New(http.StatusTeapot, "teapot", nil), http.StatusTeapot, "teapot"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FromError(tc.err, "save_failed")
			if got.Status != tc.wantStatus || got.Code != tc.wantCode {
				t.Fatalf("FromError: want=%d/%s got=%d/%s", tc.wantStatus, tc.wantCode, got.Status, got.Code)
			}
		})
	}
	if FromError(nil, "x") != nil {
		t.Fatalf("FromError(nil): want nil")
	}
}
