package common_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/harentsoaR/rental-store-api/internal/common"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", common.Validation("Price cannot be negative"), http.StatusBadRequest},
		{"conflict", common.Conflict("Email already in use"), http.StatusBadRequest},
		{"unauthorized", common.ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", common.Forbidden("nope"), http.StatusForbidden},
		{"wrapped not found", fmt.Errorf("find listing: %w", common.ErrNotFound), http.StatusNotFound},
		{"unclassified", errors.New("connection reset"), http.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := common.HTTPStatusFromError(tt.err, http.StatusTeapot); got != tt.want {
				t.Errorf("HTTPStatusFromError() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"typed", common.NotFound("Listing not found"), "Listing not found"},
		{"wrapped typed", fmt.Errorf("ctx: %w", common.Validation("Invalid listing id")), "Invalid listing id"},
		{"bare sentinel", fmt.Errorf("x: %w", common.ErrConflict), "resource conflict"},
		{"foreign", errors.New("server selection timeout"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := common.PublicMessage(tt.err, "Something went wrong"); got != tt.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsClassified(t *testing.T) {
	if !common.IsClassified(common.Forbidden("x")) {
		t.Error("forbidden should be classified")
	}
	if common.IsClassified(errors.New("boom")) {
		t.Error("plain error should not be classified")
	}
}
