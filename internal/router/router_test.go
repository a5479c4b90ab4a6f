package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/handlers"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"github.com/harentsoaR/rental-store-api/internal/repository/repotest"
	"github.com/harentsoaR/rental-store-api/internal/router"
	"github.com/harentsoaR/rental-store-api/internal/utils"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(origins ...string) (*gin.Engine, *utils.TokenService) {
	store := repotest.NewStore()
	tokens := utils.NewTokenService([]byte("router-secret"), time.Hour)
	h := handlers.NewHandler(store.Users(), store.Listings(), tokens, bcrypt.MinCost)
	return router.New(h, tokens, router.Options{Logger: zerolog.Nop(), CORSOrigins: origins}), tokens
}

func token(t *testing.T, tokens *utils.TokenService, role models.Role) string {
	t.Helper()
	tok, err := tokens.Issue(&models.User{ID: primitive.NewObjectID(), Username: "u", Email: "u@example.com", Role: role})
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func serve(r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, common.Envelope) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env common.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestHealth(t *testing.T) {
	r, _ := newEngine()
	w, env := serve(r, httptest.NewRequest(http.MethodGet, "/api", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Status != "ok" || env.Message != "Rental Store API is running" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newEngine()
	for _, path := range []string{"/nope", "/api/unknown", "/api/listings/a/b/c"} {
		w, env := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusNotFound || env.Message != "Route not found" || env.Status != "error" {
			t.Errorf("%s: status %d body %s", path, w.Code, w.Body.String())
		}
	}
}

func TestRoutes(t *testing.T) {
	r, tokens := newEngine()
	user := token(t, tokens, models.RoleUser)
	admin := token(t, tokens, models.RoleAdmin)
	missing := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		code   int
	}{
		{"list is public", http.MethodGet, "/api/listings", "", http.StatusOK},
		{"detail is public", http.MethodGet, "/api/listings/" + missing, "", http.StatusNotFound},
		{"my listings is not an id", http.MethodGet, "/api/listings/user/my-listings", user, http.StatusOK},
		{"my listings needs a token", http.MethodGet, "/api/listings/user/my-listings", "", http.StatusUnauthorized},
		{"me needs a token", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"create needs a token", http.MethodPost, "/api/listings", "", http.StatusUnauthorized},
		{"update needs a token", http.MethodPut, "/api/listings/" + missing, "", http.StatusUnauthorized},
		{"delete needs a token", http.MethodDelete, "/api/listings/" + missing, "", http.StatusUnauthorized},
		{"admin delete forbids users", http.MethodDelete, "/api/listings/admin/" + missing, user, http.StatusForbidden},
		{"admin delete reaches handler", http.MethodDelete, "/api/listings/admin/" + missing, admin, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w, _ := serve(r, req)
			if w.Code != tt.code {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.code, w.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"any origin", nil, "https://app.example.com", "*"},
		{"wildcard", []string{"*"}, "https://app.example.com", "*"},
		{"allowed origin", []string{"https://app.example.com"}, "https://app.example.com", "https://app.example.com"},
		{"other origin", []string{"https://app.example.com"}, "https://evil.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newEngine(tt.origins...)
			req := httptest.NewRequest(http.MethodOptions, "/api/listings", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	r, _ := newEngine()
	w, _ := serve(r, httptest.NewRequest(http.MethodGet, "/api", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID response header")
	}
}
