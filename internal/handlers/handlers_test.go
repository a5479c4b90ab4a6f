package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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

const testPassword = "secret123"

var testSecret = []byte("handlers-secret")

func ptr[T any](v T) *T { return &v }

type testAPI struct {
	store  *repotest.Store
	tokens *utils.TokenService
	engine *gin.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := repotest.NewStore()
	tokens := utils.NewTokenService(testSecret, time.Hour)
	h := handlers.NewHandler(store.Users(), store.Listings(), tokens, bcrypt.MinCost)
	return &testAPI{
		store:  store,
		tokens: tokens,
		engine: router.New(h, tokens, router.Options{Logger: zerolog.Nop()}),
	}
}

// do sends a request through the full router. body may be nil, a raw string
// or any value to be JSON encoded.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// seedUser stores a user whose password is testPassword and returns it with
// a valid token.
func (a *testAPI) seedUser(t *testing.T, username string, role models.Role) (*models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword(testPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	user, err := models.NewUser(username, username+"@example.com", hash, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	user.Role = role
	a.store.PutUser(user)

	token, err := a.tokens.Issue(user)
	if err != nil {
		t.Fatal(err)
	}
	return user, token
}

func (a *testAPI) seedListing(t *testing.T, owner primitive.ObjectID, in models.ListingInput, createdAt time.Time) *models.Listing {
	t.Helper()
	if in.Title == "" {
		in.Title = "Flat"
	}
	if in.Description == "" {
		in.Description = "A place to stay"
	}
	if in.Location == "" {
		in.Location = "Antananarivo"
	}
	if in.Price == nil {
		in.Price = ptr(100.0)
	}
	l, err := models.NewListing(in, owner, createdAt)
	if err != nil {
		t.Fatal(err)
	}
	a.store.PutListing(l)
	return l
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response {
	t.Helper()
	var resp response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
	}
	return resp
}

type ownerJSON struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type listingJSON struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Amenities   []string   `json:"amenities"`
	MaxGuests   int        `json:"maxGuests"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	Images      []string   `json:"images"`
	IsAvailable bool       `json:"isAvailable"`
	Owner       *ownerJSON `json:"owner"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func decodeData[T any](t *testing.T, resp response) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		t.Fatalf("invalid data %s: %v", resp.Data, err)
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, code int, message string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, code, w.Body.String())
	}
	resp := decode(t, w)
	if resp.Status != "error" {
		t.Errorf("status field = %q, want error", resp.Status)
	}
	if message != "" && resp.Message != message {
		t.Errorf("message = %q, want %q", resp.Message, message)
	}
	if len(resp.Data) != 0 {
		t.Errorf("error response carries data: %s", resp.Data)
	}
}
