package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/middleware"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"github.com/harentsoaR/rental-store-api/internal/utils"
)

var errInvalidCredentials = common.Unauthorized("Invalid email or password")

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates an account and logs it in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}

	if req.Username == "" || req.Email == "" || req.Password == "" || req.PasswordConfirm == "" {
		h.fail(c, common.Validation("Please provide all required fields"))
		return
	}
	if req.Password != req.PasswordConfirm {
		h.fail(c, common.Validation("Passwords do not match"))
		return
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	_, err := h.Users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		h.fail(c, common.Conflict("Email already in use"))
		return
	case !errors.Is(err, common.ErrNotFound):
		h.fail(c, err)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		h.fail(c, err)
		return
	}
	user, err := models.NewUser(req.Username, req.Email, hashedPassword, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.Users.Create(ctx, user); err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}

	common.RespondWithJSON(c, http.StatusCreated, common.Envelope{
		Message: "User registered successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// Login exchanges an email and password for a token. Unknown email and wrong
// password produce the same response.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		h.fail(c, common.Validation("Please provide email and password"))
		return
	}

	user, err := h.Users.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = errInvalidCredentials
		}
		h.fail(c, err)
		return
	}
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		h.fail(c, errInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.fail(c, err)
		return
	}

	common.RespondWithJSON(c, http.StatusOK, common.Envelope{
		Message: "Logged in successfully",
		Token:   token,
		User:    user.Public(),
	})
}

// GetCurrentUser returns the profile of the authenticated caller.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, common.Unauthorized("Not authorized to access this route"))
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), identity.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			err = common.NotFound("User not found")
		}
		h.fail(c, err)
		return
	}

	common.RespondWithJSON(c, http.StatusOK, common.Envelope{User: user.Profile()})
}
