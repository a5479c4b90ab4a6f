package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/repository"
	"github.com/harentsoaR/rental-store-api/internal/utils"
	"github.com/rs/zerolog"
)

const genericErrorMessage = "Something went wrong"

// Handler holds the dependencies shared by every route handler.
type Handler struct {
	Users      repository.UserRepository
	Listings   repository.ListingRepository
	Tokens     *utils.TokenService
	BcryptCost int

	now func() time.Time
}

func NewHandler(
	users repository.UserRepository,
	listings repository.ListingRepository,
	tokens *utils.TokenService,
	bcryptCost int,
) *Handler {
	return &Handler{
		Users:      users,
		Listings:   listings,
		Tokens:     tokens,
		BcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, common.Envelope{Status: "ok", Message: "Rental Store API is running"})
}

// fail writes the error envelope for err. Errors outside the taxonomy are
// logged and answered with 400 and a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	if !common.IsClassified(err) {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("route", c.FullPath()).
			Msg("request failed")
	}
	common.RespondWithError(c,
		common.HTTPStatusFromError(err, http.StatusBadRequest),
		common.PublicMessage(err, genericErrorMessage))
}

// bindJSON decodes the request body into dst. An empty body leaves dst
// untouched so that the caller reports the missing fields itself.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return common.Validation("Invalid request body")
	}
	return nil
}
