package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/middleware"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errListingNotFound = common.NotFound("Listing not found")

// GetListings returns the available listings matching the query filters
// (?category=&minPrice=&maxPrice=&location=&minGuests=), newest first.
// Numeric filters accept any decimal number.
func (h *Handler) GetListings(c *gin.Context) {
	filter, err := parseListingFilter(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	listings, err := h.Listings.Find(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	common.RespondWithList(c, http.StatusOK, listings)
}

func (h *Handler) GetListing(c *gin.Context) {
	id, err := listingID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	listing, err := h.Listings.FindViewByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAsListing(err))
		return
	}
	common.RespondWithJSON(c, http.StatusOK, common.Envelope{Data: listing})
}

// CreateListing stores a new listing owned by the caller. Any owner in the
// body is ignored.
func (h *Handler) CreateListing(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, common.Unauthorized("Not authorized to access this route"))
		return
	}

	var in models.ListingInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}

	listing, err := models.NewListing(in, identity.ID, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := h.Listings.Create(ctx, listing); err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.Listings.FindViewByID(ctx, listing.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	common.RespondWithJSON(c, http.StatusCreated, common.Envelope{
		Message: "Listing created successfully",
		Data:    view,
	})
}

// UpdateListing applies a partial update. Only the owner may update.
func (h *Handler) UpdateListing(c *gin.Context) {
	listing, ok := h.ownedListing(c, "Not authorized to update this listing")
	if !ok {
		return
	}

	var patch models.ListingPatch
	if err := bindJSON(c, &patch); err != nil {
		h.fail(c, err)
		return
	}
	if _, err := patch.Apply(listing, h.now()); err != nil {
		h.fail(c, err)
		return
	}

	view, err := h.Listings.Update(c.Request.Context(), listing.ID, &patch)
	if err != nil {
		h.fail(c, notFoundAsListing(err))
		return
	}

	common.RespondWithJSON(c, http.StatusOK, common.Envelope{
		Message: "Listing updated successfully",
		Data:    view,
	})
}

// DeleteListing removes a listing. Only the owner may delete.
func (h *Handler) DeleteListing(c *gin.Context) {
	listing, ok := h.ownedListing(c, "Not authorized to delete this listing")
	if !ok {
		return
	}

	if err := h.Listings.Delete(c.Request.Context(), listing.ID); err != nil {
		h.fail(c, notFoundAsListing(err))
		return
	}
	common.RespondWithJSON(c, http.StatusOK, common.Envelope{Message: "Listing deleted successfully"})
}

// DeleteListingAdmin removes any listing regardless of owner. The route must
// be guarded by middleware.Authorize(models.RoleAdmin).
func (h *Handler) DeleteListingAdmin(c *gin.Context) {
	id, err := listingID(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Listings.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, notFoundAsListing(err))
		return
	}
	common.RespondWithJSON(c, http.StatusOK, common.Envelope{Message: "Listing deleted by admin successfully"})
}

// GetMyListings returns every listing owned by the caller, available or not.
func (h *Handler) GetMyListings(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, common.Unauthorized("Not authorized to access this route"))
		return
	}

	listings, err := h.Listings.Find(c.Request.Context(), models.ListingFilter{Owner: &identity.ID})
	if err != nil {
		h.fail(c, err)
		return
	}
	common.RespondWithList(c, http.StatusOK, listings)
}

// ownedListing loads the listing named in the path and checks that the
// caller owns it. On failure the response has been written.
func (h *Handler) ownedListing(c *gin.Context, forbidden string) (*models.Listing, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		h.fail(c, common.Unauthorized("Not authorized to access this route"))
		return nil, false
	}
	id, err := listingID(c)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	listing, err := h.Listings.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAsListing(err))
		return nil, false
	}
	if !identity.Owns(listing) {
		h.fail(c, common.Forbidden(forbidden))
		return nil, false
	}
	return listing, true
}

func listingID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, common.Validation("Invalid listing id")
	}
	return id, nil
}

func notFoundAsListing(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return errListingNotFound
	}
	return err
}

func parseListingFilter(c *gin.Context) (models.ListingFilter, error) {
	filter := models.ListingFilter{
		OnlyAvailable: true,
		Category:      models.Category(c.Query("category")),
		Location:      c.Query("location"),
	}

	var err error
	if filter.MinPrice, err = queryFloat(c, "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = queryFloat(c, "maxPrice"); err != nil {
		return filter, err
	}
	minGuests, err := queryFloat(c, "minGuests")
	if err != nil {
		return filter, err
	}
	if minGuests != nil {
		n := guestBound(*minGuests)
		filter.MinGuests = &n
	}
	return filter, nil
}

// guestBound turns a numeric minimum into the equivalent whole-guest bound:
// maxGuests >= 2.5 holds exactly when maxGuests >= 3.
func guestBound(f float64) int {
	return int(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Ceil(f))))
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return nil, common.Validation(key + " must be a number")
	}
	return &f, nil
}
