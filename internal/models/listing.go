package models

import (
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/harentsoaR/rental-store-api/internal/common"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category string

const (
	CategoryApartment Category = "apartment"
	CategoryHouse     Category = "house"
	CategoryVilla     Category = "villa"
	CategoryRoom      Category = "room"
	CategoryOther     Category = "other"
)

const defaultMaxGuests = 1

var ErrMissingListingFields = common.Validation("Please provide all required fields")

type Review struct {
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Comment   string             `bson:"comment" json:"comment"`
	Rating    float64            `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Location    string             `bson:"location" json:"location" validate:"required"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Category    Category           `bson:"category" json:"category" validate:"oneof=apartment house villa room other"`
	Amenities   []string           `bson:"amenities" json:"amenities"`
	MaxGuests   int                `bson:"maxGuests" json:"maxGuests" validate:"gte=1"`
	Bedrooms    int                `bson:"bedrooms" json:"bedrooms" validate:"gte=0"`
	Bathrooms   int                `bson:"bathrooms" json:"bathrooms" validate:"gte=0"`
	Images      []string           `bson:"images" json:"images"`
	Owner       primitive.ObjectID `bson:"owner" json:"owner"`
	Rating      float64            `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	Reviews     []Review           `bson:"reviews" json:"reviews" validate:"dive"`
	IsAvailable bool               `bson:"isAvailable" json:"isAvailable"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the field constraints of a listing about to be written.
func (l *Listing) Validate() error {
	if err := validateStruct(l); err != nil {
		return err
	}
	if l.Owner.IsZero() {
		return common.Validation("Owner is required")
	}
	return nil
}

// normalize trims text fields, collapses duplicate amenities and replaces nil
// slices so they persist as empty arrays.
func (l *Listing) normalize() {
	l.Title = strings.TrimSpace(l.Title)
	l.Slug = slug.Make(l.Title)
	l.Amenities = uniqueStrings(l.Amenities)
	if l.Images == nil {
		l.Images = []string{}
	}
	if l.Reviews == nil {
		l.Reviews = []Review{}
	}
}

// ListingInput is the body accepted when creating a listing. There is no
// owner field: the owner always comes from the authenticated caller.
type ListingInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Price       *float64 `json:"price"`
	Category    Category `json:"category"`
	Amenities   []string `json:"amenities"`
	MaxGuests   *int     `json:"maxGuests"`
	Bedrooms    *int     `json:"bedrooms"`
	Bathrooms   *int     `json:"bathrooms"`
	Images      []string `json:"images"`
	IsAvailable *bool    `json:"isAvailable"`
}

// NewListing builds a listing owned by owner from in, applying defaults for
// every optional field.
func NewListing(in ListingInput, owner primitive.ObjectID, now time.Time) (*Listing, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" ||
		strings.TrimSpace(in.Location) == "" || in.Price == nil {
		return nil, ErrMissingListingFields
	}

	l := &Listing{
		ID:          primitive.NewObjectID(),
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		Price:       *in.Price,
		Category:    CategoryApartment,
		Amenities:   in.Amenities,
		MaxGuests:   defaultMaxGuests,
		Images:      in.Images,
		Owner:       owner,
		IsAvailable: true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Category != "" {
		l.Category = in.Category
	}
	if in.MaxGuests != nil {
		l.MaxGuests = *in.MaxGuests
	}
	if in.Bedrooms != nil {
		l.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		l.Bathrooms = *in.Bathrooms
	}
	if in.IsAvailable != nil {
		l.IsAvailable = *in.IsAvailable
	}

	l.normalize()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// ListingPatch is a partial update. Nil fields are left untouched and are
// omitted from the $set document.
type ListingPatch struct {
	Title       *string    `json:"title" bson:"title,omitempty"`
	Description *string    `json:"description" bson:"description,omitempty"`
	Location    *string    `json:"location" bson:"location,omitempty"`
	Price       *float64   `json:"price" bson:"price,omitempty"`
	Category    *Category  `json:"category" bson:"category,omitempty"`
	Amenities   *[]string  `json:"amenities" bson:"amenities,omitempty"`
	MaxGuests   *int       `json:"maxGuests" bson:"maxGuests,omitempty"`
	Bedrooms    *int       `json:"bedrooms" bson:"bedrooms,omitempty"`
	Bathrooms   *int       `json:"bathrooms" bson:"bathrooms,omitempty"`
	Images      *[]string  `json:"images" bson:"images,omitempty"`
	Rating      *float64   `json:"rating" bson:"rating,omitempty"`
	IsAvailable *bool      `json:"isAvailable" bson:"isAvailable,omitempty"`
	Slug        *string    `json:"-" bson:"slug,omitempty"`
	UpdatedAt   *time.Time `json:"-" bson:"updatedAt,omitempty"`
}

// Apply merges p into a copy of l, re-runs validation on the result and
// returns it. On success p is completed with the derived fields (slug,
// normalised values, updatedAt) so that it matches what was validated.
func (p *ListingPatch) Apply(l *Listing, now time.Time) (*Listing, error) {
	next := *l
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Location != nil {
		next.Location = *p.Location
	}
	if p.Price != nil {
		next.Price = *p.Price
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Amenities != nil {
		next.Amenities = *p.Amenities
	}
	if p.MaxGuests != nil {
		next.MaxGuests = *p.MaxGuests
	}
	if p.Bedrooms != nil {
		next.Bedrooms = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		next.Bathrooms = *p.Bathrooms
	}
	if p.Images != nil {
		next.Images = *p.Images
	}
	if p.Rating != nil {
		next.Rating = *p.Rating
	}
	if p.IsAvailable != nil {
		next.IsAvailable = *p.IsAvailable
	}
	next.UpdatedAt = now

	next.normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if p.Title != nil {
		p.Title = &next.Title
		p.Slug = &next.Slug
	}
	if p.Amenities != nil {
		p.Amenities = &next.Amenities
	}
	if p.Images != nil {
		p.Images = &next.Images
	}
	p.UpdatedAt = &next.UpdatedAt
	return &next, nil
}

// OwnerSummary is the populated owner reference returned with listings.
type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Username string             `bson:"username" json:"username"`
	Email    string             `bson:"email" json:"email"`
}

// ListingView is a listing with its owner reference resolved. Owner is nil
// when the owning user no longer exists.
type ListingView struct {
	*Listing
	Owner *OwnerSummary `json:"owner"`
}

// ListingFilter selects listings. Zero values mean "no constraint".
type ListingFilter struct {
	Category      Category
	MinPrice      *float64
	MaxPrice      *float64
	Location      string
	MinGuests     *int
	Owner         *primitive.ObjectID
	OnlyAvailable bool
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
