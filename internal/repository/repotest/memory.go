// Package repotest provides in-memory implementations of the repository
// interfaces for tests. Filters, sorting, $set merging and owner population
// follow the MongoDB implementations.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/harentsoaR/rental-store-api/internal/common"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"github.com/harentsoaR/rental-store-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the shared state behind Users and Listings. Setting Err makes
// every call fail with it.
type Store struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	listings map[primitive.ObjectID]models.Listing

	Err error
}

func NewStore() *Store {
	return &Store{
		users:    make(map[primitive.ObjectID]models.User),
		listings: make(map[primitive.ObjectID]models.Listing),
	}
}

func (s *Store) Users() repository.UserRepository { return userRepo{s} }

func (s *Store) Listings() repository.ListingRepository { return listingRepo{s} }

func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) ListingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listings)
}

// PutUser stores u as is, bypassing uniqueness checks.
func (s *Store) PutUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = *u
}

// PutListing stores l as is.
func (s *Store) PutListing(l *models.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = *l
}

// Listing returns a copy of the stored listing.
func (s *Store) Listing(id primitive.ObjectID) (models.Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	return l, ok
}

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return common.Conflict("Email already in use")
		}
		if u.Username == user.Username {
			return common.Conflict("Username already in use")
		}
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	email = models.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r userRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

type listingRepo struct{ s *Store }

func (r listingRepo) Find(_ context.Context, filter models.ListingFilter) ([]models.ListingView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	var out []models.Listing
	for _, l := range r.s.listings {
		if matches(filter, &l) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return repository.Join(out, r.s.owners()), nil
}

func (r listingRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Listing, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	l, ok := r.s.listings[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &l, nil
}

func (r listingRepo) FindViewByID(ctx context.Context, id primitive.ObjectID) (*models.ListingView, error) {
	l, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return &repository.Join([]models.Listing{*l}, r.s.owners())[0], nil
}

func (r listingRepo) Create(_ context.Context, listing *models.Listing) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.listings[listing.ID] = *listing
	return nil
}

// Update merges the BSON form of patch into the stored document, the way
// $set does.
func (r listingRepo) Update(ctx context.Context, id primitive.ObjectID, patch *models.ListingPatch) (*models.ListingView, error) {
	r.s.mu.Lock()
	if r.s.Err != nil {
		r.s.mu.Unlock()
		return nil, r.s.Err
	}
	current, ok := r.s.listings[id]
	if !ok {
		r.s.mu.Unlock()
		return nil, common.ErrNotFound
	}

	doc, err := toDocument(current)
	if err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	set, err := toDocument(patch)
	if err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	for k, v := range set {
		doc[k] = v
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	var next models.Listing
	if err := bson.Unmarshal(raw, &next); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	r.s.listings[id] = next
	r.s.mu.Unlock()

	return r.FindViewByID(ctx, id)
}

func (r listingRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.listings[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.s.listings, id)
	return nil
}

// owners must be called with s.mu held.
func (s *Store) owners() map[primitive.ObjectID]*models.OwnerSummary {
	owners := make(map[primitive.ObjectID]*models.OwnerSummary, len(s.users))
	for id, u := range s.users {
		owners[id] = &models.OwnerSummary{ID: u.ID, Username: u.Username, Email: u.Email}
	}
	return owners
}

func matches(f models.ListingFilter, l *models.Listing) bool {
	switch {
	case f.OnlyAvailable && !l.IsAvailable:
		return false
	case f.Owner != nil && l.Owner != *f.Owner:
		return false
	case f.Category != "" && l.Category != f.Category:
		return false
	case f.MinPrice != nil && l.Price < *f.MinPrice:
		return false
	case f.MaxPrice != nil && l.Price > *f.MaxPrice:
		return false
	case f.Location != "" && !strings.Contains(strings.ToLower(l.Location), strings.ToLower(f.Location)):
		return false
	case f.MinGuests != nil && l.MaxGuests < *f.MinGuests:
		return false
	}
	return true
}

func toDocument(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
