package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harentsoaR/rental-store-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrSecretNotSet   = errors.New("JWT secret is not configured")
	signingMethod     = jwt.SigningMethodHS256
	allowedAlgorithms = []string{signingMethod.Alg()}
)

type Claims struct {
	UserID   string `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed identity tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue creates a new token for a given user.
func (s *TokenService) Issue(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrSecretNotSet
	}
	issuedAt := s.now()
	claims := &Claims{
		UserID:   user.ID.Hex(),
		Email:    user.Email,
		Role:     string(user.Role),
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(signingMethod, claims)
	return token.SignedString(s.secret)
}

// Verify validates a given token string and returns the identity it carries.
// Every failure wraps ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (models.Identity, error) {
	if len(s.secret) == 0 {
		return models.Identity{}, ErrSecretNotSet
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods(allowedAlgorithms), jwt.WithExpirationRequired())
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return models.Identity{}, ErrInvalidToken
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: bad id claim", ErrInvalidToken)
	}
	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return models.Identity{
		ID:       id,
		Email:    claims.Email,
		Username: claims.Username,
		Role:     role,
	}, nil
}
