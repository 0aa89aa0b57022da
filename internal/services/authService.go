package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/machinery-hub/catalog-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Claims is the verified payload of an auth token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a fixed lifetime.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenCodec(secret []byte, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for userID. Extra claims are embedded as-is but can
// not override userId, iat or exp.
func (tc *TokenCodec) Issue(userID string, extra map[string]any) (string, error) {
	now := tc.now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["userId"] = userID
	claims["iat"] = now.Unix()
	claims["exp"] = now.Add(tc.ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tc.secret)
}

// Verify parses tokenString and checks signature and expiry.
func (tc *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tc.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthenticated, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%w: token has no user", models.ErrUnauthenticated)
	}
	return claims, nil
}

// PasswordHasher wraps bcrypt with a fixed work factor.
type PasswordHasher struct {
	Cost int
}

// HashPassword hashes a password using bcrypt
func (h PasswordHasher) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	return string(hash), err
}

// VerifyPassword reports whether password matches hash. It only fails when
// hash is not a bcrypt digest.
func (h PasswordHasher) VerifyPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

// AuthService logs users in and resolves tokens back to users.
type AuthService struct {
	users  UserStore
	tokens *TokenCodec
	hasher PasswordHasher
	logger *slog.Logger
}

func NewAuthService(users UserStore, tokens *TokenCodec, hasher PasswordHasher, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher, logger: logger}
}

var (
	errInvalidCredentials = models.NewError(models.ErrValidation, "Invalid credentials")
	// errUserGone is a valid token whose userId resolves to no user.
	errUserGone = models.NewError(models.ErrNotFound, "User not found!")
)

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (string, error) {
	if err := creds.Validate(); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(creds.Email))
	if errors.Is(err, models.ErrNotFound) {
		return "", errInvalidCredentials
	}
	if err != nil {
		return "", err
	}

	ok, err := s.hasher.VerifyPassword(creds.Password, user.Password)
	if err != nil {
		return "", fmt.Errorf("verify password of user %s: %w", user.ID.Hex(), err)
	}
	if !ok {
		return "", errInvalidCredentials
	}

	return s.tokens.Issue(user.ID.Hex(), map[string]any{"msg": "Successfully logged in!"})
}

// Authenticate verifies tokenString and loads the user it was issued to.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	if tokenString == "" {
		return nil, models.NewError(models.ErrUnauthenticated, "No token, authorization denied")
	}

	claims, err := s.tokens.Verify(tokenString)
	if err != nil {
		s.logger.DebugContext(ctx, "token rejected", "error", err)
		return nil, models.NewError(models.ErrUnauthenticated, "Token is not valid")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, errUserGone
	}

	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, errUserGone
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// IssueFor returns a token for a user that was just created.
func (s *AuthService) IssueFor(user *models.User) (string, error) {
	return s.tokens.Issue(user.ID.Hex(), nil)
}
