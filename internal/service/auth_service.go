package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/luizhmmachado/school-diary/internal/config"
	"github.com/luizhmmachado/school-diary/internal/identity"
	"github.com/luizhmmachado/school-diary/internal/model"
	"github.com/luizhmmachado/school-diary/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrGoogleAuthFailed   = errors.New("google id token rejected")
	ErrAnonymousDisabled  = errors.New("anonymous access disabled")
)

// UserStore is the account persistence needed by AuthService.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateProfile(ctx context.Context, u *model.User) error
}

// Claims extends JWT standard claims with the diary identity.
type Claims struct {
	jwt.RegisteredClaims
	IdentityKind identity.Kind `json:"identity_kind"`
	OwnerID      string        `json:"owner_id"`
}

// Identity rebuilds the request identity carried by the claims.
func (c *Claims) Identity() identity.Identity {
	return identity.Identity{Kind: c.IdentityKind, OwnerID: c.OwnerID}
}

// AuthService handles registration, login, Google sign-in, anonymous
// identities, JWTs and the Redis session registry.
type AuthService struct {
	cfg   *config.Config
	rdb   *redis.Client
	users UserStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client, users UserStore) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb, users: users}
}

// Register creates an email+password account and logs it in.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*model.User, string, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         name,
		AuthProvider: model.ProviderEmail,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.IssueToken(ctx, identity.ForUser(u.UserID))
	return u, token, err
}

// Login authenticates an email+password account.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("lookup email: %w", err)
	}
	if u.AuthProvider != model.ProviderEmail {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(ctx, identity.ForUser(u.UserID))
	return u, token, err
}

// GoogleLogin verifies a Google ID token against the configured client IDs
// and signs the user in, creating the account on first login.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*model.User, string, error) {
	if len(s.cfg.GoogleClientIDs) == 0 {
		return nil, "", ErrGoogleAuthFailed
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, s.cfg.GoogleClientIDs); err != nil {
		return nil, "", ErrGoogleAuthFailed
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, "", ErrGoogleAuthFailed
	}

	u, err := s.users.GetByGoogleID(ctx, claimSet.Sub)
	switch {
	case err == nil:
		// Refresh profile fields Google may have changed.
		if u.Name != claimSet.Name {
			u.Name = claimSet.Name
			if err := s.users.UpdateProfile(ctx, u); err != nil {
				return nil, "", fmt.Errorf("update profile: %w", err)
			}
		}
	case errors.Is(err, repository.ErrNotFound):
		u = &model.User{
			UserID:       uuid.New().String(),
			Email:        claimSet.Email,
			Name:         claimSet.Name,
			GoogleID:     claimSet.Sub,
			AuthProvider: model.ProviderGoogle,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, "", fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("lookup google id: %w", err)
	}

	token, err := s.IssueToken(ctx, identity.ForUser(u.UserID))
	return u, token, err
}

// Anonymous mints a fresh anonymous diary identity and its token. Gated by
// configuration; when disabled the caller gets ErrAnonymousDisabled.
func (s *AuthService) Anonymous(ctx context.Context) (identity.Identity, string, error) {
	if !s.cfg.AllowAnonymous {
		return identity.Identity{}, "", ErrAnonymousDisabled
	}
	id := identity.NewAnonymous()
	token, err := s.IssueToken(ctx, id)
	return id, token, err
}

// IssueToken signs a JWT for the identity and registers the session JTI in
// Redis with the same expiry.
func (s *AuthService) IssueToken(ctx context.Context, id identity.Identity) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   id.OwnerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		IdentityKind: id.Kind,
		OwnerID:      id.OwnerID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionKey(id.OwnerID, jti), "1", s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ValidateSession checks that the token's JTI is still registered; a logout
// removes it and invalidates the token before its natural expiry.
func (s *AuthService) ValidateSession(ctx context.Context, ownerID, jti string) error {
	_, err := s.rdb.Get(ctx, sessionKey(ownerID, jti)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.New("session revoked")
		}
		return fmt.Errorf("check session: %w", err)
	}
	return nil
}

// Logout revokes the session behind the given claims.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	return s.rdb.Del(ctx, sessionKey(claims.OwnerID, claims.ID)).Err()
}

// Profile resolves the account behind a registered identity. Anonymous
// identities have no stored profile and resolve to nil.
func (s *AuthService) Profile(ctx context.Context, id identity.Identity) (*model.User, error) {
	if id.Kind != identity.KindUser {
		return nil, nil
	}
	u, err := s.users.GetByID(ctx, id.OwnerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func sessionKey(ownerID, jti string) string {
	return fmt.Sprintf("session:%s:%s", ownerID, jti)
}
