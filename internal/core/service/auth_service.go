package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stillpoint/clinic-ops/internal/core/domain"
	"github.com/stillpoint/clinic-ops/internal/core/ports"
)

// AuthService implements registration, credential verification, and session
// token issue/decode. Tokens are HS256 JWTs carrying {sub, email, role, jti};
// a decoded session is immutable, so a role change requires a fresh login.
type AuthService struct {
	users      ports.UserRepository
	therapists ports.TherapistRepository
	revoked    ports.RevocationList
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewAuthService(
	users ports.UserRepository,
	therapists ports.TherapistRepository,
	revoked ports.RevocationList,
	jwtSecret string,
	tokenTTL time.Duration,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		therapists: therapists,
		revoked:    revoked,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A therapist account gets a therapist record, inactive until an admin
	// activates it. The user row is the uniqueness anchor, so it is created
	// first; a rejected registration must not leave a therapist record behind.
	if role == domain.RoleTherapist {
		user.TherapistID = uuid.NewString()
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if role == domain.RoleTherapist {
		if _, err := s.therapists.Create(ctx, &domain.Therapist{
			ID:        user.TherapistID,
			Name:      name,
			Email:     email,
			Active:    false,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return nil, fmt.Errorf("create therapist record: %w", err)
		}
	}
	return created, nil
}

// Login verifies credentials and, on success, issues a signed session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (s *AuthService) issueToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"tid":   user.TherapistID,
		"jti":   uuid.NewString(),
		"exp":   time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// DecodeToken validates a session token and returns the session it carries.
// The role claim is parsed through the Role union, so a token with a role
// the policy does not know is rejected here, not at the policy table.
func (s *AuthService) DecodeToken(ctx context.Context, token string) (*domain.Session, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidCredentials
	}

	roleClaim, _ := claims["role"].(string)
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	sess := &domain.Session{
		Role: role,
	}
	sess.Subject, _ = claims["sub"].(string)
	sess.Email, _ = claims["email"].(string)
	sess.TherapistID, _ = claims["tid"].(string)
	sess.TokenID, _ = claims["jti"].(string)
	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}

	if sess.TokenID != "" && s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, sess.TokenID)
		if err != nil {
			return nil, fmt.Errorf("revocation check: %w", err)
		}
		if revoked {
			return nil, domain.ErrSessionRevoked
		}
	}

	return sess, nil
}

// Logout revokes the session's token id for the remainder of its lifetime.
func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) error {
	if sess == nil || sess.TokenID == "" || s.revoked == nil {
		return nil
	}
	ttl := int64(time.Until(sess.ExpiresAt).Seconds())
	if ttl <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, sess.TokenID, ttl)
}
