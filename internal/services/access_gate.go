package services

import (
	"context"
	"fmt"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"

	"github.com/benchan0527/GoGoFood/internal/apperrors"
	"github.com/benchan0527/GoGoFood/internal/models"
	"github.com/benchan0527/GoGoFood/internal/repositories"
)

// Identity is a verified caller as asserted by the external identity
// provider.
type Identity struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// AccessGate verifies externally issued credentials before any request
// reaches the order engine. Credential verification itself is the identity
// provider's job; the gate only checks the provider's HMAC signature and
// expiry, and mirrors display attributes into the local profile table.
type AccessGate struct {
	userRepo  repositories.UserRepository
	jwtSecret []byte
	logger    *zap.Logger
}

// NewAccessGate creates a new AccessGate.
func NewAccessGate(userRepo repositories.UserRepository, jwtSecret string, logger *zap.Logger) *AccessGate {
	return &AccessGate{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
		logger:    logger,
	}
}

// Authorize verifies the credential and returns the caller's identity. Any
// missing, malformed, or expired credential is Unauthorized.
func (g *AccessGate) Authorize(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, apperrors.NewUnauthorized("credential is required", nil)
	}

	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.jwtSecret, nil
	})
	if err != nil {
		return Identity{}, apperrors.NewUnauthorized("invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Identity{}, apperrors.NewUnauthorized("invalid token", nil)
	}

	identity := identityFromClaims(claims)
	if identity.UserID == "" {
		return Identity{}, apperrors.NewUnauthorized("token carries no subject", nil)
	}

	// Best-effort profile mirror; the request proceeds even if the write
	// fails.
	profile := &models.User{
		ID:    identity.UserID,
		Name:  identity.Name,
		Email: identity.Email,
		Role:  identity.Role,
	}
	if err := g.userRepo.Upsert(ctx, profile); err != nil {
		g.logger.Warn("failed to mirror user profile", zap.String("user_id", identity.UserID), zap.Error(err))
	}

	return identity, nil
}

// GetProfile retrieves the mirrored profile for a verified user.
func (g *AccessGate) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return g.userRepo.GetByID(ctx, userID)
}

func identityFromClaims(claims jwt.MapClaims) Identity {
	identity := Identity{Role: models.RoleCustomer}

	if sub, ok := claims["user_id"].(string); ok && sub != "" {
		identity.UserID = sub
	} else if sub, ok := claims["sub"].(string); ok {
		identity.UserID = sub
	}
	if name, ok := claims["name"].(string); ok {
		identity.Name = name
	}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		identity.Role = role
	}

	return identity
}
