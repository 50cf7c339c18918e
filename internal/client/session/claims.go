package session

import (
	"fmt"

	"github.com/dmitrijs2005/blogsync/internal/client/models"
	"github.com/dmitrijs2005/blogsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity attributes carried by the session credential.
type Claims struct {
	jwt.RegisteredClaims
	Username          string `json:"username,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Role              string `json:"role,omitempty"`
}

// DecodeClaims extracts the identity from a credential without verifying
// its signature. Authorization is enforced by the server; the result is
// only used for display and local guards.
func DecodeClaims(token string) (models.Identity, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return models.Identity{}, fmt.Errorf("%w: credential: %v", common.ErrDecode, err)
	}

	subject := claims.Username
	if subject == "" {
		subject = claims.PreferredUsername
	}
	return models.Identity{
		Subject: subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

// mergeIdentity fills the fields missing from the credential's claims.
func mergeIdentity(claims, fallback models.Identity) models.Identity {
	if claims.Subject == "" {
		claims.Subject = fallback.Subject
	}
	if claims.Email == "" {
		claims.Email = fallback.Email
	}
	if claims.Role == "" {
		claims.Role = fallback.Role
	}
	return claims
}
