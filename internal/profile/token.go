package profile

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/channelchangers/intelextract/internal/types"
)

// identityClaims are the profile fields carried in the provider's ID token.
type identityClaims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
	jwt.RegisteredClaims
}

// ParseIdentityToken extracts a user profile from a provider-issued ID
// token. The token arrives already verified by the provider's flow, so
// only the claim payload is decoded here.
func ParseIdentityToken(token string) (*types.UserProfile, error) {
	claims := &identityClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode identity token: %w", err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("identity token carries no email claim")
	}

	return &types.UserProfile{
		Name:    claims.Name,
		Email:   claims.Email,
		Picture: claims.Picture,
		Token:   token,
	}, nil
}
