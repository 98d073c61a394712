package auth

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

// SupabaseVerifier checks tokens against the Supabase auth service
type SupabaseVerifier struct {
	lookup func(token string) (*UserContext, error)
}

// NewSupabaseVerifier creates a verifier backed by a service-role client
func NewSupabaseVerifier(url, serviceRoleKey string) (*SupabaseVerifier, error) {
	client, err := supabase.NewClient(url, serviceRoleKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return &SupabaseVerifier{
		lookup: func(token string) (*UserContext, error) {
			user, err := client.Auth.WithToken(token).GetUser()
			if err != nil {
				return nil, err
			}
			return &UserContext{
				UserID: user.ID.String(),
				Email:  user.Email,
				Roles:  []string{user.Role},
			}, nil
		},
	}, nil
}

// Verify implements TokenVerifier. GetUser carries no context, so ctx only
// short-circuits an already cancelled request.
func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (*UserContext, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := v.lookup(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if user.UserID == "" {
		return nil, fmt.Errorf("%w: missing user ID", ErrInvalidClaims)
	}
	return user, nil
}
