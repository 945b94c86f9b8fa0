package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
)

func (c *Client) Health(ctx context.Context) (models.Health, error) {
	return getObject[models.Health](ctx, c, "/health", []string{"status"})
}

// Login exchanges credentials for a token. The user is normalized; a reply
// with an empty token or an invalid user is malformed.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	resp, err := getObject[models.LoginResponse](ctx, c, "/auth/login", []string{"token", "user"}, post(creds)...)
	if err != nil {
		return resp, err
	}
	if resp.Token == "" {
		return resp, fmt.Errorf("%w: empty token", ErrMalformedResponse)
	}
	if err := resp.User.Normalize(); err != nil {
		return resp, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return resp, nil
}

// Me verifies the current token. opts can override the Authorization header
// to check a token that is not yet installed in the token source.
func (c *Client) Me(ctx context.Context, opts ...Option) (models.User, error) {
	u, err := getObject[models.User](ctx, c, "/auth/me", []string{"id", "username", "role"}, opts...)
	if err != nil {
		return u, err
	}
	if err := u.Normalize(); err != nil {
		return u, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return u, nil
}

// WithBearer overrides the token of a single request.
func WithBearer(token string) Option {
	return WithHeader("Authorization", "Bearer "+token)
}

func (c *Client) Register(ctx context.Context, in models.NewUser) (models.UserChange, error) {
	return getObject[models.UserChange](ctx, c, "/auth/register", []string{"message"}, post(in)...)
}

func (c *Client) ChangePassword(ctx context.Context, in models.PasswordChange) (string, error) {
	m, err := getObject[models.Message](ctx, c, "/auth/change-password", []string{"message"}, post(in)...)
	return m.Message, err
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	users, err := getList[models.User](ctx, c, "/auth/users")
	if err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].Normalize(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
		}
	}
	return users, nil
}

func (c *Client) ToggleUserStatus(ctx context.Context, id int64) (models.UserChange, error) {
	return getObject[models.UserChange](ctx, c, fmt.Sprintf("/auth/users/%d/toggle-status", id), []string{"message"}, post(nil)...)
}

func (c *Client) DeleteUser(ctx context.Context, id int64) (string, error) {
	m, err := getObject[models.Message](ctx, c, fmt.Sprintf("/auth/users/%d", id), []string{"message"}, WithMethod(http.MethodDelete))
	return m.Message, err
}
