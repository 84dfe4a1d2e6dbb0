package hms

import (
	"context"
	"net/http"
)

// UserService covers staff accounts.
type UserService struct{ c *Client }

func (s *UserService) List(ctx context.Context) ([]User, error) {
	return call[[]User](ctx, s.c, http.MethodGet, "/users", nil, nil)
}

func (s *UserService) Get(ctx context.Context, id int64) (*User, error) {
	return call[*User](ctx, s.c, http.MethodGet, pathf("/users/%s", id), nil, nil)
}

func (s *UserService) ByRole(ctx context.Context, role Role) ([]User, error) {
	return call[[]User](ctx, s.c, http.MethodGet, pathf("/users/role/%s", role), nil, nil)
}

func (s *UserService) Create(ctx context.Context, u *User) (*User, error) {
	return call[*User](ctx, s.c, http.MethodPost, "/users", nil, u)
}

func (s *UserService) Update(ctx context.Context, id int64, u *User) (*User, error) {
	return call[*User](ctx, s.c, http.MethodPut, pathf("/users/%s", id), nil, u)
}

// Deactivate soft-deletes a user through the DELETE verb.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	_, err := callEnvelope[any](ctx, s.c, http.MethodDelete, pathf("/users/%s", id), nil, nil)
	return err
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	_, err := callEnvelope[any](ctx, s.c, http.MethodPut, pathf("/users/%s/password", id), nil, map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	})
	return err
}
