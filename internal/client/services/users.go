package services

import (
	"context"

	"github.com/dmitrijs2005/recoverydesk/internal/client/models"
	"github.com/dmitrijs2005/recoverydesk/internal/logging"
)

type UserAPI interface {
	Users(ctx context.Context) ([]models.User, error)
	Register(ctx context.Context, in models.NewUser) (models.UserChange, error)
	ToggleUserStatus(ctx context.Context, id int64) (models.UserChange, error)
	DeleteUser(ctx context.Context, id int64) (string, error)
	ChangePassword(ctx context.Context, in models.PasswordChange) (string, error)
}

// UserService is user administration plus the own-password change.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Register(ctx context.Context, in models.NewUser) (models.UserChange, error)
	ToggleStatus(ctx context.Context, id int64) (models.UserChange, error)
	Delete(ctx context.Context, id int64) (string, error)
	ChangePassword(ctx context.Context, current, next string) (string, error)
}

type userService struct {
	api UserAPI
	guard
	log logging.Logger
}

func NewUserService(a UserAPI, inv Invalidator, log logging.Logger) UserService {
	if log == nil {
		log = logging.Nop()
	}
	return &userService{api: a, guard: guard{inv: inv}, log: log.With("component", "users")}
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	u, err := s.api.Users(ctx)
	return u, s.check(ctx, err)
}

func (s *userService) Register(ctx context.Context, in models.NewUser) (models.UserChange, error) {
	if err := in.Validate(); err != nil {
		return models.UserChange{}, err
	}
	role, _ := models.ParseRole(string(in.Role))
	in.Role = role
	res, err := s.api.Register(ctx, in)
	if err != nil {
		return res, s.check(ctx, err)
	}
	s.log.Info(ctx, "user registered", "username", in.Username, "role", string(in.Role))
	return res, nil
}

func (s *userService) ToggleStatus(ctx context.Context, id int64) (models.UserChange, error) {
	res, err := s.api.ToggleUserStatus(ctx, id)
	return res, s.check(ctx, err)
}

func (s *userService) Delete(ctx context.Context, id int64) (string, error) {
	msg, err := s.api.DeleteUser(ctx, id)
	return msg, s.check(ctx, err)
}

func (s *userService) ChangePassword(ctx context.Context, current, next string) (string, error) {
	in := models.PasswordChange{Current: current, New: next}
	if err := in.Validate(); err != nil {
		return "", err
	}
	msg, err := s.api.ChangePassword(ctx, in)
	return msg, s.check(ctx, err)
}
