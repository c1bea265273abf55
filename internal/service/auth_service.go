package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fashionhub/internal/models"
	"fashionhub/internal/store"
	"fashionhub/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default admin account guaranteed to exist after bootstrap. Credentials are
// stored and compared in plaintext; real authentication is out of scope for
// this single-operator store.
const (
	defaultAdminID       = "admin-001"
	defaultAdminEmail    = "admin@fashionhub.com"
	defaultAdminPassword = "Admin@123"
)

// AuthService manages user records and the current session
type AuthService struct {
	store  *store.Store
	logger *zap.Logger
}

func NewAuthService(st *store.Store) *AuthService {
	return &AuthService{store: st, logger: util.GetLogger()}
}

// EnsureDefaultAdmin creates the bootstrap admin record if it is missing.
// Safe to call on every startup.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.Email == defaultAdminEmail {
			return nil
		}
	}

	admin := models.User{
		ID:        defaultAdminID,
		Name:      "Admin",
		Email:     defaultAdminEmail,
		Password:  defaultAdminPassword,
		Role:      models.RoleAdmin,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.store.SaveUsers(ctx, append(users, admin)); err != nil {
		return err
	}
	s.logger.Info("Default admin account created", zap.String("email", defaultAdminEmail))
	return nil
}

// Register creates a customer account and logs it in. Email must be unique.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	v := models.NewValidationError()
	if name == "" {
		v.Add("name", "name is required")
	}
	if email == "" || !validEmail(email) {
		v.Add("email", "valid email is required")
	}
	if !validPassword(password) {
		v.Add("password", "password must be at least 6 characters")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == email {
			v.Add("email", "already registered")
			return nil, v.Err()
		}
	}

	user := models.User{
		ID:        fmt.Sprintf("user-%s", uuid.New().String()),
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.RoleCustomer,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveUsers(ctx, append(users, user)); err != nil {
		return nil, err
	}
	if err := s.store.SetCurrentUser(ctx, user); err != nil {
		return nil, err
	}

	util.UsersRegisteredTotal.Inc()
	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("email", email))

	safe := user.WithoutPassword()
	return &safe, nil
}

// Login matches credentials against stored records and starts the session
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		v := models.NewValidationError()
		if email == "" {
			v.Add("email", "email is required")
		}
		if password == "" {
			v.Add("password", "password is required")
		}
		return nil, v.Err()
	}

	user, err := s.store.UserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if user.Password != password {
		return nil, models.ErrInvalidCredentials
	}

	if err := s.store.SetCurrentUser(ctx, *user); err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID))
	safe := user.WithoutPassword()
	return &safe, nil
}

// Logout ends the session
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearCurrentUser(ctx)
}

// CurrentUser returns the session user, nil when nobody is logged in
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	return s.store.CurrentUser(ctx)
}

// IsAdmin reports whether the session user has the admin role
func (s *AuthService) IsAdmin(ctx context.Context) (bool, error) {
	u, err := s.store.CurrentUser(ctx)
	if err != nil {
		return false, err
	}
	return u != nil && u.Role == models.RoleAdmin, nil
}
