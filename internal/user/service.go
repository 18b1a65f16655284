package user

import (
	"context"
	"errors"
	"strings"
)

// Service covers the identity glue the storefront needs: registration,
// credential checks, and user lookup for order ownership and payer email
// fallbacks. Token verification itself lives in the auth middleware.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	GetByID(ctx context.Context, id uint) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, params RegisterParams) (*User, string, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if params.Name == "" || params.Email == "" || len(params.Password) < 6 {
		return nil, "", ErrInvalidRegistration
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.repo.Create(ctx, params, hash)
	if err != nil {
		return nil, "", err
	}

	token, err := GenerateJWT(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, string, error) {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !CheckPasswordHash(password, u.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := GenerateJWT(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *service) GetByID(ctx context.Context, id uint) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
