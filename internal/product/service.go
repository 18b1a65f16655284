package product

import (
	"context"
	"strings"
)

// Service is the catalog lookup surface the cart and order packages consume,
// plus the admin back-office mutations.
type Service interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error)
	GetList(ctx context.Context, opts QueryOptions) ([]*Product, error)
	Create(ctx context.Context, input NewProductInput) (*Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrProductNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByIDs(ctx context.Context, ids []string) (map[string]*Product, error) {
	return s.repo.GetByIDs(ctx, ids)
}

func (s *service) GetList(ctx context.Context, opts QueryOptions) ([]*Product, error) {
	return s.repo.GetList(ctx, opts)
}

func (s *service) Create(ctx context.Context, input NewProductInput) (*Product, error) {
	if input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.CountInStock < 0 {
		return nil, ErrInvalidStock
	}
	return s.repo.Create(ctx, input)
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	if input.Price != nil && *input.Price <= 0 {
		return nil, ErrInvalidPrice
	}
	if input.CountInStock != nil && *input.CountInStock < 0 {
		return nil, ErrInvalidStock
	}
	return s.repo.Update(ctx, id, input)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
