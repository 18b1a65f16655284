package cart

import (
	"context"
	"errors"

	"nutrimart-be/internal/product"
)

// Service defines the business logic for carts. All operations are scoped
// to an authenticated user; anonymous callers are rejected, not queued.
type Service interface {
	GetCart(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, userID uint, productID string, quantity int) (*Cart, error)
	SetQuantity(ctx context.Context, userID uint, productID string, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, userID uint, productID string) (*Cart, error)
	ClearCart(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// GetCart returns the user's cart with every line resolved against the live
// catalog. No cart is not an error; the caller sees empty lines. Rows whose
// product has since been deleted are left out of the view.
func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	items, err := s.repo.GetItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, items)
}

// AddItem has additive semantics: quantities for an existing line merge.
func (s *service) AddItem(ctx context.Context, userID uint, productID string, quantity int) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if p.CountInStock < quantity {
		return nil, ErrInsufficientStock
	}

	if err := s.repo.AddItem(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// SetQuantity has absolute-set semantics. A quantity of zero or less
// removes the line; a missing line is a not-found condition either way.
func (s *service) SetQuantity(ctx context.Context, userID uint, productID string, quantity int) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	if quantity <= 0 {
		if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, userID)
	}

	if err := s.repo.SetQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// RemoveItem is idempotent: removing an absent line still succeeds.
func (s *service) RemoveItem(ctx context.Context, userID uint, productID string) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	err := s.repo.RemoveItem(ctx, userID, productID)
	if err != nil && !errors.Is(err, ErrCartItemNotFound) {
		return nil, err
	}

	return s.GetCart(ctx, userID)
}

// ClearCart deletes the cart entity outright.
func (s *service) ClearCart(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Clear(ctx, userID)
}

func (s *service) resolve(ctx context.Context, items []Item) (*Cart, error) {
	cart := &Cart{Items: make([]ResolvedItem, 0, len(items))}
	if len(items) == 0 {
		return cart, nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			continue
		}
		cart.Items = append(cart.Items, ResolvedItem{
			Product:  p,
			Quantity: it.Quantity,
		})
	}

	return cart, nil
}
