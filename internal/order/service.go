package order

import (
	"context"
	"fmt"
	"time"

	"nutrimart-be/internal/address"
	"nutrimart-be/internal/logger"
	"nutrimart-be/internal/metrics"
	"nutrimart-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, userID uint, lines []RequestedLine, paymentMethod string, shipTo *ShippingAddress) (*Order, error)
	GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error)
	GetMyOrders(ctx context.Context, userID uint) ([]*Order, error)
	GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error)
	MarkPaid(ctx context.Context, orderID string, result GatewayResult) (*Order, error)
	MarkDelivered(ctx context.Context, orderID string) (*Order, error)
	Summary(ctx context.Context) (int64, float64, error)
}

type service struct {
	repo        Repository
	addressRepo address.Repository
	userRepo    user.Repository
}

func NewService(repo Repository, addressRepo address.Repository, userRepo user.Repository) Service {
	return &service{
		repo:        repo,
		addressRepo: addressRepo,
		userRepo:    userRepo,
	}
}

// CreateOrder converts requested lines into an immutable priced order.
// Client-submitted totals are never consulted; the repository re-derives
// every price from the live catalog inside one transaction.
func (s *service) CreateOrder(
	ctx context.Context,
	userID uint,
	lines []RequestedLine,
	paymentMethod string,
	shipTo *ShippingAddress,
) (*Order, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Uint("user_id", userID),
		zap.Int("line_count", len(lines)),
	)

	if userID == 0 {
		return nil, ErrUnauthorized
	}
	if len(lines) == 0 {
		return nil, ErrNoOrderItems
	}
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	resolved, err := s.resolveShippingAddress(ctx, userID, shipTo)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.CreateOrderTx(ctx, CreateOrderParams{
		UserID:          userID,
		Lines:           lines,
		PaymentMethod:   paymentMethod,
		ShippingAddress: *resolved,
	})
	if err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	metrics.Default.OrdersCreated.Inc()

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Float64("total_price", o.TotalPrice),
	)

	return o, nil
}

// resolveShippingAddress implements the fallback chain: client-supplied
// complete address, then the saved default, then the first saved address,
// otherwise the order cannot be created.
func (s *service) resolveShippingAddress(ctx context.Context, userID uint, shipTo *ShippingAddress) (*ShippingAddress, error) {
	if shipTo.Complete() {
		return shipTo, nil
	}

	saved, err := s.addressRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load saved addresses: %w", err)
	}
	if len(saved) == 0 {
		return nil, ErrShippingAddressRequired
	}

	pick := saved[0]
	for _, a := range saved {
		if a.IsDefault {
			pick = a
			break
		}
	}

	return &ShippingAddress{
		Address:    pick.Address,
		City:       pick.City,
		PostalCode: pick.PostalCode,
		Country:    pick.Country,
	}, nil
}

func (s *service) GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isAdmin && o.UserID != userID {
		return nil, ErrUnauthorized
	}

	return o, nil
}

func (s *service) GetMyOrders(ctx context.Context, userID uint) ([]*Order, error) {
	if userID == 0 {
		return nil, ErrUnauthorized
	}
	return s.repo.GetByUser(ctx, userID)
}

// GetOrders is the admin-side listing across all users.
func (s *service) GetOrders(ctx context.Context, opts ListOptions) ([]*Order, error) {
	return s.repo.GetAll(ctx, opts)
}

// MarkPaid records the gateway confirmation exactly once. When the gateway
// did not report a payer email, the order owner's email stands in.
func (s *service) MarkPaid(ctx context.Context, orderID string, result GatewayResult) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkPaid"),
		zap.String("order_id", orderID),
	)

	now := time.Now()

	txnID := result.TransactionID
	if txnID == "" {
		txnID = fmt.Sprintf("PAYHERE_%d", now.UnixMilli())
	}
	status := result.Status
	if status == "" {
		status = "Success"
	}

	email := result.PayerEmail
	if email == "" {
		o, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return nil, err
		}
		owner, err := s.userRepo.GetByID(ctx, o.UserID)
		if err != nil {
			return nil, err
		}
		email = owner.Email
	}

	o, err := s.repo.MarkPaid(ctx, orderID, now, PaymentResult{
		TransactionID: txnID,
		Status:        status,
		UpdateTime:    now.Format(time.RFC3339),
		EmailAddress:  email,
	})
	if err != nil {
		log.Warn("mark paid failed", zap.Error(err))
		return nil, err
	}

	metrics.Default.OrdersPaid.Inc()

	log.Info("order marked as paid", zap.String("txn_id", txnID))
	return o, nil
}

func (s *service) MarkDelivered(ctx context.Context, orderID string) (*Order, error) {
	return s.repo.MarkDelivered(ctx, orderID, time.Now())
}

// Summary backs the admin dashboard: paid order count and gross revenue.
func (s *service) Summary(ctx context.Context) (int64, float64, error) {
	return s.repo.CountAndRevenue(ctx)
}
