package payhere

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"nutrimart-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID uint, lines []order.RequestedLine, paymentMethod string, shipTo *order.ShippingAddress) (*order.Order, error) {
	args := m.Called(ctx, userID, lines, paymentMethod, shipTo)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetOrderDetail(ctx context.Context, userID uint, orderID string, isAdmin bool) (*order.Order, error) {
	args := m.Called(ctx, userID, orderID, isAdmin)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetMyOrders(ctx context.Context, userID uint) ([]*order.Order, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) GetOrders(ctx context.Context, opts order.ListOptions) ([]*order.Order, error) {
	args := m.Called(ctx, opts)
	if o := args.Get(0); o != nil {
		return o.([]*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) MarkPaid(ctx context.Context, orderID string, result order.GatewayResult) (*order.Order, error) {
	args := m.Called(ctx, orderID, result)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) MarkDelivered(ctx context.Context, orderID string) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) Summary(ctx context.Context) (int64, float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(float64), args.Error(2)
}

func postNotify(t *testing.T, h *WebhookHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/payments/notify", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.Notify(rec, req)

	return rec
}

func successForm() url.Values {
	return url.Values{
		"merchant_id":      {testMerchantID},
		"order_id":         {testOrderID},
		"payment_id":       {"320042198"},
		"payhere_amount":   {"3430.00"},
		"payhere_currency": {"LKR"},
		"status_code":      {StatusSuccess},
		"md5sig":           {"9439C079C65FE1EB23E8243397C9E930"},
	}
}

func TestWebhookHandler_Notify(t *testing.T) {
	signer := NewSigner(testMerchantID, testSecret)

	t.Run("Valid success notify marks order paid", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("MarkPaid", mock.Anything, testOrderID, order.GatewayResult{
			TransactionID: "320042198",
			Status:        StatusSuccess,
		}).Return(&order.Order{ID: testOrderID, IsPaid: true}, nil)

		rec := postNotify(t, NewWebhookHandler(signer, svc), successForm())

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("Bad signature rejected", func(t *testing.T) {
		svc := new(MockOrderService)
		form := successForm()
		form.Set("md5sig", "00000000000000000000000000000000")

		rec := postNotify(t, NewWebhookHandler(signer, svc), form)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Tampered amount rejected", func(t *testing.T) {
		svc := new(MockOrderService)
		form := successForm()
		form.Set("payhere_amount", "1.00")

		rec := postNotify(t, NewWebhookHandler(signer, svc), form)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non-success status acknowledged without update", func(t *testing.T) {
		svc := new(MockOrderService)
		form := url.Values{
			"merchant_id":      {testMerchantID},
			"order_id":         {"order-77"},
			"payhere_amount":   {"100.50"},
			"payhere_currency": {"LKR"},
			"status_code":      {StatusFailed},
			"md5sig":           {"2833E64DDE244F7C4DDB3A82AB4ABB85"},
		}

		rec := postNotify(t, NewWebhookHandler(signer, svc), form)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Duplicate notify tolerated", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("MarkPaid", mock.Anything, testOrderID, mock.Anything).
			Return(nil, order.ErrOrderAlreadyPaid)

		rec := postNotify(t, NewWebhookHandler(signer, svc), successForm())

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Unknown order", func(t *testing.T) {
		svc := new(MockOrderService)
		svc.On("MarkPaid", mock.Anything, testOrderID, mock.Anything).
			Return(nil, order.ErrOrderNotFound)

		rec := postNotify(t, NewWebhookHandler(signer, svc), successForm())

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Unconfigured signer", func(t *testing.T) {
		svc := new(MockOrderService)

		rec := postNotify(t, NewWebhookHandler(NewSigner("", ""), svc), successForm())

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
