package payhere

import (
	"errors"
	"net/http"

	"nutrimart-be/internal/logger"
	"nutrimart-be/internal/order"

	"go.uber.org/zap"
)

// WebhookHandler receives PayHere's server-to-server payment notification.
// Unlike the client-reported pay endpoint, this path is signature-verified,
// so a forged completion event cannot mark an order paid.
type WebhookHandler struct {
	Signer   *Signer
	OrderSvc order.Service
}

func NewWebhookHandler(signer *Signer, orderSvc order.Service) *WebhookHandler {
	return &WebhookHandler{Signer: signer, OrderSvc: orderSvc}
}

func (h *WebhookHandler) Notify(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	n := Notification{
		MerchantID: r.PostFormValue("merchant_id"),
		OrderID:    r.PostFormValue("order_id"),
		PaymentID:  r.PostFormValue("payment_id"),
		Amount:     r.PostFormValue("payhere_amount"),
		Currency:   r.PostFormValue("payhere_currency"),
		StatusCode: r.PostFormValue("status_code"),
		Md5Sig:     r.PostFormValue("md5sig"),
	}

	ok, err := h.Signer.VerifyNotification(n)
	if err != nil {
		log.Error("notify verification unavailable", zap.Error(err))
		http.Error(w, "payment verification not configured", http.StatusInternalServerError)
		return
	}
	if !ok {
		log.Warn("rejected payment notify with bad signature",
			zap.String("order_id", n.OrderID),
		)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	if n.StatusCode != StatusSuccess {
		// Pending/canceled/failed notifies are acknowledged but change
		// nothing; the order simply stays unpaid.
		log.Info("ignoring non-success payment notify",
			zap.String("order_id", n.OrderID),
			zap.String("status_code", n.StatusCode),
		)
		w.WriteHeader(http.StatusOK)
		return
	}

	_, err = h.OrderSvc.MarkPaid(r.Context(), n.OrderID, order.GatewayResult{
		TransactionID: n.PaymentID,
		Status:        n.StatusCode,
	})
	switch {
	case err == nil:
	case errors.Is(err, order.ErrOrderAlreadyPaid):
		// Gateways retry notifies; a duplicate is fine.
	case errors.Is(err, order.ErrOrderNotFound):
		http.Error(w, "order not found", http.StatusNotFound)
		return
	default:
		log.Error("failed to mark order paid from notify", zap.Error(err))
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}
