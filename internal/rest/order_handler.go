package rest

import (
	"net/http"
	"strconv"

	"nutrimart-be/internal/metrics"
	"nutrimart-be/internal/order"
	"nutrimart-be/internal/payhere"
	"nutrimart-be/internal/utils"
)

type OrderHandler struct {
	Svc    order.Service
	Signer *payhere.Signer
}

func NewOrderHandler(svc order.Service, signer *payhere.Signer) *OrderHandler {
	return &OrderHandler{Svc: svc, Signer: signer}
}

// orderItemRequest declares every field the storefront sends. Only the
// product reference and quantity are consulted; name, image and price are
// re-derived from the live catalog inside the order transaction.
type orderItemRequest struct {
	ProductID string  `json:"product"`
	Name      string  `json:"name"`
	ImageURL  string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

type shippingAddressRequest struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// createOrderRequest accepts the client's price fields so strict decoding
// doesn't reject real storefront payloads, then discards them.
type createOrderRequest struct {
	OrderItems      []orderItemRequest      `json:"orderItems"`
	PaymentMethod   string                  `json:"paymentMethod"`
	ShippingAddress *shippingAddressRequest `json:"shippingAddress"`

	ItemsPrice    float64 `json:"itemsPrice"`
	TaxPrice      float64 `json:"taxPrice"`
	ShippingPrice float64 `json:"shippingPrice"`
	TotalPrice    float64 `json:"totalPrice"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lines := make([]order.RequestedLine, 0, len(req.OrderItems))
	for _, item := range req.OrderItems {
		lines = append(lines, order.RequestedLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	var shipTo *order.ShippingAddress
	if req.ShippingAddress != nil {
		shipTo = &order.ShippingAddress{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		}
	}

	o, err := h.Svc.CreateOrder(r.Context(), callerID(r), lines, req.PaymentMethod, shipTo)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, o)
}

// List is the admin listing across all users. Query params: isPaid,
// isDelivered ("true"/"false"), pageNumber, pageSize.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var opts order.ListOptions

	q := r.URL.Query()
	if v := q.Get("isPaid"); v == "true" || v == "false" {
		paid := v == "true"
		opts.IsPaid = &paid
	}
	if v := q.Get("isDelivered"); v == "true" || v == "false" {
		delivered := v == "true"
		opts.IsDelivered = &delivered
	}
	if page, err := strconv.ParseUint(q.Get("pageNumber"), 10, 16); err == nil && page > 0 {
		opts.Page = uint16(page)
	}
	if size, err := strconv.ParseUint(q.Get("pageSize"), 10, 16); err == nil && size > 0 && size <= 100 {
		opts.Limit = uint16(size)
	}

	orders, err := h.Svc.GetOrders(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.GetOrderDetail(r.Context(), callerID(r), r.PathValue("id"), utils.IsAdminFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.GetMyOrders(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, orders)
}

// payRequest is the client-reported completion event from the gateway's
// browser flow. The verified server-to-server path is /payments/notify.
type payRequest struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
}

func (h *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	orderID := r.PathValue("id")

	// Ownership check before mutating: only the owner (or an admin) may
	// report this order paid.
	if _, err := h.Svc.GetOrderDetail(r.Context(), callerID(r), orderID, utils.IsAdminFromContext(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}

	var req payRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// The gateway's browser flow doesn't always echo the payer email back;
	// fall back to the authenticated account's email.
	if req.EmailAddress == "" {
		req.EmailAddress = utils.GetUserEmailFromContext(r.Context())
	}

	o, err := h.Svc.MarkPaid(r.Context(), orderID, order.GatewayResult{
		TransactionID: req.TransactionID,
		Status:        req.Status,
		PayerEmail:    req.EmailAddress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	o, err := h.Svc.MarkDelivered(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, o)
}

type generateHashRequest struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type generateHashResponse struct {
	Hash       string `json:"hash"`
	MerchantID string `json:"merchantId"`
}

// GenerateHash signs a checkout session for the payment gateway redirect.
func (h *OrderHandler) GenerateHash(w http.ResponseWriter, r *http.Request) {
	var req generateHashRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Currency == "" {
		req.Currency = "LKR"
	}

	hash, merchantID, err := h.Signer.GenerateHash(req.OrderID, req.Amount, req.Currency)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, generateHashResponse{
		Hash:       hash,
		MerchantID: merchantID,
	})
}

type summaryResponse struct {
	Orders  int64            `json:"orders"`
	Revenue float64          `json:"revenue"`
	Process metrics.Snapshot `json:"process"`
}

// Summary is the admin dashboard aggregate: paid order count and revenue
// from the database, plus the live process counters.
func (h *OrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	count, revenue, err := h.Svc.Summary(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, summaryResponse{
		Orders:  count,
		Revenue: revenue,
		Process: metrics.Default.Snapshot(),
	})
}
