package rest

import (
	"net/http"

	"nutrimart-be/internal/cart"
	"nutrimart-be/internal/utils"
)

type CartHandler struct {
	Svc cart.Service
}

func NewCartHandler(svc cart.Service) *CartHandler {
	return &CartHandler{Svc: svc}
}

// callerID is zero for anonymous requests; the cart service rejects those
// itself, so handlers just pass whatever the context holds.
func callerID(r *http.Request) uint {
	id, _ := utils.GetUserIDFromContext(r.Context())
	return id
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.GetCart(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Add is additive: posting the same product twice merges quantities into
// one line.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.Svc.AddItem(r.Context(), callerID(r), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SetQuantity is absolute-set: a non-positive quantity removes the line,
// and a line that was never added is a 404.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req setQuantityRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.Svc.SetQuantity(r.Context(), callerID(r), r.PathValue("productId"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.RemoveItem(r.Context(), callerID(r), r.PathValue("productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.ClearCart(r.Context(), callerID(r)); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, cart.Cart{Items: []cart.ResolvedItem{}})
}
