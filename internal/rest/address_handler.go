package rest

import (
	"net/http"

	"nutrimart-be/internal/address"
	"nutrimart-be/internal/utils"

	"github.com/google/uuid"
)

type AddressHandler struct {
	Repo address.Repository
}

func NewAddressHandler(repo address.Repository) *AddressHandler {
	return &AddressHandler{Repo: repo}
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.Repo.GetByUserID(r.Context(), callerID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, addresses)
}

type createAddressRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	PostalCode   string  `json:"postalCode"`
	Country      string  `json:"country"`
	SetAsDefault bool    `json:"setAsDefault"`
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAddressRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Address == "" {
		utils.WriteJSONError(w, "address is required", http.StatusBadRequest)
		return
	}

	a, err := h.Repo.Create(r.Context(), callerID(r), address.CreateAddressInput{
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		SetAsDefault: req.SetAsDefault,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	addressID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.WriteJSONError(w, "invalid address id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.SetDefault(r.Context(), callerID(r), addressID); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "default address updated"})
}
