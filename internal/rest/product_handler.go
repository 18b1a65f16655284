package rest

import (
	"net/http"
	"strconv"
	"strings"

	"nutrimart-be/internal/product"
	"nutrimart-be/internal/utils"
)

type ProductHandler struct {
	Svc product.Service
}

func NewProductHandler(svc product.Service) *ProductHandler {
	return &ProductHandler{Svc: svc}
}

// List serves the public catalog. Query params: keyword, category,
// inStock, sort ("price"|"name"|"rating", "-" prefix for descending),
// pageNumber, pageSize.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := product.QueryOptions{Limit: 20, Page: 1}

	q := r.URL.Query()
	if kw := strings.TrimSpace(q.Get("keyword")); kw != "" {
		opts.Search = &kw
	}
	if cat := strings.TrimSpace(q.Get("category")); cat != "" {
		opts.Category = &cat
	}
	if q.Get("inStock") == "true" {
		inStock := true
		opts.InStock = &inStock
	}
	if sort := q.Get("sort"); sort != "" {
		opts.SortField = strings.TrimPrefix(sort, "-")
		opts.SortDesc = strings.HasPrefix(sort, "-")
	}
	if page, err := strconv.ParseUint(q.Get("pageNumber"), 10, 16); err == nil && page > 0 {
		opts.Page = uint16(page)
	}
	if size, err := strconv.ParseUint(q.Get("pageSize"), 10, 16); err == nil && size > 0 && size <= 100 {
		opts.Limit = uint16(size)
	}

	products, err := h.Svc.GetList(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Svc.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

type productRequest struct {
	Name         string  `json:"name"`
	ImageURL     string  `json:"image"`
	Flavor       string  `json:"flavor"`
	Category     string  `json:"category"`
	Weight       string  `json:"weight"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.Svc.Create(r.Context(), product.NewProductInput{
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		Flavor:       req.Flavor,
		Category:     req.Category,
		Weight:       req.Weight,
		Description:  req.Description,
		Price:        req.Price,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, p)
}

type productUpdateRequest struct {
	Name         *string  `json:"name"`
	ImageURL     *string  `json:"image"`
	Flavor       *string  `json:"flavor"`
	Category     *string  `json:"category"`
	Weight       *string  `json:"weight"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	CountInStock *int     `json:"countInStock"`
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productUpdateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.Svc.Update(r.Context(), r.PathValue("id"), product.UpdateProductInput{
		Name:         req.Name,
		ImageURL:     req.ImageURL,
		Flavor:       req.Flavor,
		Category:     req.Category,
		Weight:       req.Weight,
		Description:  req.Description,
		Price:        req.Price,
		CountInStock: req.CountInStock,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "product removed"})
}
