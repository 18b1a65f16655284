package rest

import (
	"net/http"

	"nutrimart-be/internal/middleware"
	"nutrimart-be/internal/payhere"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Users     *UserHandler
	Products  *ProductHandler
	Cart      *CartHandler
	Orders    *OrderHandler
	Addresses *AddressHandler
	Webhook   *payhere.WebhookHandler
}

// NewRouter builds the API mux. Per-route guards live here; the outer
// chain (request id, logging, rate limit, token parsing) is applied by
// the server entrypoint around the whole mux.
func NewRouter(deps RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	// Accounts
	mux.HandleFunc("POST /api/users/login", deps.Users.Login)
	mux.HandleFunc("POST /api/users", deps.Users.Register)
	mux.Handle("GET /api/users/profile", authed(deps.Users.Profile))

	// Saved addresses
	mux.Handle("GET /api/users/addresses", authed(deps.Addresses.List))
	mux.Handle("POST /api/users/addresses", authed(deps.Addresses.Create))
	mux.Handle("PUT /api/users/addresses/{id}/default", authed(deps.Addresses.SetDefault))

	// Catalog
	mux.HandleFunc("GET /api/products", deps.Products.List)
	mux.HandleFunc("GET /api/products/{id}", deps.Products.Get)
	mux.Handle("POST /api/products", admin(deps.Products.Create))
	mux.Handle("PUT /api/products/{id}", admin(deps.Products.Update))
	mux.Handle("DELETE /api/products/{id}", admin(deps.Products.Delete))

	// Cart
	mux.Handle("GET /api/cart", authed(deps.Cart.Get))
	mux.Handle("POST /api/cart", authed(deps.Cart.Add))
	mux.Handle("PUT /api/cart/{productId}", authed(deps.Cart.SetQuantity))
	mux.Handle("DELETE /api/cart/{productId}", authed(deps.Cart.Remove))
	mux.Handle("DELETE /api/cart", authed(deps.Cart.Clear))

	// Orders
	mux.Handle("POST /api/orders", authed(deps.Orders.Create))
	mux.Handle("GET /api/orders", admin(deps.Orders.List))
	mux.Handle("GET /api/orders/myorders", authed(deps.Orders.MyOrders))
	mux.Handle("GET /api/orders/summary", admin(deps.Orders.Summary))
	mux.Handle("GET /api/orders/{id}", authed(deps.Orders.Get))
	mux.Handle("PUT /api/orders/{id}/pay", authed(deps.Orders.Pay))
	mux.Handle("PUT /api/orders/{id}/deliver", admin(deps.Orders.Deliver))
	mux.Handle("POST /api/orders/generate-payhere-hash", authed(deps.Orders.GenerateHash))

	// Gateway server-to-server callback; authenticated by md5sig, not JWT.
	mux.HandleFunc("POST /api/payments/notify", deps.Webhook.Notify)

	return mux
}
