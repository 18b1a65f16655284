package rest

import (
	"errors"
	"net/http"

	"nutrimart-be/internal/address"
	"nutrimart-be/internal/cart"
	"nutrimart-be/internal/logger"
	"nutrimart-be/internal/order"
	"nutrimart-be/internal/payhere"
	"nutrimart-be/internal/product"
	"nutrimart-be/internal/user"
	"nutrimart-be/internal/utils"

	"go.uber.org/zap"
)

// statusFor maps domain sentinel errors onto HTTP status codes. Anything
// unrecognized is a 500 and gets logged by writeError.
func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, order.ErrNoOrderItems),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrShippingAddressRequired),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrInvalidStock),
		errors.Is(err, user.ErrInvalidRegistration):
		return http.StatusBadRequest

	case errors.Is(err, cart.ErrUserNotAuthenticated),
		errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, order.ErrUnauthorized):
		return http.StatusForbidden

	case errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, address.ErrAddressNotFound):
		return http.StatusNotFound

	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, order.ErrOrderAlreadyPaid):
		return http.StatusConflict

	case errors.Is(err, payhere.ErrMerchantConfigMissing):
		return http.StatusInternalServerError

	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		// Internal details stay in the log, not the response.
		utils.WriteJSONError(w, "internal server error", code)
		return
	}

	utils.WriteJSONError(w, err.Error(), code)
}
