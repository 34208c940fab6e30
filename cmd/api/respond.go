package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"shopflow/pkg/cart"
	"shopflow/pkg/catalog"
	"shopflow/pkg/fulfill"
	"shopflow/pkg/order"
	"shopflow/pkg/user"
	"shopflow/pkg/vendorpkg"
)

// errBody is the language-neutral error envelope; Error is a machine code a
// localization layer maps to user-facing text.
type errBody struct {
	Error     string `json:"error"`
	ProductID string `json:"productId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors to HTTP statuses and error codes. Storage
// failure text never reaches the client.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var short *catalog.InsufficientStockError
	switch {
	case errors.As(err, &short):
		writeJSON(w, http.StatusConflict, errBody{Error: "insufficient_stock", ProductID: short.ProductID})
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, vendor.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody{Error: "not_found"})
	case errors.Is(err, cart.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_quantity"})
	case errors.Is(err, fulfill.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, errBody{Error: "empty_cart"})
	case errors.Is(err, fulfill.ErrEmptyAddress):
		writeJSON(w, http.StatusBadRequest, errBody{Error: "address_required"})
	case errors.Is(err, fulfill.ErrMixedVendors):
		writeJSON(w, http.StatusBadRequest, errBody{Error: "mixed_vendors"})
	case errors.Is(err, fulfill.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errBody{Error: "forbidden"})
	case errors.Is(err, order.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, errBody{Error: "invalid_transition"})
	case errors.Is(err, user.ErrEmailTaken), errors.Is(err, vendor.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errBody{Error: "email_taken"})
	default:
		log.Error(ctx, "internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errBody{Error: "internal"})
	}
}
