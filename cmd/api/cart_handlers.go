package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"shopflow/pkg/otel"
)

type addLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// getCartHandler returns the caller's cart with product details.
// @Summary Get cart
// @Produce json
// @Success 200 {object} cart.ResolvedCart
// @Security ApiKeyAuth
// @Router /cart [get]
func getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getCartHandler")
	defer span.End()

	rc, err := carts.Get(ctx, userID(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, rc)
}

// addCartLineHandler adds a product to the caller's cart.
// @Summary Add cart line
// @Accept json
// @Produce json
// @Param line body addLineRequest true "Line"
// @Success 200 {object} cart.Cart
// @Security ApiKeyAuth
// @Router /cart/items [post]
func addCartLineHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addCartLineHandler")
	defer span.End()

	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	c, err := carts.AddLine(ctx, userID(ctx), req.ProductID, req.Quantity)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// removeCartLineHandler drops a product from the caller's cart.
// @Summary Remove cart line
// @Produce json
// @Param productId path string true "Product ID"
// @Success 200 {object} cart.Cart
// @Security ApiKeyAuth
// @Router /cart/items/{productId} [delete]
func removeCartLineHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeCartLineHandler")
	defer span.End()

	c, err := carts.RemoveLine(ctx, userID(ctx), mux.Vars(r)["productId"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
