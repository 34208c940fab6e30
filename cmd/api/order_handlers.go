package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"shopflow/pkg/order"
	"shopflow/pkg/otel"
)

type placeOrderRequest struct {
	Address string `json:"address"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// placeOrderHandler converts the caller's cart into an order.
// @Summary Place order
// @Accept json
// @Produce json
// @Param order body placeOrderRequest true "Delivery details"
// @Success 201 {object} order.Order
// @Security ApiKeyAuth
// @Router /orders [post]
func placeOrderHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "placeOrderHandler")
	defer span.End()

	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	o, err := fulfiller.PlaceOrder(ctx, userID(ctx), req.Address)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// listOrdersHandler lists the caller's orders.
// @Summary List orders
// @Produce json
// @Success 200 {array} order.Order
// @Security ApiKeyAuth
// @Router /orders [get]
func listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listOrdersHandler")
	defer span.End()

	out, err := fulfiller.ListOrders(ctx, userID(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// updateOrderStatusHandler transitions an order's status on behalf of its
// owning vendor.
// @Summary Update order status
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body updateStatusRequest true "New status"
// @Success 200 {object} order.Order
// @Security ApiKeyAuth
// @Router /vendors/orders/{id}/status [put]
func updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateOrderStatusHandler")
	defer span.End()

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	o, err := fulfiller.UpdateOrderStatus(ctx, mux.Vars(r)["id"], vendorID(ctx), order.Status(req.Status))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}
