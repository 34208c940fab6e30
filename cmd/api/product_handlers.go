package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"shopflow/pkg/bus"
	"shopflow/pkg/catalog"
	"shopflow/pkg/listing"
	"shopflow/pkg/otel"
)

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
}

// listProductsHandler serves the public storefront listing.
// @Summary List products
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param category query string false "Category filter"
// @Param sort query string false "Sort field"
// @Success 200 {object} catalog.Listing
// @Router /products [get]
func listProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listProductsHandler")
	defer span.End()
	serveListing(ctx, w, r, listing.PublicScope, "")
}

// listVendorProductsHandler serves the authenticated vendor's own listing.
// @Summary List vendor products
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param category query string false "Category filter"
// @Param sort query string false "Sort field"
// @Success 200 {object} catalog.Listing
// @Security ApiKeyAuth
// @Router /vendors/products [get]
func listVendorProductsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listVendorProductsHandler")
	defer span.End()
	vid := vendorID(ctx)
	serveListing(ctx, w, r, vid, vid)
}

// serveListing answers a listing query through the cache: a hit replays the
// cached body, a miss queries the catalog and stores the response under the
// canonical key.
func serveListing(ctx context.Context, w http.ResponseWriter, r *http.Request, scope, vendorFilter string) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}
	category := r.URL.Query().Get("category")
	sort := r.URL.Query().Get("sort")

	key := listing.Key{Scope: scope, Page: page, Limit: limit, Category: category, Sort: sort}
	if cached, ok, err := cache.Lookup(ctx, key); err != nil {
		log.Warn(ctx, "listing cache lookup failed", "key", key.String(), "error", err)
	} else if ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	l, err := products.List(ctx, catalog.Query{
		VendorID: vendorFilter,
		Category: category,
		Sort:     sort,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	body, err := json.Marshal(l)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := cache.Store(ctx, key, body, cfg.ListingTTL); err != nil {
		log.Warn(ctx, "listing cache store failed", "key", key.String(), "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// createProductHandler adds a product to the vendor's catalog.
// @Summary Create product
// @Accept json
// @Produce json
// @Param product body productRequest true "Product"
// @Success 201 {object} catalog.Product
// @Security ApiKeyAuth
// @Router /vendors/products [post]
func createProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createProductHandler")
	defer span.End()

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Price < 0 || req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	p := catalog.Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		VendorID:    vendorID(ctx),
	}
	if err := products.Create(ctx, p); err != nil {
		writeError(ctx, w, err)
		return
	}
	invalidateListings(ctx, p.VendorID)
	publisher.Publish(ctx, bus.Event{Topic: bus.TopicInventoryUpdated, Payload: map[string]any{
		"productId": p.ID,
		"stock":     p.Stock,
	}})
	writeJSON(w, http.StatusCreated, p)
}

// updateProductHandler modifies one of the vendor's products.
// @Summary Update product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body productRequest true "Product"
// @Success 200 {object} catalog.Product
// @Security ApiKeyAuth
// @Router /vendors/products/{id} [put]
func updateProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateProductHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	existing, err := products.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if existing.VendorID != vendorID(ctx) {
		// Another vendor's product is invisible here, same as absent.
		writeJSON(w, http.StatusNotFound, errBody{Error: "not_found"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Price < 0 || req.Stock < 0 {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	p := catalog.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		VendorID:    existing.VendorID,
	}
	if err := products.Update(ctx, p); err != nil {
		writeError(ctx, w, err)
		return
	}
	invalidateListings(ctx, p.VendorID)
	publisher.Publish(ctx, bus.Event{Topic: bus.TopicInventoryUpdated, Payload: map[string]any{
		"productId": p.ID,
		"stock":     p.Stock,
	}})
	writeJSON(w, http.StatusOK, p)
}

// deleteProductHandler removes one of the vendor's products.
// @Summary Delete product
// @Param id path string true "Product ID"
// @Success 204
// @Security ApiKeyAuth
// @Router /vendors/products/{id} [delete]
func deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteProductHandler")
	defer span.End()

	id := mux.Vars(r)["id"]
	existing, err := products.Get(ctx, id)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if existing.VendorID != vendorID(ctx) {
		writeJSON(w, http.StatusNotFound, errBody{Error: "not_found"})
		return
	}
	if err := products.Delete(ctx, id); err != nil {
		writeError(ctx, w, err)
		return
	}
	invalidateListings(ctx, existing.VendorID)
	w.WriteHeader(http.StatusNoContent)
}

// invalidateListings drops cached listings for the vendor's scope and the
// public scope before the write is acknowledged.
func invalidateListings(ctx context.Context, vid string) {
	for _, scope := range []string{vid, listing.PublicScope} {
		if err := cache.InvalidateScope(ctx, scope); err != nil {
			log.Warn(ctx, "listing cache invalidation failed", "scope", scope, "error", err)
		}
	}
}
