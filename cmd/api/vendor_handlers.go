package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopflow/pkg/otel"
	"shopflow/pkg/vendorpkg"
)

// registerVendorHandler creates a vendor account.
// @Summary Register vendor
// @Accept json
// @Produce json
// @Param account body registerRequest true "Account"
// @Success 201
// @Router /vendors/register [post]
func registerVendorHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerVendorHandler")
	defer span.End()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	v := vendor.Vendor{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := vendors.Create(ctx, v); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": v.ID})
}

// loginVendorHandler authenticates a vendor and issues a bearer token.
// @Summary Login vendor
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /vendors/login [post]
func loginVendorHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginVendorHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	v, err := vendors.GetByEmail(ctx, req.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(v.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, errBody{Error: "invalid_credentials"})
		return
	}
	token, err := issueVendorToken(v.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "vendorId": v.ID})
}
