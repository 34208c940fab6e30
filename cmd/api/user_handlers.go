package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopflow/pkg/otel"
	"shopflow/pkg/user"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerUserHandler creates a customer account.
// @Summary Register user
// @Accept json
// @Produce json
// @Param account body registerRequest true "Account"
// @Success 201
// @Router /users/register [post]
func registerUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "registerUserHandler")
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
	u := user.User{ID: uuid.NewString(), Name: req.Name, Email: req.Email, PasswordHash: string(hash)}
	if err := users.Create(ctx, u); err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": u.ID})
}

// loginUserHandler authenticates a customer and sets a session cookie.
// @Summary Login user
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /users/login [post]
func loginUserHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginUserHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, errBody{Error: "invalid_request"})
		return
	}
	u, err := users.GetByEmail(ctx, req.Email)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, errBody{Error: "invalid_credentials"})
		return
	}

	sid := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := redisClient.Set(ctx, "session:"+sid, u.ID, cfg.SessionTTL).Err(); err != nil {
		writeError(ctx, w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sid,
		Path:     "/",
		Expires:  time.Now().Add(cfg.SessionTTL),
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusOK)
}
