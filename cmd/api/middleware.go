package main

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"shopflow/pkg/metrics"
	"shopflow/pkg/otel"
)

type ctxKey int

const (
	userKey ctxKey = iota
	vendorKey
)

func userID(ctx context.Context) string {
	id, _ := ctx.Value(userKey).(string)
	return id
}

func vendorID(ctx context.Context) string {
	id, _ := ctx.Value(vendorKey).(string)
	return id
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sr, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(sr.status)).
			Observe(time.Since(start).Seconds())
	})
}

// authMiddleware ensures a valid user session exists.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errBody{Error: "unauthorized"})
			return
		}
		id, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || id == "" {
			writeJSON(w, http.StatusUnauthorized, errBody{Error: "unauthorized"})
			return
		}
		ctx := context.WithValue(r.Context(), userKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type vendorClaims struct {
	VendorID string `json:"vendorId"`
	jwt.RegisteredClaims
}

func issueVendorToken(id string) (string, error) {
	claims := vendorClaims{
		VendorID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// vendorAuthMiddleware ensures a valid vendor bearer token.
func vendorAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errBody{Error: "token_missing"})
			return
		}
		token, err := jwt.ParseWithClaims(raw, &vendorClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeJSON(w, http.StatusForbidden, errBody{Error: "invalid_token"})
			return
		}
		claims := token.Claims.(*vendorClaims)
		ctx := context.WithValue(r.Context(), vendorKey, claims.VendorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
