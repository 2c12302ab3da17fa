package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Shivanand-hulikatti/event-attendee-api/internal/auth"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/model"
	"github.com/Shivanand-hulikatti/event-attendee-api/internal/service"
)

type claimsKey struct{}

// ContextWithClaims returns a copy of ctx carrying the verified claims.
func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims attached by RequireAuth, if any.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}

// RequireAuth rejects requests without a valid token in the Authorization
// header: 401 when the header is missing, 400 when the token does not verify.
func RequireAuth(tokens *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Access denied")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid token")
				return
			}

			ctx := ContextWithClaims(r.Context(), claims)
			zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Str("username", claims.Username)
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthHandler serves the login endpoint.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/login
// A missing or unreadable body is treated like wrong credentials.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	resp, err := h.svc.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeServiceError(w, r, err, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
