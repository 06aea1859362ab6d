package server

import (
	"net/http"
	"strings"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/domain"
	"github.com/brunesovrbrauns/bdc-manager-app/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
)

// tokenQueryParam carries the token for websocket upgrades, where browsers
// cannot set headers.
const tokenQueryParam = "access_token"

// AuthMiddleware validates an HS256 JWT and sets the current user in context.
// The role is read from app_metadata.role when present, else from role.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				writeAuthError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			sub, _ := claims["sub"].(string)
			if sub == "" {
				writeAuthError(w, http.StatusUnauthorized, "invalid subject")
				return
			}
			email, _ := claims["email"].(string)
			ctx := authctx.WithCurrentUser(r.Context(), authctx.CurrentUser{
				Subject: sub,
				Email:   email,
				Role:    domain.ParseRole(roleClaim(claims)),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return r.URL.Query().Get(tokenQueryParam)
}

func roleClaim(claims jwt.MapClaims) string {
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		if role, ok := meta["role"].(string); ok && role != "" {
			return role
		}
	}
	role, _ := claims["role"].(string)
	return role
}

// RequireRole ensures the user has one of the allowed roles.
func RequireRole(roles ...domain.AgentRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.AgentRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := allowed[u.Role]; !ok {
				writeAuthError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + http.StatusText(status) + `","message":"` + message + `"}`))
}
