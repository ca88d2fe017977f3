package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// ContextKey is the type used for auth values stored in request contexts.
type ContextKey string

const (
	// UserIDKey carries the authenticated user's id.
	UserIDKey ContextKey = "user_id"
	// UserEmailKey carries the authenticated user's email.
	UserEmailKey ContextKey = "user_email"
)

// TokenHeader is the header the web client sends its session token in.
const TokenHeader = "x-auth-token"

// Middleware gates handlers behind token verification.
type Middleware struct {
	jwtService *JWTService
	log        *zap.Logger
}

func NewMiddleware(jwtService *JWTService, log *zap.Logger) *Middleware {
	return &Middleware{
		jwtService: jwtService,
		log:        log,
	}
}

// RequireAuth verifies the request token and injects the caller's
// identity into the context. Missing, malformed, expired or forged
// tokens are all rejected with 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := extractToken(r)
		if tokenString == "" {
			m.log.Debug("missing auth token")
			writeUnauthorized(w, "No authentication token, access denied")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			m.log.Debug("invalid token", zap.Error(err))
			if err == ErrExpiredToken {
				writeUnauthorized(w, "Token expired")
			} else {
				writeUnauthorized(w, "Invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

		m.log.Debug("authenticated user", zap.Int64("user_id", claims.UserID))

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// extractToken reads the token from the x-auth-token header, falling
// back to a standard Authorization: Bearer header.
func extractToken(r *http.Request) string {
	if token := r.Header.Get(TokenHeader); token != "" {
		return token
	}
	return ExtractTokenFromBearer(r.Header.Get("Authorization"))
}

// GetUserIDFromContext returns the authenticated user's id.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// GetUserEmailFromContext returns the authenticated user's email.
func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

// CORS allows the external web client to call the API from any origin,
// mirroring the open CORS policy the client was built against.
func (m *Middleware) CORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, "+TokenHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
