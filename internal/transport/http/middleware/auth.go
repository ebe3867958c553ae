package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"showhub/internal/httputil"
	"showhub/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID
	UserIDKey contextKey = "user_id"
)

// AuthMiddleware creates a middleware that validates JWT tokens.
// Checks Authorization header first (for mobile), then falls back to cookie (for web).
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				httputil.WriteUnauthorized(w, "Missing authentication token")
				return
			}

			userID, errCode := parseUserID(tokenString, jwtSecret)
			if errCode != "" {
				message := "Invalid authentication token"
				if errCode == model.CodeTokenExpired {
					message = "Access token has expired"
				}
				httputil.WriteUnauthorizedWithCode(w, errCode, message)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves the viewer when a valid token is
// present but lets anonymous requests through. Invalid or expired tokens
// are treated as anonymous rather than rejected.
func OptionalAuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString != "" {
				if userID, errCode := parseUserID(tokenString, jwtSecret); errCode == "" {
					ctx := context.WithValue(r.Context(), UserIDKey, userID)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// parseUserID validates the token and extracts the user_id claim.
// Returns an error code from model on failure, "" on success.
func parseUserID(tokenString, jwtSecret string) (int64, string) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "expired") {
			return 0, model.CodeTokenExpired
		}
		return 0, model.CodeTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, model.CodeTokenInvalid
	}

	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, model.CodeTokenInvalid
	}
	return int64(userIDFloat), ""
}

// GetUserIDFromContext extracts the user ID from the request context.
// Returns the user ID and true if found, or 0 and false if not found.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDKey).(int64)
	return userID, ok
}

// ViewerID returns the authenticated user ID as a nullable pointer, for
// handlers where authentication is optional.
func ViewerID(ctx context.Context) *int64 {
	if userID, ok := GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}
