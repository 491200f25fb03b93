package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORSMiddleware answers preflight requests and sets CORS headers for allowed origins
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed := allowedOrigin(r.Header.Get("Origin"), allowedOrigins); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Add("Vary", "Origin")
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// allowedOrigin returns the value of Access-Control-Allow-Origin for the request origin,
// or "" if the origin is not allowed
func allowedOrigin(origin string, allowedOrigins []string) string {
	if origin == "" {
		return ""
	}
	if slices.Contains(allowedOrigins, "*") {
		return "*"
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(origin, allowed) {
			return origin
		}
	}
	return ""
}
