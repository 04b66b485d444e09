package middleware

import (
	"net/http"
	"strings"

	"github.com/inkwellhq/inkwell/internal/auth"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"

	"github.com/inkwellhq/inkwell/internal/telemetry/tracing"
	"github.com/inkwellhq/inkwell/pkg"
)

// AuthTokenHeader carries the session token of an authenticated caller.
const AuthTokenHeader = "X-INKWELL-TOKEN"

type AuthMiddlewareHandler struct {
	loginChecker auth.Checker
	allowedPaths map[string]bool
	// paths where only GET is public (reads are open, mutations need a token)
	allowedGetPathsPrefixes []string
}

func NewAuthMiddlewareHandler(loginChecker auth.Checker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		loginChecker: loginChecker,
		allowedPaths: map[string]bool{
			"/":                  true,
			"/version":           true,
			"/api/auth/login":    true,
			"/api/auth/register": true,
		},
		allowedGetPathsPrefixes: []string{
			"/api/blogs",
			"/api/users/",
			"/api/shares/blog/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsAlwaysAllowed(method, path string) bool {
	if h.allowedPaths[path] {
		return true
	}
	if method != http.MethodGet {
		return false
	}
	for _, prefix := range h.allowedGetPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthCheck gates non-public routes behind a valid session token, and stores
// the resolved user id in the request context for the handlers downstream.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, PATCH, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			authToken := r.Header.Get(AuthTokenHeader)

			// resolve identity when a token is present, even on public paths,
			// so e.g. the blog listing can mark the caller's own likes
			if authToken != "" {
				userID, err := h.loginChecker.LoggedUserID(ctx, authToken)
				if err == nil {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r.WithContext(ContextWithUserID(ctx, userID)))
					return
				}
				if h.pathIsAlwaysAllowed(r.Method, r.URL.Path) {
					span.SetStatus(codes.Ok, "ok")
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				reqIp, _ := pkg.ReadUserIP(r)
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s [%s]", r.URL.Path, reqIp)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			if h.pathIsAlwaysAllowed(r.Method, r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			reqIp, _ := pkg.ReadUserIP(r)
			log.Tracef("[missing token] [auth middleware] unauthorized => %s [%s]", r.URL.Path, reqIp)
			http.Error(w, "no can do", http.StatusUnauthorized)
			span.SetStatus(codes.Error, "missing-auth-token")
		})
	}
}
