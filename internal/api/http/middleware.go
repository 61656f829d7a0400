package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"kabadi-client/internal/config"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/service"
)

// AuthMiddleware checks each matched route against its required security
// level and the locally held session
type AuthMiddleware struct {
	session *service.Session
}

func NewAuthMiddleware(session *service.Session) *AuthMiddleware {
	return &AuthMiddleware{session: session}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeKey(r)
		level := config.GetSecurityLevel(route)

		// Public endpoint - skip session check
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		var user service.SessionUser
		loggedIn := false
		if m.session != nil {
			user, loggedIn = m.session.Current()
		}
		if !level.Allows(loggedIn, user.UserType) {
			logger.Debug("Route denied", "route", route, "loggedIn", loggedIn, "userType", user.UserType)
			if !loggedIn {
				writeError(w, service.ErrNotAuthenticated)
			} else {
				writeError(w, service.ErrForbidden)
			}
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routeKey is the "METHOD /template" key of the matched route
func routeKey(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return r.Method + " " + r.URL.Path
	}
	tmpl, err := route.GetPathTemplate()
	if err != nil {
		return r.Method + " " + r.URL.Path
	}
	return r.Method + " " + tmpl
}
