// config/security_config.go
package config

import "kabadi-client/internal/domain"

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No session needed
	SecuritySession                      // Any logged-in user
	SecurityCitizen                      // Citizen session required
	SecurityKabadi                       // Collector session required
	SecurityAdmin                        // Admin session required
)

// RouteSecurityConfig maps local API routes ("METHOD /path") to their
// required security level
var RouteSecurityConfig = map[string]SecurityLevel{
	// Auth - Public
	"POST /auth/send-otp":         SecurityPublic,
	"POST /auth/verify-otp":       SecurityPublic,
	"POST /auth/register/citizen": SecurityPublic,
	"POST /auth/register/kabadi":  SecurityPublic,
	"POST /auth/admin/login":      SecurityPublic,
	"GET /auth/session":           SecurityPublic,
	"GET /health":                 SecurityPublic,
	"GET /notifications":          SecurityPublic,
	"GET /notifications/ws":       SecurityPublic,
	"POST /auth/logout":           SecuritySession,
	"PUT /profile/language":       SecuritySession,

	// Citizen - booking workflow
	"GET /citizen/profile":       SecurityCitizen,
	"PUT /citizen/profile":       SecurityCitizen,
	"GET /citizen/dashboard":     SecurityCitizen,
	"POST /booking/open":         SecurityCitizen,
	"POST /booking/close":        SecurityCitizen,
	"GET /cart":                  SecurityCitizen,
	"PUT /cart/selection":        SecurityCitizen,
	"POST /cart/items":           SecurityCitizen,
	"POST /cart/items/{id}/edit": SecurityCitizen,
	"DELETE /cart/edit":          SecurityCitizen,
	"DELETE /cart/items/{id}":    SecurityCitizen,
	"POST /search":               SecurityCitizen,
	"POST /search/skip":          SecurityCitizen,
	"GET /search":                SecurityCitizen,
	"DELETE /search":             SecurityCitizen,
	"POST /search/select/{id}":   SecurityCitizen,
	"POST /bookings/submit":      SecurityCitizen,
	"GET /bookings/citizen":      SecurityCitizen,
	"DELETE /bookings/{id}":      SecurityCitizen,

	// Kabadi - transactions and loyalty
	"GET /kabadi/profile":                      SecurityKabadi,
	"PUT /kabadi/profile":                      SecurityKabadi,
	"GET /kabadi/dashboard":                    SecurityKabadi,
	"GET /kabadi/kcoins":                       SecurityKabadi,
	"POST /kabadi/kcoins/redeem":               SecurityKabadi,
	"GET /bookings/kabadi":                     SecurityKabadi,
	"PATCH /bookings/{id}/status":              SecurityKabadi,
	"PUT /bookings/{id}":                       SecurityKabadi,
	"GET /transactions/draft":                  SecurityKabadi,
	"POST /transactions/draft/pick/{material}": SecurityKabadi,
	"POST /transactions/draft/items":           SecurityKabadi,
	"PUT /transactions/draft/items/{id}":       SecurityKabadi,
	"POST /transactions/draft/items/{id}/edit": SecurityKabadi,
	"DELETE /transactions/draft/edit":          SecurityKabadi,
	"DELETE /transactions/draft/items/{id}":    SecurityKabadi,
	"POST /transactions/draft/confirm":         SecurityKabadi,
	"POST /transactions/draft/back":            SecurityKabadi,
	"POST /transactions/draft/submit":          SecurityKabadi,
	"POST /transactions/draft/reset":           SecurityKabadi,
}

// GetSecurityLevel returns the security level for a route key
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}

// Allows reports whether a session of userType may call a route at level.
// Admins are allowed everywhere.
func (l SecurityLevel) Allows(loggedIn bool, userType domain.UserType) bool {
	switch l {
	case SecurityPublic:
		return true
	case SecuritySession:
		return loggedIn
	}
	if !loggedIn {
		return false
	}
	if userType == domain.UserTypeAdmin {
		return true
	}
	switch l {
	case SecurityCitizen:
		return userType == domain.UserTypeCitizen
	case SecurityKabadi:
		return userType == domain.UserTypeKabadi
	}
	return false
}
