package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository/rest"
	"kabadi-client/internal/service"
)

// Services are the workflows exposed over the local API. Nil members leave
// their routes unregistered.
type Services struct {
	Session      *service.Session
	Auth         service.AuthService
	Profiles     service.ProfileService
	Dashboards   service.DashboardService
	Bookings     service.BookingService
	KCoins       service.KCoinsService
	Booking      *service.BookingWorkflow
	Transactions *service.TransactionWorkflow
	Inbox        *service.Inbox
	Hub          *NotificationHub
}

var errBadRequest = errors.New("malformed request")

// NewRouter registers every route behind the session middleware
func NewRouter(s *Services) *mux.Router {
	r := mux.NewRouter()
	r.Use(NewAuthMiddleware(s.Session).Handler)

	registerAuthRoutes(r, s)
	if s.Booking != nil {
		registerCitizenRoutes(r, s)
	}
	if s.Transactions != nil {
		registerKabadiRoutes(r, s)
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := service.UserMessage(err)
	if errors.Is(err, errBadRequest) {
		msg = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps workflow errors onto HTTP statuses. Backend client errors
// keep their status; backend failures become 502.
func statusFor(err error) int {
	var apiErr *rest.APIError
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrCollectorNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrSubmitInProgress), errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrBookingNotPending), errors.Is(err, service.ErrActiveRedemption),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, service.ErrLocationUnavailable):
		return http.StatusServiceUnavailable
	case service.IsValidationError(err):
		return http.StatusBadRequest
	case errors.As(err, &apiErr):
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return errBadRequest
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, errBadRequest
	}
	return id, nil
}
