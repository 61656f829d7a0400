package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/service"
)

type AuthHandler struct {
	authSvc    service.AuthService
	profileSvc service.ProfileService
	session    *service.Session
	inbox      *service.Inbox
	hub        *NotificationHub
}

func NewAuthHandler(s *Services) *AuthHandler {
	return &AuthHandler{authSvc: s.Auth, profileSvc: s.Profiles, session: s.Session, inbox: s.Inbox, hub: s.Hub}
}

func registerAuthRoutes(r *mux.Router, s *Services) {
	h := NewAuthHandler(s)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/session", h.CurrentSession).Methods(http.MethodGet)
	if s.Inbox != nil {
		r.HandleFunc("/notifications", h.Notifications).Methods(http.MethodGet)
	}
	if s.Hub != nil {
		r.HandleFunc("/notifications/ws", s.Hub.ServeWS).Methods(http.MethodGet)
	}
	if s.Auth != nil {
		r.HandleFunc("/auth/send-otp", h.SendOTP).Methods(http.MethodPost)
		r.HandleFunc("/auth/verify-otp", h.VerifyOTP).Methods(http.MethodPost)
		r.HandleFunc("/auth/register/citizen", h.RegisterCitizen).Methods(http.MethodPost)
		r.HandleFunc("/auth/register/kabadi", h.RegisterKabadi).Methods(http.MethodPost)
		r.HandleFunc("/auth/admin/login", h.AdminLogin).Methods(http.MethodPost)
		r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	}
	if s.Profiles != nil {
		r.HandleFunc("/profile/language", h.UpdateLanguage).Methods(http.MethodPut)
	}
}

type otpRequest struct {
	Mobile   string          `json:"mobile"`
	OTP      string          `json:"otp"`
	UserType domain.UserType `json:"userType"`
}

func (h *AuthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type sessionResponse struct {
	LoggedIn bool                 `json:"loggedIn"`
	User     *service.SessionUser `json:"user,omitempty"`
}

func (h *AuthHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	var resp sessionResponse
	if h.session != nil {
		if u, ok := h.session.Current(); ok {
			resp = sessionResponse{LoggedIn: true, User: &u}
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.inbox.Drain())
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.authSvc.SendOTP(r.Context(), req.Mobile, req.UserType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.authSvc.VerifyOTP(r.Context(), req.Mobile, req.OTP, req.UserType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) RegisterCitizen(w http.ResponseWriter, r *http.Request) {
	var req domain.CitizenRegistration
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.authSvc.RegisterCitizen(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) RegisterKabadi(w http.ResponseWriter, r *http.Request) {
	var req domain.KabadiRegistration
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.authSvc.RegisterKabadi(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.authSvc.AdminLogin(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authSvc.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) UpdateLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.profileSvc.UpdateLanguage(r.Context(), req.Language); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
