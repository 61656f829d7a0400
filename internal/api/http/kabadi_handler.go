package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/service"
)

// KabadiHandler serves the collector's transaction log, loyalty coins,
// profile and assigned bookings
type KabadiHandler struct {
	workflow     *service.TransactionWorkflow
	profileSvc   service.ProfileService
	dashboardSvc service.DashboardService
	bookingSvc   service.BookingService
	kcoinsSvc    service.KCoinsService
}

func NewKabadiHandler(s *Services) *KabadiHandler {
	return &KabadiHandler{
		workflow:     s.Transactions,
		profileSvc:   s.Profiles,
		dashboardSvc: s.Dashboards,
		bookingSvc:   s.Bookings,
		kcoinsSvc:    s.KCoins,
	}
}

func registerKabadiRoutes(r *mux.Router, s *Services) {
	h := NewKabadiHandler(s)

	r.HandleFunc("/transactions/draft", h.Draft).Methods(http.MethodGet)
	r.HandleFunc("/transactions/draft/pick/{material}", h.PickMaterial).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/items", h.AddItem).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/items/{id}", h.UpdateItem).Methods(http.MethodPut)
	r.HandleFunc("/transactions/draft/items/{id}/edit", h.BeginEdit).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/edit", h.CancelEdit).Methods(http.MethodDelete)
	r.HandleFunc("/transactions/draft/items/{id}", h.RemoveItem).Methods(http.MethodDelete)
	r.HandleFunc("/transactions/draft/confirm", h.Confirm).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/back", h.Back).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/submit", h.Submit).Methods(http.MethodPost)
	r.HandleFunc("/transactions/draft/reset", h.Reset).Methods(http.MethodPost)

	if s.Profiles != nil {
		r.HandleFunc("/kabadi/profile", h.GetProfile).Methods(http.MethodGet)
		r.HandleFunc("/kabadi/profile", h.UpdateProfile).Methods(http.MethodPut)
	}
	if s.Dashboards != nil {
		r.HandleFunc("/kabadi/dashboard", h.Dashboard).Methods(http.MethodGet)
	}
	if s.KCoins != nil {
		r.HandleFunc("/kabadi/kcoins", h.KCoins).Methods(http.MethodGet)
		r.HandleFunc("/kabadi/kcoins/redeem", h.Redeem).Methods(http.MethodPost)
	}
	if s.Bookings != nil {
		r.HandleFunc("/bookings/kabadi", h.ListBookings).Methods(http.MethodGet)
		r.HandleFunc("/bookings/{id}/status", h.UpdateStatus).Methods(http.MethodPatch)
		r.HandleFunc("/bookings/{id}", h.UpdateBooking).Methods(http.MethodPut)
	}
}

func (h *KabadiHandler) Draft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workflow.Draft())
}

func (h *KabadiHandler) PickMaterial(w http.ResponseWriter, r *http.Request) {
	m, err := domain.ParseMaterialType(mux.Vars(r)["material"])
	if err != nil {
		writeError(w, domain.ErrUnknownMaterial)
		return
	}
	p, err := h.workflow.PickMaterial(m)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *KabadiHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.addOrUpdate(w, r, "")
}

func (h *KabadiHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	h.addOrUpdate(w, r, mux.Vars(r)["id"])
}

func (h *KabadiHandler) addOrUpdate(w http.ResponseWriter, r *http.Request, editingID string) {
	var p service.TransactionPicker
	if err := decode(r, &p); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.workflow.AddOrUpdateItem(p, editingID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if editingID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, item)
}

func (h *KabadiHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	p, err := h.workflow.BeginEdit(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *KabadiHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.workflow.CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}

func (h *KabadiHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.RemoveItem(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *KabadiHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	b, err := h.workflow.Confirm()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *KabadiHandler) Back(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Back(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.workflow.Draft())
}

func (h *KabadiHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CitizenID *int64 `json:"citizenId"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.workflow.Submit(r.Context(), req.CitizenID)
	if err != nil {
		if summary == nil || len(summary.LoggedLineIDs) == 0 {
			writeError(w, err)
			return
		}
		writeJSON(w, statusFor(err), submitErrorResponse{Error: service.UserMessage(err), Result: summary})
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (h *KabadiHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.workflow.Reset()
	writeJSON(w, http.StatusOK, h.workflow.Draft())
}

func (h *KabadiHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileSvc.GetKabadiProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *KabadiHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	fields := map[string]string{}
	if err := decode(r, &fields); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.profileSvc.UpdateKabadiProfile(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *KabadiHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, txs, err := h.dashboardSvc.KabadiDashboard(r.Context(), domain.Period(r.URL.Query().Get("period")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Summary: summary, Transactions: txs})
}

func (h *KabadiHandler) KCoins(w http.ResponseWriter, r *http.Request) {
	st, err := h.kcoinsSvc.GetStatus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *KabadiHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Commodity string `json:"commodity"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := h.kcoinsSvc.Redeem(r.Context(), req.Commodity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *KabadiHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookingSvc.ListKabadiBookings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *KabadiHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req struct {
		Status domain.BookingStatus `json:"status"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.bookingSvc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *KabadiHandler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var upd domain.BookingUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, err)
		return
	}
	b, err := h.bookingSvc.UpdateBooking(r.Context(), id, &upd)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
