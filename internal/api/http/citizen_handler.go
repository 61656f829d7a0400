package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/service"
)

// CitizenHandler serves the booking page: cart, collector search and
// submission, plus the citizen's profile and booking history
type CitizenHandler struct {
	workflow     *service.BookingWorkflow
	profileSvc   service.ProfileService
	dashboardSvc service.DashboardService
	bookingSvc   service.BookingService
}

func NewCitizenHandler(s *Services) *CitizenHandler {
	return &CitizenHandler{workflow: s.Booking, profileSvc: s.Profiles, dashboardSvc: s.Dashboards, bookingSvc: s.Bookings}
}

func registerCitizenRoutes(r *mux.Router, s *Services) {
	h := NewCitizenHandler(s)

	r.HandleFunc("/booking/open", h.Open).Methods(http.MethodPost)
	r.HandleFunc("/booking/close", h.Close).Methods(http.MethodPost)

	r.HandleFunc("/cart", h.GetCart).Methods(http.MethodGet)
	r.HandleFunc("/cart/selection", h.SetSelection).Methods(http.MethodPut)
	r.HandleFunc("/cart/items", h.AddOrUpdateItem).Methods(http.MethodPost)
	r.HandleFunc("/cart/items/{id}/edit", h.BeginEdit).Methods(http.MethodPost)
	r.HandleFunc("/cart/edit", h.CancelEdit).Methods(http.MethodDelete)
	r.HandleFunc("/cart/items/{id}", h.RemoveItem).Methods(http.MethodDelete)

	r.HandleFunc("/search", h.StartSearch).Methods(http.MethodPost)
	r.HandleFunc("/search/skip", h.SkipPriority).Methods(http.MethodPost)
	r.HandleFunc("/search", h.SearchState).Methods(http.MethodGet)
	r.HandleFunc("/search", h.StopSearch).Methods(http.MethodDelete)
	r.HandleFunc("/search/select/{id}", h.SelectCollector).Methods(http.MethodPost)

	r.HandleFunc("/bookings/submit", h.Submit).Methods(http.MethodPost)

	if s.Profiles != nil {
		r.HandleFunc("/citizen/profile", h.GetProfile).Methods(http.MethodGet)
		r.HandleFunc("/citizen/profile", h.UpdateProfile).Methods(http.MethodPut)
	}
	if s.Dashboards != nil {
		r.HandleFunc("/citizen/dashboard", h.Dashboard).Methods(http.MethodGet)
	}
	if s.Bookings != nil {
		r.HandleFunc("/bookings/citizen", h.ListBookings).Methods(http.MethodGet)
		r.HandleFunc("/bookings/{id}", h.CancelBooking).Methods(http.MethodDelete)
	}
}

func (h *CitizenHandler) Open(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Open(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.workflow.Cart().Snapshot())
}

func (h *CitizenHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.workflow.Close()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CitizenHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workflow.Cart().Snapshot())
}

func (h *CitizenHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var sel domain.PickupSelection
	if err := decode(r, &sel); err != nil {
		writeError(w, err)
		return
	}
	h.workflow.Cart().SetSelection(sel)
	writeJSON(w, http.StatusOK, h.workflow.Cart().Snapshot())
}

type cartItemRequest struct {
	domain.PickupSelection
	EditingID string `json:"editingId,omitempty"`
}

func (h *CitizenHandler) AddOrUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.workflow.Cart().AddOrUpdateItem(req.PickupSelection, req.EditingID)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if req.EditingID != "" {
		status = http.StatusOK
	}
	writeJSON(w, status, item)
}

func (h *CitizenHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	sel, err := h.workflow.Cart().BeginEdit(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sel)
}

func (h *CitizenHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	h.workflow.Cart().CancelEdit()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CitizenHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Cart().RemoveItem(mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CitizenHandler) StartSearch(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Search().StartSearch(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.workflow.Search().State())
}

func (h *CitizenHandler) SkipPriority(w http.ResponseWriter, r *http.Request) {
	if err := h.workflow.Search().SkipPriority(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.workflow.Search().State())
}

func (h *CitizenHandler) SearchState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.workflow.Search().State())
}

func (h *CitizenHandler) StopSearch(w http.ResponseWriter, r *http.Request) {
	h.workflow.Search().Stop()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CitizenHandler) SelectCollector(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	k, err := h.workflow.Search().Select(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

// submitErrorResponse carries what a partly failed batch did persist
type submitErrorResponse struct {
	Error  string `json:"error"`
	Result any    `json:"result"`
}

func (h *CitizenHandler) Submit(w http.ResponseWriter, r *http.Request) {
	res, err := h.workflow.Submit(r.Context())
	if err != nil {
		if res == nil {
			writeError(w, err)
			return
		}
		// Partial batch: report what was created
		writeJSON(w, statusFor(err), submitErrorResponse{Error: service.UserMessage(err), Result: res})
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *CitizenHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profileSvc.GetCitizenProfile(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CitizenHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	fields := map[string]string{}
	if err := decode(r, &fields); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.profileSvc.UpdateCitizenProfile(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type dashboardResponse struct {
	Summary      any                        `json:"summary"`
	Transactions []domain.TransactionRecord `json:"transactions"`
}

func (h *CitizenHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, txs, err := h.dashboardSvc.CitizenDashboard(r.Context(), domain.Period(r.URL.Query().Get("period")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{Summary: summary, Transactions: txs})
}

func (h *CitizenHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	list, err := h.bookingSvc.ListCitizenBookings(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CitizenHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.bookingSvc.CancelBooking(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
