package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/utils"
)

// BookingWorkflow is the citizen's booking page: it owns the cart and the
// search session and submits the one against the collector chosen in the
// other.
type BookingWorkflow struct {
	session   *Session
	profiles  ProfileService
	anchors   *geo.AnchorResolver
	cart      *CartManager
	search    *SearchController
	submitter *BookingSubmitter
	notifier  Notifier

	submitting atomic.Bool
}

func NewBookingWorkflow(
	session *Session,
	profiles ProfileService,
	anchors *geo.AnchorResolver,
	cart *CartManager,
	search *SearchController,
	submitter *BookingSubmitter,
	notifier Notifier,
) *BookingWorkflow {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BookingWorkflow{
		session:   session,
		profiles:  profiles,
		anchors:   anchors,
		cart:      cart,
		search:    search,
		submitter: submitter,
		notifier:  notifier,
	}
}

func (w *BookingWorkflow) Cart() *CartManager {
	return w.cart
}

func (w *BookingWorkflow) Search() *SearchController {
	return w.search
}

// Open prepares the page: the pickup address is prefilled from the profile
// and the home address is geocoded as the search anchor, falling back to the
// device position. None of this is fatal; the user can still type an address
// and retry the search.
func (w *BookingWorkflow) Open(ctx context.Context) error {
	if _, err := w.session.Require(domain.UserTypeCitizen); err != nil {
		return err
	}
	p, err := w.profiles.GetCitizenProfile(ctx)
	if err != nil {
		logger.Warn("Could not load profile for booking", "error", err)
		return nil
	}
	w.cart.SetPickupAddress(utils.JoinAddress(p.AddressLine1, p.AddressLine2, p.Pincode))

	if _, ok := w.anchors.Cached(); ok {
		return nil
	}
	if _, err := w.anchors.ResolveAddress(ctx, p.AddressLine1, p.Pincode); err != nil {
		w.notifier.Notify(NotifyWarning, "Could not locate you. Enter address in Profile first.")
	}
	return nil
}

// Close leaves the page and cancels any running search timers
func (w *BookingWorkflow) Close() {
	w.search.Stop()
}

// Submit books every cart item with the selected collector. On full success
// the cart and the selection are cleared; on any failure both are left intact
// for a manual retry.
func (w *BookingWorkflow) Submit(ctx context.Context) (*SubmissionResult, error) {
	user, err := w.session.Require(domain.UserTypeCitizen)
	if err != nil {
		return nil, err
	}
	if !w.submitting.CompareAndSwap(false, true) {
		return nil, ErrSubmitInProgress
	}
	defer w.submitting.Store(false)

	items := w.cart.Items()
	if len(items) == 0 {
		w.notifier.Notify(NotifyError, ErrEmptyCart.Error())
		return nil, ErrEmptyCart
	}
	collector, ok := w.search.Selected()
	if !ok {
		w.notifier.Notify(NotifyError, ErrNoCollectorSelected.Error())
		return nil, ErrNoCollectorSelected
	}
	var at *domain.Coordinate
	if a, ok := w.search.Anchor(); ok {
		at = &a
	}

	res, err := w.submitter.Submit(ctx, items, &collector, user.UserID, at)
	if err != nil {
		w.notifier.Notify(NotifyError, UserMessage(err))
		return res, err
	}

	w.cart.Clear()
	w.search.ClearSelection()
	w.notifier.Notify(NotifySuccess, fmt.Sprintf("%d pickup(s) booked!", res.Count()))
	return res, nil
}

// Submitting reports whether a submission is in flight
func (w *BookingWorkflow) Submitting() bool {
	return w.submitting.Load()
}
