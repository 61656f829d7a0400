package service

import (
	"errors"

	"kabadi-client/internal/domain"
	"kabadi-client/internal/geo"
)

var (
	ErrEmptyMaterials = domain.ErrEmptyMaterials
	ErrInvalidWeight  = domain.ErrInvalidWeight
	ErrInvalidPrice   = domain.ErrInvalidPrice

	ErrInvalidMobile   = errors.New("enter a valid 10-digit mobile number")
	ErrInvalidPincode  = errors.New("enter a valid 6-digit pincode")
	ErrNameRequired    = errors.New("name is required")
	ErrOTPRequired     = errors.New("enter the OTP")
	ErrCredentials     = errors.New("username and password are required")
	ErrUnknownUserType = errors.New("unknown user type")

	ErrEmptyCart           = errors.New("add at least one item to the list")
	ErrNoCollectorSelected = errors.New("select a kabadi-wala first")
	ErrItemNotFound        = errors.New("item not found")
	ErrCollectorNotFound   = errors.New("kabadi-wala is not in the current results")
	ErrSubmitInProgress    = errors.New("submission already in progress")

	ErrLocationUnavailable = geo.ErrLocationUnavailable
	ErrWrongPhase          = errors.New("action not available in the current step")

	ErrNotAuthenticated = errors.New("please log in first")
	ErrForbidden        = errors.New("not allowed for this account type")

	ErrBookingNotPending     = errors.New("only pending bookings can be changed")
	ErrRedemptionNotEligible = errors.New("need 30 K-Coins to redeem")
	ErrActiveRedemption      = errors.New("a redemption is already active")
	ErrCommodityRequired     = errors.New("select a commodity to redeem")
)

// GenericErrorMessage is shown when nothing more specific is known
const GenericErrorMessage = "Something went wrong. Please try again."

// validationErrors are caught before any network call and shown verbatim
var validationErrors = []error{
	ErrEmptyMaterials, ErrInvalidWeight, ErrInvalidPrice, domain.ErrUnknownMaterial,
	ErrInvalidMobile, ErrInvalidPincode, ErrNameRequired, ErrOTPRequired, ErrCredentials, ErrUnknownUserType,
	ErrEmptyCart, ErrNoCollectorSelected, ErrItemNotFound, ErrCollectorNotFound,
	ErrSubmitInProgress, ErrLocationUnavailable, geo.ErrLocationTimeout, ErrWrongPhase,
	ErrNotAuthenticated, ErrForbidden, ErrBookingNotPending, domain.ErrInvalidTransition,
	ErrRedemptionNotEligible, ErrActiveRedemption, ErrCommodityRequired,
}

type backendMessager interface {
	BackendMessage() string
}

// UserMessage picks the text to show for err: the backend's own message when
// it sent one, the validation text for client-side checks, otherwise a
// generic message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var bm backendMessager
	if errors.As(err, &bm) && bm.BackendMessage() != "" {
		return bm.BackendMessage()
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return v.Error()
		}
	}
	return GenericErrorMessage
}

// IsValidationError reports whether err was raised before any network call
func IsValidationError(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
