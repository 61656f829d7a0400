package domain

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// CanTransitionTo reports whether the status machine allows s -> next.
// Only PENDING bookings move, and only to a terminal state.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s != BookingStatusPending {
		return false
	}
	return next == BookingStatusCompleted || next == BookingStatusCancelled
}

// Party is the nested user/collector reference embedded in booking payloads
type Party struct {
	ID   int64  `json:"id"`
	Name string `json:"name,omitempty"`
}

// BookingRecord is the server-side booking, one per (pickup item, material)
type BookingRecord struct {
	ID               int64         `json:"id"`
	User             *Party        `json:"user,omitempty"`
	KabadiWala       *Party        `json:"kabadiWala,omitempty"`
	PickupAddress    string        `json:"pickupAddress,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty"`
	ScheduledAt      *LocalTime    `json:"scheduledAt,omitempty"`
	Status           BookingStatus `json:"status"`
	MaterialType     MaterialType  `json:"materialType"`
	ExpectedWeightKg *float64      `json:"expectedWeightKg,omitempty"`
	CreatedAt        *LocalTime    `json:"createdAt,omitempty"`
}

func (b BookingRecord) CitizenID() int64 {
	if b.User == nil {
		return 0
	}
	return b.User.ID
}

func (b BookingRecord) CollectorID() int64 {
	if b.KabadiWala == nil {
		return 0
	}
	return b.KabadiWala.ID
}

// BookingRequest is the create-booking payload
type BookingRequest struct {
	UserID           int64        `json:"userId"`
	KabadiWalaID     *int64       `json:"kabadiWalaId,omitempty"`
	MaterialType     MaterialType `json:"materialType"`
	ExpectedWeightKg *float64     `json:"expectedWeightKg"`
	ScheduledAt      *LocalTime   `json:"scheduledAt"`
	PickupAddress    *string      `json:"pickupAddress"`
	Latitude         *float64     `json:"latitude,omitempty"`
	Longitude        *float64     `json:"longitude,omitempty"`
}

// BookingUpdate edits a PENDING booking; nil fields are left unchanged
type BookingUpdate struct {
	MaterialType     *MaterialType `json:"materialType,omitempty"`
	ExpectedWeightKg *float64      `json:"expectedWeightKg,omitempty"`
}
