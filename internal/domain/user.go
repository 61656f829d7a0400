package domain

type UserType string

const (
	UserTypeCitizen UserType = "CITIZEN"
	UserTypeKabadi  UserType = "KABADI"
	UserTypeAdmin   UserType = "ADMIN"
)

// CitizenProfile is the citizen's stored profile
type CitizenProfile struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Mobile            string `json:"mobile"`
	WasteRecyclerID   string `json:"wasteRecyclerId,omitempty"`
	AddressLine1      string `json:"addressLine1,omitempty"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	Pincode           string `json:"pincode,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// KabadiProfile is the collector's stored profile
type KabadiProfile struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Mobile            string   `json:"mobile"`
	Area              string   `json:"area,omitempty"`
	KCoinsBalance     int      `json:"kCoinsBalance"`
	PriorityActive    bool     `json:"priorityActive"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	PreferredLanguage string   `json:"preferredLanguage,omitempty"`
}

// OTPResult is returned by send-otp
type OTPResult struct {
	OTPSent   bool   `json:"otpSent"`
	IsNewUser bool   `json:"isNewUser"`
	MockOTP   string `json:"mockOtp,omitempty"`
}

// AuthResult is returned by verify-otp, register and admin login.
// Token is empty when IsNewUser is set and registration is still pending.
type AuthResult struct {
	Token           string   `json:"token"`
	IsNewUser       bool     `json:"isNewUser"`
	UserID          int64    `json:"userId"`
	UserType        UserType `json:"userType"`
	Name            string   `json:"name"`
	WasteRecyclerID string   `json:"wasteRecyclerId,omitempty"`
}

// CitizenRegistration is the citizen sign-up payload
type CitizenRegistration struct {
	Name              string `json:"name"`
	Mobile            string `json:"mobile"`
	AddressLine1      string `json:"addressLine1,omitempty"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	Pincode           string `json:"pincode"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// KabadiRegistration is the collector sign-up payload
type KabadiRegistration struct {
	Name              string `json:"name"`
	Mobile            string `json:"mobile"`
	Area              string `json:"area,omitempty"`
	AddressLine1      string `json:"addressLine1,omitempty"`
	AddressLine2      string `json:"addressLine2,omitempty"`
	Pincode           string `json:"pincode,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}
