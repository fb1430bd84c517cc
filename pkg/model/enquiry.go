package model

import "time"

// Enquiry statuses as reported by the dealer API.
const (
	EnquiryStatusNew       = "new"
	EnquiryStatusContacted = "contacted"
	EnquiryStatusClosed    = "closed"
)

// Enquiry is a customer enquiry, optionally about a specific vehicle.
type Enquiry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Message   string    `json:"message"`
	VehicleID string    `json:"vehicleId,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`

	VehicleTitle string `json:"vehicleTitle,omitempty"`
}
