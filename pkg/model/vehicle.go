package model

import "time"

// Vehicle is one vehicle in the dealership's stock. Related records (make,
// model, fuel type, ...) are referenced by ID; the API additionally expands
// display names on list responses.
type Vehicle struct {
	ID             string    `json:"id"`
	MakeID         string    `json:"makeId"`
	ModelID        string    `json:"modelId"`
	Year           int       `json:"year"`
	Price          float64   `json:"price"`
	Mileage        int       `json:"mileage"`
	VIN            string    `json:"vin,omitempty"`
	Colour         string    `json:"colour,omitempty"`
	Description    string    `json:"description,omitempty"`
	FuelTypeID     string    `json:"fuelTypeId,omitempty"`
	TransmissionID string    `json:"transmissionId,omitempty"`
	DrivetrainID   string    `json:"drivetrainId,omitempty"`
	StatusID       string    `json:"statusId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Expanded display fields, present on list/detail responses only.
	MakeName   string `json:"makeName,omitempty"`
	ModelName  string `json:"modelName,omitempty"`
	StatusName string `json:"statusName,omitempty"`
}

// Title returns the human display name for the vehicle.
func (v *Vehicle) Title() string {
	name := v.MakeName + " " + v.ModelName
	if name == " " {
		return v.ID
	}
	return name
}
