package model

import "time"

// Make is a vehicle manufacturer.
type Make struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// VehicleModel is a model line belonging to a make.
type VehicleModel struct {
	ID        string    `json:"id"`
	MakeID    string    `json:"makeId"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`

	MakeName string `json:"makeName,omitempty"`
}

// Reference is a simple lookup record. Fuel types, transmissions, drivetrains
// and vehicle statuses all share this shape; they differ only in which API
// resource they live under.
type Reference struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}
