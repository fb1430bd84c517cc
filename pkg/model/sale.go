package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sale records a completed vehicle sale.
type Sale struct {
	ID        string     `json:"id"`
	Vehicle   VehicleRef `json:"vehicle"`
	BuyerName string     `json:"buyerName"`
	Price     float64    `json:"price"`
	SoldAt    time.Time  `json:"soldAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

// VehicleRef is a vehicle reference that the API serializes either as a bare
// ID string or as an expanded vehicle object, depending on the endpoint.
type VehicleRef struct {
	ID       string
	Expanded *Vehicle
}

// UnmarshalJSON accepts "veh_123" as well as {"id": "veh_123", ...}.
func (r *VehicleRef) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*r = VehicleRef{}
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var v Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("vehicle ref: %w", err)
	}
	r.ID = v.ID
	r.Expanded = &v
	return nil
}

// MarshalJSON always emits the bare ID; expanded objects are a read-side
// convenience only.
func (r VehicleRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Title returns the expanded vehicle's display name when available, else the ID.
func (r VehicleRef) Title() string {
	if r.Expanded != nil {
		return r.Expanded.Title()
	}
	return r.ID
}
