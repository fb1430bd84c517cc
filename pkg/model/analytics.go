package model

// Summary is the aggregate analytics block from GET /analytics/summary.
type Summary struct {
	VehicleCount      int            `json:"vehicleCount"`
	EnquiryCount      int            `json:"enquiryCount"`
	SaleCount         int            `json:"saleCount"`
	MakeCount         int            `json:"makeCount"`
	SalesTotal        float64        `json:"salesTotal"`
	EnquiriesByStatus map[string]int `json:"enquiriesByStatus"`
	VehiclesByStatus  map[string]int `json:"vehiclesByStatus"`
}
