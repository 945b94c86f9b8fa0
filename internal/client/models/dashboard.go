package models

type BrandCount struct {
	Brand string `json:"marca"`
	Count int    `json:"count"`
}

type StoreCount struct {
	Store string `json:"loja"`
	Count int    `json:"count"`
}

// DashboardStats is GET /dashboard/stats.
type DashboardStats struct {
	TotalVehicles int          `json:"total_vehicles"`
	InProgress    int          `json:"em_tratamento"`
	Submitted     int          `json:"submetidos"`
	Recovered     int          `json:"recuperados"`
	Lost          int          `json:"perdidos"`
	ByBrand       []BrandCount `json:"marca_stats"`
	ByStore       []StoreCount `json:"loja_stats"`
	MissingValue  float64      `json:"valor_total_em_falta"`
}

// Health is GET /health.
type Health struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Message is the body of endpoints that only acknowledge.
type Message struct {
	Message string `json:"message"`
}
