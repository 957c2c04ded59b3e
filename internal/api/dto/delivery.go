package dto

type EvaluatePointRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type EvaluatePointResponse struct {
	Serviceable bool    `json:"serviceable"`
	DistanceKm  float64 `json:"distance_km"`
	Fee         int64   `json:"fee"`
	Message     string  `json:"message"`
}
