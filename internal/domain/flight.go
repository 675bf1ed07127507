package domain

// Flight mirrors the backend's flight payload. Code is the airline flight
// number (e.g. "AI-101"); ID is the backend's numeric key. Price may exceed
// BasePrice under surge pricing, which is opaque to this client.
type Flight struct {
	ID            int64   `json:"id"`
	Code          string  `json:"flight_id"`
	Airline       string  `json:"airline"`
	DepartureCity string  `json:"departure_city"`
	ArrivalCity   string  `json:"arrival_city"`
	BasePrice     float64 `json:"base_price"`
	Price         float64 `json:"price"`
}
