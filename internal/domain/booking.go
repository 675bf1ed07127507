package domain

// Booking is created by the backend only; the client never mutates one.
type Booking struct {
	ID            int64   `json:"id"`
	PNR           string  `json:"pnr"`
	PassengerName string  `json:"passenger_name"`
	FlightID      int64   `json:"flight_id"`
	FinalPrice    float64 `json:"final_price"`
	BookingTime   Time    `json:"booking_time"`
	UserID        int64   `json:"user_id"`
	Flight        *Flight `json:"flight,omitempty"`
}
