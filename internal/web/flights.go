package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/gin-gonic/gin"
)

// demoFlights is what the landing page advertises when the backend has
// nothing to show (not seeded yet, or unreachable).
var demoFlights = []domain.Flight{
	{Code: "AI-101", Airline: "Air India", BasePrice: 2300.58, Price: 2300.58, DepartureCity: "Mumbai", ArrivalCity: "Delhi"},
	{Code: "6E-303", Airline: "IndiGo", BasePrice: 2520.96, Price: 2520.96, DepartureCity: "Mumbai", ArrivalCity: "Bengaluru"},
	{Code: "UK-505", Airline: "Vistara", BasePrice: 2059.01, Price: 2059.01, DepartureCity: "Hyderabad", ArrivalCity: "Delhi"},
}

func (s *Server) landing(c *gin.Context) {
	flights, err := s.backend.ListFlights(c.Request.Context(), backend.FlightFilter{})
	if err != nil || len(flights) == 0 {
		flights = demoFlights
	}
	if len(flights) > 3 {
		flights = flights[:3]
	}
	c.HTML(http.StatusOK, "landing.tmpl", s.pageData(c, gin.H{"Flights": flights}))
}

func (s *Server) search(c *gin.Context) {
	filter := backend.FlightFilter{
		DepartureCity: strings.TrimSpace(c.Query("departure_city")),
		ArrivalCity:   strings.TrimSpace(c.Query("arrival_city")),
	}

	var loadErr string
	flights, err := s.backend.ListFlights(c.Request.Context(), filter)
	if err != nil {
		flights = nil
		loadErr = err.Error()
	}

	data := s.pageData(c, gin.H{"Flights": flights, "Filter": filter})
	if loadErr != "" {
		data["Error"] = loadErr
	}
	c.HTML(http.StatusOK, "search.tmpl", data)
}

// confirmBooking shows the confirmation step for a selected flight. The
// flight is re-fetched so the passenger confirms the current surge-adjusted
// price, not the one from the search listing.
func (s *Server) confirmBooking(c *gin.Context) {
	store := s.store(c)
	if !store.LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/login?err="+url.QueryEscape("Please login before booking a flight."))
		return
	}

	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/search")
		return
	}

	flight, err := s.backend.Flight(c.Request.Context(), flightID)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/search?err="+url.QueryEscape(err.Error()))
		return
	}

	c.HTML(http.StatusOK, "confirm.tmpl", s.pageData(c, gin.H{"Flight": flight}))
}

func (s *Server) submitBooking(c *gin.Context) {
	store := s.store(c)
	if !store.LoggedIn() {
		c.Redirect(http.StatusSeeOther, "/login?err="+url.QueryEscape("Please login before booking a flight."))
		return
	}

	flightID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/search")
		return
	}

	flight, err := s.backend.Flight(c.Request.Context(), flightID)
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/search?err="+url.QueryEscape(err.Error()))
		return
	}

	renderConfirm := func(message string) {
		c.HTML(http.StatusOK, "confirm.tmpl", s.pageData(c, gin.H{
			"Flight": flight,
			"Error":  message,
		}))
	}

	passenger := strings.TrimSpace(c.PostForm("passenger_name"))
	if passenger == "" {
		renderConfirm("Please enter passenger name")
		return
	}

	// advisory pre-check only; the backend enforces the balance when the
	// booking request lands
	price := flight.Price
	if price == 0 {
		price = flight.BasePrice
	}
	if store.Current().WalletBalance < price {
		renderConfirm("Insufficient wallet balance!")
		return
	}

	booking, err := store.BookFlight(c.Request.Context(), passenger, flightID)
	if err != nil {
		renderConfirm(err.Error())
		return
	}

	c.HTML(http.StatusOK, "booked.tmpl", s.pageData(c, gin.H{
		"Booking": booking,
		"Flight":  flight,
	}))
}
