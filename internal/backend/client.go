// Package backend is the REST client for the flight booking API. Each method
// performs exactly one HTTP round trip: no retries, no caching, no timeout
// beyond what the transport itself enforces.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type API interface {
	ListFlights(ctx context.Context, filter FlightFilter) ([]domain.Flight, error)
	Flight(ctx context.Context, id int64) (*domain.Flight, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	User(ctx context.Context, id int64) (*domain.User, error)
	TopUp(ctx context.Context, userID int64, amount float64) error
	CreateBooking(ctx context.Context, input BookingInput) (*domain.Booking, error)
	Bookings(ctx context.Context, userID int64) ([]domain.Booking, error)
	Ticket(ctx context.Context, pnr string, userID int64) (*Ticket, error)
	SeedFlights(ctx context.Context) (int, error)
}

type FlightFilter struct {
	DepartureCity string
	ArrivalCity   string
}

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type BookingInput struct {
	PassengerName string `json:"passenger_name"`
	FlightID      int64  `json:"flight_id"`
	UserID        int64  `json:"user_id"`
}

// Ticket is the booking artifact served by the backend (a PDF in practice).
type Ticket struct {
	ContentType string
	Data        []byte
}

// Recorder receives one observation per backend round trip. Implemented by
// the metrics collector; nil disables instrumentation.
type Recorder interface {
	RecordBackendCall(op string, statusCode int, duration time.Duration)
}

type Client struct {
	baseURL  string
	httpc    *http.Client
	recorder Recorder
}

type ClientOption func(*Client)

func WithHTTPClient(httpc *http.Client) ClientOption {
	return func(c *Client) { c.httpc = httpc }
}

func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		// zero timeout: requests wait for the backend or a transport error
		httpc: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListFlights(ctx context.Context, filter FlightFilter) ([]domain.Flight, error) {
	query := url.Values{}
	if filter.DepartureCity != "" {
		query.Set("departure_city", filter.DepartureCity)
	}
	if filter.ArrivalCity != "" {
		query.Set("arrival_city", filter.ArrivalCity)
	}

	var flights []domain.Flight
	if err := c.doJSON(ctx, "list_flights", http.MethodGet, "/flights", query, nil, &flights, "Could not fetch flights"); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *Client) Flight(ctx context.Context, id int64) (*domain.Flight, error) {
	var flight domain.Flight
	path := fmt.Sprintf("/flights/%d", id)
	if err := c.doJSON(ctx, "get_flight", http.MethodGet, path, nil, nil, &flight, "Flight not found"); err != nil {
		return nil, err
	}
	return &flight, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.User, error) {
	body := map[string]string{"email": email, "password": password}
	var user domain.User
	if err := c.doJSON(ctx, "login", http.MethodPost, "/users/login", nil, body, &user, "Login failed"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	var user domain.User
	if err := c.doJSON(ctx, "register", http.MethodPost, "/users/register", nil, input, &user, "Registration failed"); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) User(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	path := fmt.Sprintf("/users/%d", id)
	if err := c.doJSON(ctx, "get_user", http.MethodGet, path, nil, nil, &user, "Unable to load user"); err != nil {
		return nil, err
	}
	return &user, nil
}

// TopUp credits the user's wallet. The response ack carries the new balance,
// but callers re-fetch the user record instead of trusting it: the backend
// remains the single authority.
func (c *Client) TopUp(ctx context.Context, userID int64, amount float64) error {
	query := url.Values{}
	query.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	path := fmt.Sprintf("/users/%d/topup", userID)
	return c.doJSON(ctx, "topup", http.MethodPost, path, query, nil, nil, "Top-up failed")
}

func (c *Client) CreateBooking(ctx context.Context, input BookingInput) (*domain.Booking, error) {
	var booking domain.Booking
	if err := c.doJSON(ctx, "create_booking", http.MethodPost, "/bookings", nil, input, &booking, "Booking failed"); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) Bookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))

	var bookings []domain.Booking
	if err := c.doJSON(ctx, "list_bookings", http.MethodGet, "/bookings", query, nil, &bookings, "Unable to load bookings"); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (c *Client) Ticket(ctx context.Context, pnr string, userID int64) (*Ticket, error) {
	const op = "ticket"
	query := url.Values{}
	query.Set("user_id", strconv.FormatInt(userID, 10))

	req, err := c.newRequest(ctx, http.MethodGet, "/bookings/ticket/"+url.PathEscape(pnr), query, nil)
	if err != nil {
		return nil, &APIError{Op: op, Detail: "Unable to download ticket", Err: err}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.record(op, 0, start)
		return nil, &APIError{Op: op, Detail: "Unable to download ticket", Err: err}
	}
	defer resp.Body.Close()
	c.record(op, resp.StatusCode, start)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, newAPIError(op, resp, "Unable to download ticket")
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Detail: "Unable to download ticket", Err: err}
	}
	return &Ticket{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

// SeedFlights populates the backend with its default flight set. Used by the
// seeding command, not by any page.
func (c *Client) SeedFlights(ctx context.Context) (int, error) {
	var out struct {
		Seeded int `json:"seeded"`
	}
	if err := c.doJSON(ctx, "seed_flights", http.MethodPost, "/flights/seed", nil, nil, &out, "Unable to seed flights"); err != nil {
		return 0, err
	}
	return out.Seeded, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// doJSON performs one round trip and decodes a JSON response into out (when
// out is non-nil). fallback is the operation's generic message used when the
// backend supplies no detail.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any, fallback string) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return &APIError{Op: op, Detail: fallback, Err: err}
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.record(op, 0, start)
		return &APIError{Op: op, Detail: fallback, Err: err}
	}
	defer resp.Body.Close()
	c.record(op, resp.StatusCode, start)

	if resp.StatusCode >= http.StatusBadRequest {
		return newAPIError(op, resp, fallback)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Detail: fallback, Err: err}
	}
	return nil
}

func (c *Client) record(op string, statusCode int, start time.Time) {
	if c.recorder != nil {
		c.recorder.RecordBackendCall(op, statusCode, time.Since(start))
	}
}

var _ API = (*Client)(nil)
