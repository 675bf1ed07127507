// Package session holds the per-browser-session wallet state: who is logged
// in and what their balance is. The store is the single source of truth for
// every page; the backing snapshot store makes it survive restarts.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/Domenick1991/flightdesk/internal/domain"
)

// Store is either anonymous (user == nil) or authenticated. After every
// successful mutation the durable snapshot equals the in-memory user; the
// backend is the sole authority on wallet balance, so mutations re-fetch the
// user record rather than adjusting the balance locally. The mutex keeps at
// most one mutating operation in flight per store.
type Store struct {
	key       string
	backend   backend.API
	snapshots Snapshots
	logger    *slog.Logger

	mu   sync.Mutex
	user *domain.User
}

// Current returns a copy of the authenticated user, or nil when anonymous.
func (s *Store) Current() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, opError(KindLogin, err)
	}
	if err := s.snapshots.Save(ctx, s.key, user); err != nil {
		return nil, &OpError{Kind: KindLogin, Message: "Could not persist session", Err: err}
	}
	s.user = user

	u := *user
	return &u, nil
}

func (s *Store) Register(ctx context.Context, input backend.RegisterInput) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.backend.Register(ctx, input)
	if err != nil {
		return nil, opError(KindRegister, err)
	}
	if err := s.snapshots.Save(ctx, s.key, user); err != nil {
		return nil, &OpError{Kind: KindRegister, Message: "Could not persist session", Err: err}
	}
	s.user = user

	u := *user
	return &u, nil
}

// Logout drops the in-memory user unconditionally and is safe to call while
// anonymous. A failed snapshot clear is returned but leaves the store
// anonymous regardless.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	return s.snapshots.Clear(ctx, s.key)
}

// RefreshWallet re-reads the user record to pick up the authoritative wallet
// balance. Best-effort: failures are logged, never returned, and leave the
// previous (consistent) state in place. No-op while anonymous.
func (s *Store) RefreshWallet(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked(ctx)
}

func (s *Store) refreshLocked(ctx context.Context) {
	if s.user == nil {
		return
	}

	fresh, err := s.backend.User(ctx, s.user.ID)
	if err != nil {
		s.logger.Warn("wallet refresh failed", "user_id", s.user.ID, "error", err)
		return
	}
	if err := s.snapshots.Save(ctx, s.key, fresh); err != nil {
		s.logger.Warn("wallet snapshot save failed", "user_id", s.user.ID, "error", err)
		return
	}
	s.user = fresh
}

func (s *Store) TopUp(ctx context.Context, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return ErrAuthRequired
	}
	if amount <= 0 {
		return &OpError{Kind: KindTopUp, Message: "Amount must be positive"}
	}

	if err := s.backend.TopUp(ctx, s.user.ID, amount); err != nil {
		return opError(KindTopUp, err)
	}
	s.refreshLocked(ctx)
	return nil
}

// BookFlight creates a booking for the current user and re-fetches the wallet
// balance the backend debited. Returns the backend's booking, PNR included.
func (s *Store) BookFlight(ctx context.Context, passengerName string, flightID int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrAuthRequired
	}

	booking, err := s.backend.CreateBooking(ctx, backend.BookingInput{
		PassengerName: passengerName,
		FlightID:      flightID,
		UserID:        s.user.ID,
	})
	if err != nil {
		return nil, opError(KindBooking, err)
	}
	s.refreshLocked(ctx)
	return booking, nil
}

func (s *Store) Bookings(ctx context.Context) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrAuthRequired
	}

	bookings, err := s.backend.Bookings(ctx, s.user.ID)
	if err != nil {
		return nil, opError(KindFetch, err)
	}
	return bookings, nil
}

// Ticket fetches the booking artifact for one of the user's PNRs.
func (s *Store) Ticket(ctx context.Context, pnr string) (*backend.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return nil, ErrAuthRequired
	}

	ticket, err := s.backend.Ticket(ctx, pnr, s.user.ID)
	if err != nil {
		return nil, opError(KindFetch, err)
	}
	return ticket, nil
}
