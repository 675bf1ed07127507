package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Domenick1991/flightdesk/internal/backend"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListFlights(ctx context.Context, filter backend.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockAPI) Flight(ctx context.Context, id int64) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockAPI) Login(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) Register(ctx context.Context, input backend.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) User(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAPI) TopUp(ctx context.Context, userID int64, amount float64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockAPI) CreateBooking(ctx context.Context, input backend.BookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockAPI) Bookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockAPI) Ticket(ctx context.Context, pnr string, userID int64) (*backend.Ticket, error) {
	args := m.Called(ctx, pnr, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*backend.Ticket), args.Error(1)
}

func (m *MockAPI) SeedFlights(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fakeSnapshots is an in-memory Snapshots used to assert the durable state
// directly.
type fakeSnapshots struct {
	data    map[string]domain.User
	loadErr error
	saveErr error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: make(map[string]domain.User)}
}

func (f *fakeSnapshots) Load(ctx context.Context, key string) (*domain.User, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	user, ok := f.data[key]
	if !ok {
		return nil, nil
	}
	u := user
	return &u, nil
}

func (f *fakeSnapshots) Save(ctx context.Context, key string, user *domain.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.data[key] = *user
	return nil
}

func (f *fakeSnapshots) Clear(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(api backend.API, snapshots Snapshots) *Store {
	return &Store{key: "sid-1", backend: api, snapshots: snapshots, logger: testLogger()}
}

func testUser() *domain.User {
	return &domain.User{ID: 7, Username: "john123", Email: "j@x.com", FullName: "John Doe", WalletBalance: 50000}
}

func TestStore_Login_Success(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)

	ctx := context.Background()
	user := testUser()
	mockAPI.On("Login", ctx, "j@x.com", "p").Return(user, nil).Once()

	got, err := store.Login(ctx, "j@x.com", "p")

	assert.NoError(t, err)
	assert.Equal(t, *user, *got)
	assert.True(t, store.LoggedIn())
	// durable snapshot mirrors memory exactly
	assert.Equal(t, *user, snapshots.data["sid-1"])
	mockAPI.AssertExpectations(t)
}

func TestStore_Login_Failure_StaysAnonymous(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)

	ctx := context.Background()
	apiErr := &backend.APIError{Op: "login", StatusCode: 400, Detail: "Incorrect password"}
	mockAPI.On("Login", ctx, "j@x.com", "wrong").Return(nil, apiErr).Once()

	got, err := store.Login(ctx, "j@x.com", "wrong")

	assert.Nil(t, got)
	assert.False(t, store.LoggedIn())
	assert.Empty(t, snapshots.data)

	var opErr *OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindLogin, opErr.Kind)
	assert.Equal(t, "Incorrect password", opErr.Message)
	mockAPI.AssertExpectations(t)
}

func TestStore_Login_PersistFailure_RollsBack(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	snapshots.saveErr = errors.New("redis down")
	store := newTestStore(mockAPI, snapshots)

	ctx := context.Background()
	mockAPI.On("Login", ctx, "j@x.com", "p").Return(testUser(), nil).Once()

	_, err := store.Login(ctx, "j@x.com", "p")

	assert.Error(t, err)
	assert.False(t, store.LoggedIn())
}

func TestStore_Logout_AlwaysAnonymous(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)
	store.user = testUser()
	snapshots.data["sid-1"] = *store.user

	ctx := context.Background()
	assert.NoError(t, store.Logout(ctx))
	assert.False(t, store.LoggedIn())
	assert.Empty(t, snapshots.data)

	// idempotent from the anonymous state
	assert.NoError(t, store.Logout(ctx))
	assert.False(t, store.LoggedIn())
}

func TestStore_RefreshWallet_AnonymousNoop(t *testing.T) {
	mockAPI := &MockAPI{}
	store := newTestStore(mockAPI, newFakeSnapshots())

	store.RefreshWallet(context.Background())

	assert.False(t, store.LoggedIn())
	mockAPI.AssertNotCalled(t, "User", mock.Anything, mock.Anything)
}

func TestStore_RefreshWallet_FailureSwallowed(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)
	store.user = testUser()
	snapshots.data["sid-1"] = *store.user

	ctx := context.Background()
	mockAPI.On("User", ctx, int64(7)).Return(nil, errors.New("backend down")).Once()

	store.RefreshWallet(ctx)

	// previous state stays in place, memory and snapshot still agree
	assert.Equal(t, 50000.0, store.Current().WalletBalance)
	assert.Equal(t, *store.Current(), snapshots.data["sid-1"])
	mockAPI.AssertExpectations(t)
}

func TestStore_TopUp_BackendIsAuthority(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)
	store.user = testUser()

	ctx := context.Background()
	refreshed := testUser()
	refreshed.WalletBalance = 51500.25 // backend may apply its own rounding
	mockAPI.On("TopUp", ctx, int64(7), 1500.0).Return(nil).Once()
	mockAPI.On("User", ctx, int64(7)).Return(refreshed, nil).Once()

	assert.NoError(t, store.TopUp(ctx, 1500))
	assert.Equal(t, 51500.25, store.Current().WalletBalance)
	assert.Equal(t, *refreshed, snapshots.data["sid-1"])
	mockAPI.AssertExpectations(t)
}

func TestStore_TopUp_RejectsNonPositiveAmount(t *testing.T) {
	mockAPI := &MockAPI{}
	store := newTestStore(mockAPI, newFakeSnapshots())
	store.user = testUser()

	for _, amount := range []float64{0, -100} {
		err := store.TopUp(context.Background(), amount)

		var opErr *OpError
		assert.ErrorAs(t, err, &opErr)
		assert.Equal(t, KindTopUp, opErr.Kind)
	}
	mockAPI.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything, mock.Anything)
}

func TestStore_BookFlight_BalanceFromRefetch(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	store := newTestStore(mockAPI, snapshots)
	store.user = testUser()

	ctx := context.Background()
	booking := &domain.Booking{ID: 3, PNR: "PNR123ABC", PassengerName: "Rahul Sharma", FlightID: 1, FinalPrice: 2300.58, UserID: 7}
	debited := testUser()
	debited.WalletBalance = 47699.42

	mockAPI.On("CreateBooking", ctx, backend.BookingInput{PassengerName: "Rahul Sharma", FlightID: 1, UserID: 7}).Return(booking, nil).Once()
	mockAPI.On("User", ctx, int64(7)).Return(debited, nil).Once()

	got, err := store.BookFlight(ctx, "Rahul Sharma", 1)

	assert.NoError(t, err)
	assert.Equal(t, "PNR123ABC", got.PNR)
	// never a locally-decremented approximation
	assert.Equal(t, 47699.42, store.Current().WalletBalance)
	assert.Equal(t, *debited, snapshots.data["sid-1"])
	mockAPI.AssertExpectations(t)
}

func TestStore_BookFlight_BackendRejection(t *testing.T) {
	mockAPI := &MockAPI{}
	store := newTestStore(mockAPI, newFakeSnapshots())
	store.user = testUser()

	ctx := context.Background()
	apiErr := &backend.APIError{Op: "create_booking", StatusCode: 400, Detail: "Insufficient wallet balance"}
	mockAPI.On("CreateBooking", ctx, mock.Anything).Return(nil, apiErr).Once()

	_, err := store.BookFlight(ctx, "Rahul Sharma", 1)

	var opErr *OpError
	assert.ErrorAs(t, err, &opErr)
	assert.Equal(t, KindBooking, opErr.Kind)
	assert.Equal(t, "Insufficient wallet balance", opErr.Message)
	mockAPI.AssertNotCalled(t, "User", mock.Anything, mock.Anything)
}

func TestStore_UserScopedOps_RequireAuth(t *testing.T) {
	mockAPI := &MockAPI{}
	store := newTestStore(mockAPI, newFakeSnapshots())
	ctx := context.Background()

	err := store.TopUp(ctx, 100)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = store.BookFlight(ctx, "Rahul Sharma", 1)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = store.Bookings(ctx)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = store.Ticket(ctx, "PNR123ABC")
	assert.ErrorIs(t, err, ErrAuthRequired)

	// no network call is made for any of them
	mockAPI.AssertNotCalled(t, "TopUp", mock.Anything, mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(t, "Bookings", mock.Anything, mock.Anything)
	mockAPI.AssertNotCalled(t, "Ticket", mock.Anything, mock.Anything, mock.Anything)
}

func TestManager_SnapshotRoundTrip(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	manager := NewManager(mockAPI, snapshots, testLogger())

	ctx := context.Background()
	user := testUser()
	mockAPI.On("Login", ctx, "j@x.com", "p").Return(user, nil).Once()

	first := manager.Session(ctx, "sid-9")
	_, err := first.Login(ctx, "j@x.com", "p")
	assert.NoError(t, err)

	// a fresh store for the same key restores the identical record
	second := manager.Session(ctx, "sid-9")
	assert.True(t, second.LoggedIn())
	assert.Equal(t, *user, *second.Current())
}

func TestManager_CorruptSnapshot_FallsBackToAnonymous(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	snapshots.loadErr = errors.New("invalid character 'x'")
	manager := NewManager(mockAPI, snapshots, testLogger())

	store := manager.Session(context.Background(), "sid-9")
	assert.False(t, store.LoggedIn())
}

func TestStore_RegisterThenBookThenList(t *testing.T) {
	mockAPI := &MockAPI{}
	snapshots := newFakeSnapshots()
	manager := NewManager(mockAPI, snapshots, testLogger())

	ctx := context.Background()
	store := manager.Session(ctx, "sid-2")

	user := testUser()
	input := backend.RegisterInput{Username: "john123", Email: "j@x.com", Password: "p"}
	mockAPI.On("Register", ctx, input).Return(user, nil).Once()

	_, err := store.Register(ctx, input)
	assert.NoError(t, err)
	assert.True(t, store.LoggedIn())

	booking := &domain.Booking{ID: 1, PNR: "PNR777", PassengerName: "Rahul Sharma", FlightID: 1, FinalPrice: 2300.58, UserID: 7}
	debited := testUser()
	debited.WalletBalance = 47699.42
	mockAPI.On("CreateBooking", ctx, backend.BookingInput{PassengerName: "Rahul Sharma", FlightID: 1, UserID: 7}).Return(booking, nil).Once()
	mockAPI.On("User", ctx, int64(7)).Return(debited, nil).Once()

	created, err := store.BookFlight(ctx, "Rahul Sharma", 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, created.PNR)

	mockAPI.On("Bookings", ctx, int64(7)).Return([]domain.Booking{*booking}, nil).Once()

	listed, err := store.Bookings(ctx)
	assert.NoError(t, err)
	assert.Len(t, listed, 1)
	assert.Equal(t, created.PNR, listed[0].PNR)
	assert.Equal(t, "Rahul Sharma", listed[0].PassengerName)
	mockAPI.AssertExpectations(t)
}
