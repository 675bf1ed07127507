package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTime_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2025-08-29T10:15:00Z"`},
		{"naive backend datetime", `"2025-08-29T10:15:00.123456"`},
		{"null", `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var tm Time
			assert.NoError(t, json.Unmarshal([]byte(tc.raw), &tm))
		})
	}

	var tm Time
	assert.Error(t, json.Unmarshal([]byte(`"29/08/2025"`), &tm))
}

func TestTime_RoundTrip(t *testing.T) {
	var booking Booking
	require.NoError(t, json.Unmarshal([]byte(`{"pnr":"PNR1","booking_time":"2025-08-29T10:15:00"}`), &booking))
	assert.Equal(t, 2025, booking.BookingTime.Year())

	out, err := json.Marshal(booking)
	require.NoError(t, err)
	assert.Contains(t, string(out), "2025-08-29T10:15:00")
}
