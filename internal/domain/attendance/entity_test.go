package attendance

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, min, sec int) time.Time {
	return time.Date(2025, 1, 15, hour, min, sec, 0, time.UTC)
}

func TestFormatWorkedDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{at(18, 30, 45).Sub(at(9, 0, 0)), "9:30:45"},
		{0, "0:00:00"},
		{59 * time.Second, "0:00:59"},
		{time.Hour + time.Minute + time.Second, "1:01:01"},
		{36*time.Hour + 5*time.Minute, "36:05:00"},
		{1500 * time.Millisecond, "0:00:01"},
		{-time.Hour, "0:00:00"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatWorkedDuration(c.d), "duration %v", c.d)
	}
}

func TestRecord_SecondCheckInResetsClosedSession(t *testing.T) {
	r := NewRecord("E1", "2025-01-15", at(9, 0, 0), StatusPresent)
	require.NoError(t, r.CloseSession(at(12, 0, 0)))
	require.NotNil(t, r.LastOutTime)
	require.NotNil(t, r.WorkedHours)
	assert.Equal(t, "3:00:00", *r.WorkedHours)

	r.StartSession(at(13, 0, 0))

	assert.Nil(t, r.LastOutTime)
	assert.Nil(t, r.WorkedHours)
	assert.Equal(t, at(9, 0, 0), *r.CheckInTime)
	assert.Equal(t, at(13, 0, 0), *r.LastInTime)

	require.NoError(t, r.CloseSession(at(17, 30, 0)))
	assert.Equal(t, "4:30:00", *r.WorkedHours)
}

func TestRecord_CloseSessionFallsBackToCheckInTime(t *testing.T) {
	legacyIn := at(9, 0, 0)
	r := Record{EmployeeID: "E1", Date: "2025-01-15", CheckInTime: &legacyIn, Status: StatusPresent}

	require.NoError(t, r.CloseSession(at(18, 30, 45)))
	assert.Equal(t, "9:30:45", *r.WorkedHours)
}

func TestRecord_CloseSessionWithoutStart(t *testing.T) {
	r := Record{EmployeeID: "E1", Date: "2025-01-15"}

	err := r.CloseSession(at(18, 0, 0))
	assert.ErrorIs(t, err, ErrNoOpenSession)
	assert.Nil(t, r.LastOutTime)
	assert.Nil(t, r.WorkedHours)
}

func TestOutOfGeofenceError(t *testing.T) {
	var err error = &OutOfGeofenceError{Distance: 111.19, Radius: 100}

	assert.True(t, errors.Is(err, ErrOutOfGeofence))
	assert.Contains(t, err.Error(), "111m")

	var geoErr *OutOfGeofenceError
	require.True(t, errors.As(err, &geoErr))
	assert.InDelta(t, 111.19, geoErr.Distance, 0.001)
}

func TestHistoryFilter(t *testing.T) {
	f := HistoryFilter{From: "2025-01-01", To: "2025-01-31"}
	require.NoError(t, f.Validate())

	assert.True(t, f.Contains("2025-01-01"))
	assert.True(t, f.Contains("2025-01-31"))
	assert.False(t, f.Contains("2025-02-01"))
	assert.False(t, f.Contains("2024-12-31"))

	bad := HistoryFilter{From: "2025-02-01", To: "2025-01-01"}
	assert.Error(t, bad.Validate())

	malformed := HistoryFilter{From: "2025/01/01", To: "2025-01-31"}
	assert.Error(t, malformed.Validate())
}
