package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"out of geofence", &attendance.OutOfGeofenceError{Distance: 111.19, Radius: 100}, http.StatusForbidden, "OUT_OF_GEOFENCE"},
		{"no open session", attendance.ErrNoOpenSession, http.StatusBadRequest, "BAD_REQUEST"},
		{"wrapped not found", fmt.Errorf("failed to resolve: %w", exception.ErrRequestNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"already processed", exception.ErrAlreadyProcessed, http.StatusConflict, "CONFLICT"},
		{"validation", validator.ValidationErrors{{Field: "reason", Message: "reason is required"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"persistence", errors.New("connection refused"), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_GeofenceDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, &attendance.OutOfGeofenceError{Distance: 111.19, Radius: 100})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "111", body.Error.Details["distance_meters"])
	assert.Equal(t, "location violation: you are 111m away from work location", body.Error.Message)
}
