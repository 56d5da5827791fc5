package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_NilBecomesEmptyWithTotal(t *testing.T) {
	rec := httptest.NewRecorder()
	var items []string
	List(rec, items)

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool     `json:"success"`
		Data    []string `json:"data"`
		Meta    Meta     `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.NotNil(t, body.Data)
	assert.Equal(t, 0, body.Meta.Total)
}

func TestList_CountsItems(t *testing.T) {
	rec := httptest.NewRecorder()
	List(rec, []int{1, 2, 3})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Meta)
	assert.Equal(t, 3, body.Meta.Total)
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Conflict(rec, "Request already processed")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	require.NotNil(t, body.Error)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}
