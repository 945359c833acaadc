package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calref/retouch-api/internal/task"
)

func mustParseUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}

func TestStartRun(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	f.uploadItem(t, "a.png")

	rr := f.do(httptest.NewRequest(http.MethodPost, "/api/runs/", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp StartRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Started)
}

func TestStartRunWhileActive(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	f.runner.startOK = false

	rr := f.do(httptest.NewRequest(http.MethodPost, "/api/runs/", nil))
	require.Equal(t, http.StatusAccepted, rr.Code)

	var resp StartRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Started)
}

func TestStartRunWithDeadCredential(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	f.runner.startOK = false
	f.runner.startErr = task.ErrCredentialUnusable

	rr := f.do(httptest.NewRequest(http.MethodPost, "/api/runs/", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestStartRunNothingEligible(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	f.runner.startOK = false
	f.runner.startErr = task.ErrNoEligibleItems

	rr := f.do(httptest.NewRequest(http.MethodPost, "/api/runs/", nil))
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCancelRun(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)

	rr := f.do(httptest.NewRequest(http.MethodPost, "/api/runs/cancel", nil))
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.True(t, f.runner.canceled)
}

func TestGetRunStatus(t *testing.T) {
	t.Parallel()
	f := newAPIFixture(t)
	f.runner.progress = task.Progress{Active: true, Total: 4, Processed: 2}

	rr := f.do(httptest.NewRequest(http.MethodGet, "/api/runs/current", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var progress task.Progress
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &progress))
	assert.True(t, progress.Active)
	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 2, progress.Processed)
}
