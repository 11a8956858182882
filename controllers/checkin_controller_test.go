package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenhq/wellnest/models"
	"github.com/wrenhq/wellnest/notify"
)

// fakeStore implements store.Store in memory and counts writes.
type fakeStore struct {
	checkIns    []models.CheckIn
	habits      []models.Habit
	completions []models.HabitCompletion
	inserts     int
}

func (f *fakeStore) RecentCheckIns(_ context.Context, _ uint, _ time.Time, _ int) ([]models.CheckIn, error) {
	return f.checkIns, nil
}

func (f *fakeStore) WeekCheckIns(_ context.Context, _ uint, _ time.Time) ([]models.CheckIn, error) {
	return f.checkIns, nil
}

func (f *fakeStore) InsertCheckIn(_ context.Context, ci *models.CheckIn) error {
	f.inserts++
	f.checkIns = append(f.checkIns, *ci)
	return nil
}

func (f *fakeStore) HabitsByUser(_ context.Context, _ uint) ([]models.Habit, error) {
	return f.habits, nil
}

func (f *fakeStore) CompletionsSince(_ context.Context, _ uint, _ time.Time) ([]models.HabitCompletion, error) {
	return f.completions, nil
}

func checkInEngine(st *fakeStore, n notify.Notifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	c := NewCheckInController(st, n)
	r.POST("/api/v1/checkins", asUser(1), c.CreateCheckIn)
	return r
}

func postCheckIn(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, insightEnvelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkins", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env insightEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateCheckInMissingMoodRejectedBeforeStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := &fakeStore{}
	r := checkInEngine(st, notify.NewMemory())

	w, env := postCheckIn(t, r, `{"sleep_hours": 7}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40021, env.Code)
	assert.Zero(t, st.inserts, "validation failure must not reach the store")
}

func TestCreateCheckInMoodOutOfRangeRejectedBeforeStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := &fakeStore{}
	r := checkInEngine(st, notify.NewMemory())

	for _, body := range []string{
		`{"mood_score": 0}`,
		`{"mood_score": 6}`,
		`{"mood_score": -1}`,
	} {
		w, env := postCheckIn(t, r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Equal(t, 40022, env.Code, "body %s", body)
	}
	assert.Zero(t, st.inserts, "validation failures must not reach the store")
}

func TestCreateCheckInMalformedPayloadRejectedBeforeStore(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := &fakeStore{}
	r := checkInEngine(st, notify.NewMemory())

	w, env := postCheckIn(t, r, `{"mood_score": "four"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40020, env.Code)
	assert.Zero(t, st.inserts)
}

func TestCreateCheckInPersistsAndNormalizes(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	st := &fakeStore{}
	r := checkInEngine(st, notify.NewMemory())

	w, env := postCheckIn(t, r, `{"mood_score": 4, "sleep_hours": 99, "notes": "<b>slept</b> well"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)

	require.Equal(t, 1, st.inserts)
	saved := st.checkIns[0]
	assert.Equal(t, uint(1), saved.UserID)
	assert.Equal(t, 4, saved.MoodScore)
	assert.Equal(t, models.EnergyDefault, saved.EnergyLevel)
	assert.Equal(t, 12.0, saved.SleepHours, "sleep is clamped to the configured cap")
	assert.Equal(t, "slept well", saved.Notes, "notes are stripped of markup")
}
