package insight

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wrenhq/wellnest/models"
)

type fakeReader struct {
	rows []models.CheckIn
	err  error
}

func (f *fakeReader) RecentCheckIns(_ context.Context, _ uint, _ time.Time, _ int) ([]models.CheckIn, error) {
	return f.rows, f.err
}

func (f *fakeReader) WeekCheckIns(_ context.Context, _ uint, _ time.Time) ([]models.CheckIn, error) {
	return f.rows, f.err
}

func sampleRows() []models.CheckIn {
	return []models.CheckIn{
		{
			MoodScore:   4,
			EnergyLevel: 4,
			SleepHours:  7.5,
			Notes:       "good run this morning",
			CreatedAt:   time.Date(2024, 3, 6, 9, 0, 0, 0, time.Local),
		},
		{
			MoodScore:   2,
			EnergyLevel: 2,
			SleepHours:  6.5,
			CreatedAt:   time.Date(2024, 3, 5, 22, 0, 0, 0, time.Local),
		},
	}
}

func geminiReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(b)
}

func newTestGenerator(t *testing.T, reader *fakeReader, handler http.HandlerFunc) *Generator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGenerator(reader, Config{APIKey: "test-key", BaseURL: srv.URL})
}

func TestGenerateAnonymous(t *testing.T) {
	g := NewGenerator(&fakeReader{}, Config{})
	res, status := g.Generate(context.Background(), 0, time.Now())
	assert.Equal(t, StatusUnauthenticated, status)
	assert.Equal(t, LoginPrompt, res.Suggestion)
}

func TestGenerateOnboarding(t *testing.T) {
	// No check-ins yet: no model call, fixed onboarding text.
	g := newTestGenerator(t, &fakeReader{}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("model must not be called for an empty history")
	})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, OnboardingText, res.Suggestion)
}

func TestGenerateSuccessReturnsModelTextVerbatim(t *testing.T) {
	reply := "You're doing great! 🌟 Keep the evening walks going."
	var gotPath string
	var gotPrompt string

	g := newTestGenerator(t, &fakeReader{rows: sampleRows()}, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		require.Len(t, req.Contents[0].Parts, 1)
		gotPrompt = req.Contents[0].Parts[0].Text
		w.Write([]byte(geminiReply(reply)))
	})

	res, status := g.Generate(context.Background(), 42, time.Now())
	assert.Equal(t, StatusOK, status)
	assert.Equal(t, reply, res.Suggestion)

	assert.Equal(t, "/v1/models/gemini-pro:generateContent", gotPath)
	assert.Contains(t, gotPrompt, "Mood 4/5")
	assert.Contains(t, gotPrompt, "Energy High")
	assert.Contains(t, gotPrompt, "Sleep 7.5hrs")
	assert.Contains(t, gotPrompt, "Notes: good run this morning")
	assert.Contains(t, gotPrompt, "Averages: Mood 3.0/5, Sleep 7.0hrs")
}

func TestGenerateFallbackOnEmptyCandidates(t *testing.T) {
	g := newTestGenerator(t, &fakeReader{rows: sampleRows()}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, FallbackMessage, res.Suggestion)
}

func TestGenerateFallbackOnAPIError(t *testing.T) {
	g := newTestGenerator(t, &fakeReader{rows: sampleRows()}, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota exceeded"}}`, http.StatusTooManyRequests)
	})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, FallbackMessage, res.Suggestion)
}

func TestGenerateFallbackOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close() // connection refused from here on

	g := NewGenerator(&fakeReader{rows: sampleRows()}, Config{BaseURL: srv.URL})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, FallbackMessage, res.Suggestion)
}

func TestGenerateFallbackOnStoreError(t *testing.T) {
	g := newTestGenerator(t, &fakeReader{err: errors.New("connection reset")}, func(w http.ResponseWriter, r *http.Request) {
		t.Error("model must not be called when the store read fails")
	})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, FallbackMessage, res.Suggestion)
}

func TestGenerateFallbackOnWhitespaceReply(t *testing.T) {
	g := newTestGenerator(t, &fakeReader{rows: sampleRows()}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(geminiReply("  \n ")))
	})
	res, status := g.Generate(context.Background(), 1, time.Now())
	assert.Equal(t, StatusDegraded, status)
	assert.Equal(t, FallbackMessage, res.Suggestion)
}

func TestNewGeneratorDefaults(t *testing.T) {
	g := NewGenerator(&fakeReader{}, Config{})
	assert.Equal(t, 10, g.cfg.RecentMax)
	assert.Equal(t, 7, g.cfg.WindowDays)
	assert.Equal(t, 5, g.cfg.MoodScale)
	assert.Equal(t, "gemini-pro", g.cfg.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com", g.cfg.BaseURL)
}
