// Package insight builds a bounded natural-language prompt from a user's
// recent check-ins, asks the Gemini API for a short coaching blurb, and
// normalizes the outcome into a single display string. Every failure path
// resolves to a usable string; callers never receive an error.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wrenhq/wellnest/models"
	"github.com/wrenhq/wellnest/store"
	"github.com/wrenhq/wellnest/utils"
)

// Status is the HTTP-style outcome used purely for client UX. The suggestion
// text is usable regardless of status.
type Status int

const (
	StatusOK Status = iota
	StatusUnauthenticated
	StatusDegraded
)

// Fixed user-facing strings. Fallback is deliberately independent of the
// user's data so a model or store failure never leaks a partial rendering.
const (
	LoginPrompt     = "Please log in to get AI insights."
	OnboardingText  = "🌱 Start tracking your mood to get personalized AI insights!"
	FallbackMessage = "You’ve been carrying a heavy mood for a few days, and the low sleep + low energy is starting to add up — it makes sense that everything feels a bit harder right now 💛.\n" +
		"Try a 10-minute sunlight walk, one tech-free hour before sleep, and drinking a full glass of water first thing in the morning to gently reset your system.\n" +
		"Small actions can slowly shift your mood without overwhelming you. You’re doing your best — take it one tiny step at a time 🌱"
)

// Result is the summarizer's only output shape. Suggestion is never empty.
type Result struct {
	Suggestion string `json:"suggestion"`
}

// Config bounds the generation pipeline.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string // Gemini endpoint base, overridable in tests
	RecentMax  int    // max check-ins fed into the prompt
	WindowDays int    // trailing fetch window
	MoodScale  int    // storage scale, echoed in the digest ("Mood 4/5")
}

var httpClient = &http.Client{Timeout: 15 * time.Second}

// Generator produces insights for one request at a time; it holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	reader store.CheckInReader
	cfg    Config
	client *http.Client
}

// NewGenerator builds a Generator over the given check-in reader.
func NewGenerator(reader store.CheckInReader, cfg Config) *Generator {
	if cfg.RecentMax <= 0 {
		cfg.RecentMax = 10
	}
	if cfg.WindowDays <= 0 {
		cfg.WindowDays = 7
	}
	if cfg.MoodScale <= 0 {
		cfg.MoodScale = 5
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-pro"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	return &Generator{reader: reader, cfg: cfg, client: httpClient}
}

// Generate resolves a suggestion for the owner. Reads are best-effort and the
// external call is idempotent; any failure degrades to FallbackMessage.
func (g *Generator) Generate(ctx context.Context, userID uint, now time.Time) (Result, Status) {
	if userID == 0 {
		return Result{Suggestion: LoginPrompt}, StatusUnauthenticated
	}

	since := now.AddDate(0, 0, -g.cfg.WindowDays)
	recent, err := g.reader.RecentCheckIns(ctx, userID, since, g.cfg.RecentMax)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("insight: check-in fetch failed for user %d: %v", userID, err)
		}
		return Result{Suggestion: FallbackMessage}, StatusDegraded
	}

	if len(recent) == 0 {
		return Result{Suggestion: OnboardingText}, StatusOK
	}

	prompt := g.buildPrompt(recent)
	text, err := g.generateContent(ctx, prompt)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("insight: generation failed for user %d: %v", userID, err)
		}
		return Result{Suggestion: FallbackMessage}, StatusDegraded
	}

	return Result{Suggestion: text}, StatusOK
}

// buildPrompt renders the digest plus the structural instruction block. The
// prompt is well-formed for any non-empty record set.
func (g *Generator) buildPrompt(recent []models.CheckIn) string {
	var digest strings.Builder
	var moodSum, sleepSum float64
	for i, ci := range recent {
		if i > 0 {
			digest.WriteByte('\n')
		}
		fmt.Fprintf(&digest, "%s: Mood %d/%d, Energy %s, Sleep %ghrs",
			ci.CreatedAt.Local().Format("Jan 2, 2006"),
			ci.MoodScore, g.cfg.MoodScale,
			ci.EnergyLabel(),
			ci.SleepHours,
		)
		if ci.Notes != "" {
			fmt.Fprintf(&digest, ". Notes: %s", ci.Notes)
		}
		moodSum += float64(ci.MoodScore)
		sleepSum += ci.SleepHours
	}

	n := float64(len(recent))
	avgMood := strconv.FormatFloat(moodSum/n, 'f', 1, 64)
	avgSleep := strconv.FormatFloat(sleepSum/n, 'f', 1, 64)

	return fmt.Sprintf(`You are a warm, supportive wellness coach. Analyze this user's wellness data and provide encouraging insights.

Recent Check-ins (Last %d Days):
%s

Averages: Mood %s/%d, Sleep %shrs

Provide:
1. A warm observation about their patterns (1-2 sentences)
2. 2-3 short, actionable suggestions (e.g., "Try a 10-minute walk", "Journal before bed", "Drink more water")
3. Encouraging closing words

Keep it friendly and concise (4-5 sentences total). Use 1-2 relevant emojis. Focus on small, practical steps.`,
		g.cfg.WindowDays, digest.String(), avgMood, g.cfg.MoodScale, avgSleep)
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generateContent performs the single external call. The first candidate's
// first text part is returned verbatim; its content is not validated.
func (g *Generator) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1/models/%s:generateContent?key=%s",
		g.cfg.BaseURL, g.cfg.Model, url.QueryEscape(g.cfg.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gemini api status %s", resp.Status)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
