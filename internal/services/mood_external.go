package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/evermind-app/evermind-backend/internal/models"
	"google.golang.org/genai"
)

const moodPromptTemplate = `You are a compassionate wellness assistant. Analyze the mood journal entry below and respond with ONLY a JSON object, no prose, matching exactly:
{"score": <number 0-10>, "emoji": "<single emoji>", "sentiment": "<one of: very negative, negative, slightly negative, neutral, slightly positive, positive, very positive>", "insights": "<2-3 supportive sentences>", "suggestions": ["<tip>", "<tip>", "<tip>", "<tip>"], "themes": ["<theme>"], "confidence": <number 0-1>, "mood_category": "<one word>", "intensity": "<low|medium|high>"}

Entry: %s
Self-reported mood (1-10): %d
Mood in one word: %s
Something positive today: %s
Current stressors or challenges: %s`

// ExternalMoodAnalyzer is one attempt against the external scorer.
// Return conventions:
//   - (result, nil): accepted result, possibly a terminal degraded one
//   - (nil, nil): soft failure, eligible for retry
//   - (nil, err): exhaustion on the final attempt
type ExternalMoodAnalyzer interface {
	Analyze(ctx context.Context, content string, moodCtx models.MoodContext, attempt, maxAttempts int) (*models.MoodAnalysis, error)
}

// generateFunc produces raw model text for a prompt. Split out so tests can
// feed canned responses and errors without a network client.
type generateFunc func(ctx context.Context, prompt string) (string, error)

// GeminiAnalyzer calls the Gemini API for mood scoring, with strict
// response-shape validation. It never trusts the model output: anything that
// fails the validator is a soft failure.
type GeminiAnalyzer struct {
	generate generateFunc
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, err
	}

	return &GeminiAnalyzer{
		generate: func(ctx context.Context, prompt string) (string, error) {
			result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
			if err != nil {
				return "", err
			}
			if result == nil || len(result.Candidates) == 0 ||
				result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
				return "", errors.New("empty model response")
			}
			return result.Candidates[0].Content.Parts[0].Text, nil
		},
	}, nil
}

func (g *GeminiAnalyzer) Analyze(ctx context.Context, content string, moodCtx models.MoodContext, attempt, maxAttempts int) (*models.MoodAnalysis, error) {
	raw, err := g.generate(ctx, buildMoodPrompt(content, moodCtx))
	if err != nil {
		switch classifyScorerError(err) {
		case scorerErrCredentials:
			// Retrying cannot succeed; hand back an explained placeholder now.
			return degradedAnalysis("Mood scoring is temporarily unavailable due to a service configuration problem."), nil
		case scorerErrQuota:
			if attempt >= maxAttempts {
				return degradedAnalysis("The mood scoring service is over capacity right now, so today's entry received a neutral placeholder score."), nil
			}
			return nil, nil
		default:
			if attempt >= maxAttempts {
				return nil, err
			}
			return nil, nil
		}
	}

	analysis, err := parseMoodResponse(raw)
	if err != nil {
		// Malformed or out-of-contract response: soft failure, the retry
		// budget is consumed either way.
		return nil, nil
	}
	return analysis, nil
}

func buildMoodPrompt(content string, moodCtx models.MoodContext) string {
	scale := moodCtx.MoodScale
	if scale < 1 || scale > 10 {
		scale = 5
	}
	return fmt.Sprintf(moodPromptTemplate, content, scale,
		orNone(moodCtx.MoodWord), orNone(moodCtx.Positive), orNone(moodCtx.Stressors))
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not provided)"
	}
	return s
}

type scorerErrKind int

const (
	scorerErrTransport scorerErrKind = iota
	scorerErrQuota
	scorerErrCredentials
)

// classifyScorerError buckets an API error by substring, the same way the
// SDK surfaces status codes inside error text.
func classifyScorerError(err error) scorerErrKind {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "quota") ||
		strings.Contains(msg, "exhausted") || strings.Contains(msg, "rate limit"):
		return scorerErrQuota
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") ||
		strings.Contains(msg, "api key") || strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission"):
		return scorerErrCredentials
	default:
		return scorerErrTransport
	}
}

// externalMoodResponse is the wire contract expected from the model.
type externalMoodResponse struct {
	Score        float64  `json:"score"`
	Emoji        string   `json:"emoji"`
	Sentiment    string   `json:"sentiment"`
	Insights     string   `json:"insights"`
	Suggestions  []string `json:"suggestions"`
	Themes       []string `json:"themes"`
	Confidence   float64  `json:"confidence"`
	MoodCategory string   `json:"mood_category"`
	Intensity    string   `json:"intensity"`
}

// parseMoodResponse strips code fencing, repairs a brace-less near-miss, then
// parses and validates the response.
func parseMoodResponse(raw string) (*models.MoodAnalysis, error) {
	cleaned := cleanModelJSON(raw)

	var resp externalMoodResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return nil, err
	}

	analysis := &models.MoodAnalysis{
		Score:        resp.Score,
		Emoji:        resp.Emoji,
		Sentiment:    resp.Sentiment,
		Insights:     resp.Insights,
		Suggestions:  resp.Suggestions,
		Themes:       resp.Themes,
		Confidence:   resp.Confidence,
		MoodCategory: resp.MoodCategory,
		Intensity:    resp.Intensity,
		Source:       models.AnalysisSourceExternal,
	}
	if err := validateMoodAnalysis(analysis); err != nil {
		return nil, err
	}
	return analysis, nil
}

// cleanModelJSON strips markdown fences and wraps bare key/value text in
// braces so near-miss responses still parse.
func cleanModelJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if !strings.HasPrefix(cleaned, "{") {
		cleaned = "{" + cleaned + "}"
	}
	return cleaned
}

// validateMoodAnalysis is the single shape/range validator every accepted
// analysis must pass, whichever scorer produced it.
func validateMoodAnalysis(a *models.MoodAnalysis) error {
	switch {
	case a.Score < 0 || a.Score > 10:
		return fmt.Errorf("score out of range: %v", a.Score)
	case strings.TrimSpace(a.Emoji) == "":
		return errors.New("missing emoji")
	case strings.TrimSpace(a.Sentiment) == "":
		return errors.New("missing sentiment")
	case strings.TrimSpace(a.Insights) == "":
		return errors.New("missing insights")
	case len(a.Suggestions) != 4:
		return fmt.Errorf("expected 4 suggestions, got %d", len(a.Suggestions))
	case len(a.Themes) == 0:
		return errors.New("missing themes")
	case a.Confidence < 0 || a.Confidence > 1:
		return fmt.Errorf("confidence out of range: %v", a.Confidence)
	case strings.TrimSpace(a.MoodCategory) == "":
		return errors.New("missing mood category")
	case strings.TrimSpace(a.Intensity) == "":
		return errors.New("missing intensity")
	}
	return nil
}

// degradedAnalysis is the terminal, schema-valid placeholder returned when
// the external scorer is unusable and the local fallback must not run
// (the failure is already explained to the user).
func degradedAnalysis(explanation string) *models.MoodAnalysis {
	return &models.MoodAnalysis{
		Score:     5.0,
		Emoji:     "😐",
		Sentiment: "neutral",
		Insights:  explanation + " Your entry was saved and you can keep journaling as usual.",
		Suggestions: []string{
			"Your entry is saved; scoring will catch up automatically.",
			"Re-read what you wrote and note how it lands now.",
			"Try a short breathing exercise while we recover.",
			"Check back later for full insights.",
		},
		Themes:       []string{"general"},
		Confidence:   0.0,
		MoodCategory: "steady",
		Intensity:    "low",
		Source:       models.AnalysisSourceDegraded,
	}
}
