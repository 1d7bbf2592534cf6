package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// errNoAnalysisResult means the analyzer could not recognize a meal in the input.
var errNoAnalysisResult = errors.New("no analysis result")

// mealAnalyzer turns a free-text description or a photo into a nutrition
// estimate. It never creates log entries; the client posts the estimate to
// /api/meals after the user confirms it.
type mealAnalyzer interface {
	analyze(ctx context.Context, req analyzeRequest) (mealEstimate, error)
}

/* ─── Request / Response types ───────────────────────────────────────── */

// analyzeRequest is the body for POST /api/meals/analyze. Exactly one of
// Description or ImageBase64 must be set.
type analyzeRequest struct {
	Description string `json:"description"`
	ImageBase64 string `json:"image_base64"`
	ImageMIME   string `json:"image_mime"`
}

// source reports which MealSource an entry created from this request gets.
func (r analyzeRequest) source() energy.MealSource {
	if r.ImageBase64 != "" {
		return energy.SourceAIImage
	}
	return energy.SourceAIDescription
}

// mealEstimate is the structured nutrition data returned by the AI, shaped
// like a MealEntry's numeric fields. Confidence is 1-5.
type mealEstimate struct {
	Name       string            `json:"name"`
	Calories   float64           `json:"calories"`
	ProteinG   float64           `json:"protein_g"`
	CarbsG     float64           `json:"carbs_g"`
	FatG       float64           `json:"fat_g"`
	FiberG     float64           `json:"fiber_g"`
	SugarG     float64           `json:"sugar_g"`
	SodiumMg   float64           `json:"sodium_mg"`
	WaterMl    float64           `json:"water_ml"`
	Confidence int               `json:"confidence"`
	Source     energy.MealSource `json:"source"`
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

const mealSystemPrompt = `You are a nutrition assistant. Identify the meal described (or shown in the photo) and return a JSON object with:
- "name" (string, cleaned up title case)
- "calories" (number, total kcal for the whole portion)
- "protein_g", "carbs_g", "fat_g", "fiber_g", "sugar_g" (numbers, grams for the whole portion)
- "sodium_mg" (number, milligrams)
- "water_ml" (number, milliliters of water or other drinks, 0 if none)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague meals. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
// Content is a string for text, or a list of parts for image input.
type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat map[string]any  `json:"response_format"`
}

// openAIAnalyzer calls the chat completions API over raw net/http to avoid
// pulling in the OpenAI SDK.
type openAIAnalyzer struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func newOpenAIAnalyzer(baseURL, apiKey, model string) *openAIAnalyzer {
	return &openAIAnalyzer{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// userMessage builds the user turn: plain text, or text plus an inline image.
func (r analyzeRequest) userMessage() openAIMessage {
	if r.ImageBase64 == "" {
		return openAIMessage{Role: "user", Content: r.Description}
	}
	mime := r.ImageMIME
	if mime == "" {
		mime = "image/jpeg"
	}
	text := r.Description
	if text == "" {
		text = "Estimate the nutrition of the meal in this photo."
	}
	return openAIMessage{Role: "user", Content: []openAIContentPart{
		{Type: "text", Text: text},
		{Type: "image_url", ImageURL: &openAIImageURL{URL: "data:" + mime + ";base64," + r.ImageBase64}},
	}}
}

// complete sends a chat completions request and returns the content string
// from the first choice.
func (a *openAIAnalyzer) complete(ctx context.Context, messages []openAIMessage) (string, error) {
	bodyBytes, err := json.Marshal(openAIRequest{
		Model:          a.model,
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return result.Choices[0].Message.Content, nil
}

func (a *openAIAnalyzer) analyze(ctx context.Context, req analyzeRequest) (mealEstimate, error) {
	content, err := a.complete(ctx, []openAIMessage{
		{Role: "system", Content: mealSystemPrompt},
		req.userMessage(),
	})
	if err != nil {
		return mealEstimate{}, err
	}

	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		return mealEstimate{}, fmt.Errorf("parse content: %w", err)
	}
	if errorResp.Error != "" {
		return mealEstimate{}, errNoAnalysisResult
	}

	var est mealEstimate
	if err := json.Unmarshal([]byte(content), &est); err != nil {
		return mealEstimate{}, fmt.Errorf("parse estimate: %w", err)
	}
	// A usable estimate needs at least a name and some calories.
	if est.Name == "" || est.Calories <= 0 {
		return mealEstimate{}, errNoAnalysisResult
	}
	est.Source = req.source()
	return est, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// analyzeMeal returns a nutrition estimate for a description or photo.
// POST /api/meals/analyze. An unrecognized meal is a 200 with
// {"error": "unrecognized"} so the client can prompt for manual entry.
func (h *Handler) analyzeMeal(c *gin.Context) {
	if h.analyzer == nil {
		apiError(c, http.StatusServiceUnavailable, "meal analysis not configured")
		return
	}

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" && req.ImageBase64 == "" {
		apiError(c, http.StatusBadRequest, "description or image_base64 is required")
		return
	}

	est, err := h.analyzer.analyze(c.Request.Context(), req)
	if errors.Is(err, errNoAnalysisResult) {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	if err != nil {
		log.Printf("[analyzeMeal] OpenAI error: %v", err)
		apiError(c, http.StatusBadGateway, "meal analysis failed")
		return
	}

	// Negative values from the model would fail validation on create; clamp
	// them here so the client gets a loggable estimate.
	for _, v := range []*float64{&est.Calories, &est.ProteinG, &est.CarbsG, &est.FatG,
		&est.FiberG, &est.SugarG, &est.SodiumMg, &est.WaterMl} {
		*v = max(*v, 0)
	}
	c.JSON(http.StatusOK, est)
}
