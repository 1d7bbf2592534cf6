package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// setupAnalyzeTest creates a router backed by a mock OpenAI server and returns
// the router, the server, a function to set the mock response, and a pointer
// to the last request body the mock received.
func setupAnalyzeTest() (*gin.Engine, *httptest.Server, func(int, any), *[]byte) {
	var mockStatus int
	var mockBody any
	var lastRequest []byte

	mockOpenAI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastRequest, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mockStatus)
		json.NewEncoder(w).Encode(mockBody)
	}))

	router := setupRouter(newFakeStore(), newOpenAIAnalyzer(mockOpenAI.URL, "test-key", "gpt-4o-mini"))

	setMock := func(status int, body any) {
		mockStatus = status
		mockBody = body
	}
	return router, mockOpenAI, setMock, &lastRequest
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestAnalyze_DescriptionSuccess(t *testing.T) {
	router, mockServer, setMock, _ := setupAnalyzeTest()
	defer mockServer.Close()

	estimate := `{"name":"Chicken Burrito","calories":720,"protein_g":42,"carbs_g":78,"fat_g":24,"fiber_g":9,"sugar_g":4,"sodium_mg":1450,"water_ml":0,"confidence":3}`
	setMock(http.StatusOK, openAIChatResponse(estimate))

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"  chicken burrito  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp mealEstimate
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Name != "Chicken Burrito" {
		t.Errorf("expected name 'Chicken Burrito', got '%s'", resp.Name)
	}
	if resp.Calories != 720 || resp.SodiumMg != 1450 {
		t.Errorf("unexpected numbers: %+v", resp)
	}
	if resp.Source != energy.SourceAIDescription {
		t.Errorf("expected source %q, got %q", energy.SourceAIDescription, resp.Source)
	}
}

func TestAnalyze_ImageSendsDataURL(t *testing.T) {
	router, mockServer, setMock, lastRequest := setupAnalyzeTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"name":"Salad","calories":310,"confidence":2}`))

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"image_base64":"aGVsbG8=","image_mime":"image/png"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(string(*lastRequest), "data:image/png;base64,aGVsbG8=") {
		t.Errorf("expected data URL in upstream request, got %s", *lastRequest)
	}

	var resp mealEstimate
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Source != energy.SourceAIImage {
		t.Errorf("expected source %q, got %q", energy.SourceAIImage, resp.Source)
	}
}

func TestAnalyze_NegativeValuesClamped(t *testing.T) {
	router, mockServer, setMock, _ := setupAnalyzeTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"name":"Diet Soda","calories":2,"sugar_g":-1,"water_ml":355}`))

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"can of diet soda"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp mealEstimate
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.SugarG != 0 {
		t.Errorf("expected sugar_g clamped to 0, got %v", resp.SugarG)
	}
	if resp.WaterMl != 355 {
		t.Errorf("expected water_ml 355, got %v", resp.WaterMl)
	}
}

func TestAnalyze_Unrecognized(t *testing.T) {
	router, mockServer, setMock, _ := setupAnalyzeTest()
	defer mockServer.Close()

	setMock(http.StatusOK, openAIChatResponse(`{"error":"unrecognized"}`))

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"asdfghjkl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error 'unrecognized', got '%s'", resp["error"])
	}
}

func TestAnalyze_OpenAIError500(t *testing.T) {
	router, mockServer, setMock, _ := setupAnalyzeTest()
	defer mockServer.Close()

	setMock(http.StatusInternalServerError, map[string]string{"error": "server error"})

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"banana"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "meal analysis failed" {
		t.Errorf("expected error 'meal analysis failed', got '%s'", resp["error"])
	}
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	router, mockServer, setMock, _ := setupAnalyzeTest()
	defer mockServer.Close()

	// OpenAI returns something that isn't valid JSON
	setMock(http.StatusOK, openAIChatResponse(`not valid json at all`))

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"banana"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	router, mockServer, _, _ := setupAnalyzeTest()
	defer mockServer.Close()

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAnalyze_NotConfigured(t *testing.T) {
	router := setupRouter(newFakeStore(), nil)

	w := doRequest(router, http.MethodPost, "/api/meals/analyze", `{"description":"banana"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
}
