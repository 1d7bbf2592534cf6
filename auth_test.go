package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func storeWithPassword(t *testing.T, password string) *fakeStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s := newFakeStore()
	u := s.users["tester"]
	u.Password = string(hash)
	s.users["tester"] = u
	return s
}

func doLogin(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	router := setupRouter(storeWithPassword(t, "hunter22"), nil)

	w := doLogin(router, `{"username":"tester","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token  string `json:"token"`
		UserID int    `json:"user_id"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Token != testToken || resp.UserID != testUserID {
		t.Errorf("unexpected login response: %+v", resp)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := setupRouter(storeWithPassword(t, "hunter22"), nil)

	for _, body := range []string{
		`{"username":"tester","password":"wrong"}`,
		`{"username":"nobody","password":"hunter22"}`,
	} {
		w := doLogin(router, body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", body, w.Code)
		}
	}
}

func TestAuthMiddleware(t *testing.T) {
	router := setupRouter(newFakeStore(), nil)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + testToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("expected %d, got %d", tc.want, w.Code)
			}
		})
	}
}

func TestHealthIsPublic(t *testing.T) {
	router := setupRouter(newFakeStore(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
