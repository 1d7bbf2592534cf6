package main

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

const (
	testToken  = "test-token"
	testUserID = 1
)

// fakeStore is an in-memory dataStore for handler tests. No DB needed.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]user
	profiles map[int]profileRow
	goals    map[int]goalRow
	meals    map[int][]energy.MealEntry
	active   map[int]map[energy.Day]energy.ActiveEnergySample
	weights  map[int][]weightEntry
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: map[string]user{
			"tester": {ID: testUserID, Username: "tester", AuthToken: testToken},
		},
		profiles: map[int]profileRow{},
		goals:    map[int]goalRow{},
		meals:    map[int][]energy.MealEntry{},
		active:   map[int]map[energy.Day]energy.ActiveEnergySample{},
		weights:  map[int][]weightEntry{},
	}
}

func (s *fakeStore) userByUsername(_ context.Context, username string) (user, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return user{}, pgx.ErrNoRows
	}
	return u, nil
}

func (s *fakeStore) userIDForToken(_ context.Context, token string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.AuthToken == token {
			return u.ID, nil
		}
	}
	return 0, pgx.ErrNoRows
}

func (s *fakeStore) getProfile(_ context.Context, userID int) (profileRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return profileRow{UserID: userID}, nil
}

func (s *fakeStore) saveProfile(_ context.Context, p profileRow) (profileRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return p, nil
}

func (s *fakeStore) getGoals(_ context.Context, userID int) (goalRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.goals[userID]; ok {
		return g, nil
	}
	return defaultGoalRow(userID), nil
}

func (s *fakeStore) saveGoals(_ context.Context, g goalRow) (goalRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.UserID] = g
	return g, nil
}

func (s *fakeStore) listMeals(_ context.Context, userID int, from, to time.Time) ([]energy.MealEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []energy.MealEntry
	for _, e := range s.meals[userID] {
		if !e.LoggedAt.Before(from) && e.LoggedAt.Before(to) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b energy.MealEntry) int { return a.LoggedAt.Compare(b.LoggedAt) })
	return out, nil
}

func (s *fakeStore) createMeal(_ context.Context, userID int, e energy.MealEntry) (energy.MealEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meals[userID] = append(s.meals[userID], e)
	return e, nil
}

func (s *fakeStore) deleteMeal(_ context.Context, userID int, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.meals[userID])
	s.meals[userID] = slices.DeleteFunc(s.meals[userID], func(e energy.MealEntry) bool { return e.ID == id })
	return len(s.meals[userID]) < before, nil
}

func (s *fakeStore) listActiveEnergy(_ context.Context, userID int, start, end energy.Day) ([]energy.ActiveEnergySample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []energy.ActiveEnergySample
	for d := start; !end.Before(d); d = d.AddDays(1) {
		if sample, ok := s.active[userID][d]; ok {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (s *fakeStore) upsertActiveEnergy(_ context.Context, userID int, sample energy.ActiveEnergySample) (energy.ActiveEnergySample, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active[userID] == nil {
		s.active[userID] = map[energy.Day]energy.ActiveEnergySample{}
	}
	s.active[userID][sample.Date] = sample
	return sample, nil
}

func (s *fakeStore) listWeights(_ context.Context, userID int, start, end energy.Day) ([]weightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []weightEntry
	for _, w := range s.weights[userID] {
		d := w.Date.Day()
		if !d.Before(start) && !end.Before(d) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *fakeStore) latestWeight(_ context.Context, userID int) (*weightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *weightEntry
	for i, w := range s.weights[userID] {
		if latest == nil || w.Date.After(latest.Date.Time) {
			latest = &s.weights[userID][i]
		}
	}
	if latest == nil {
		return nil, nil
	}
	e := *latest
	return &e, nil
}

func (s *fakeStore) upsertWeight(_ context.Context, userID int, day energy.Day, weightKg float64) (weightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.weights[userID] {
		if w.Date.Day() == day {
			s.weights[userID][i].WeightKg = weightKg
			return s.weights[userID][i], nil
		}
	}
	s.nextID++
	e := weightEntry{ID: s.nextID, UserID: userID, Date: DateOnly{day.Start(time.UTC)}, WeightKg: weightKg}
	s.weights[userID] = append(s.weights[userID], e)
	return e, nil
}

func (s *fakeStore) deleteWeight(_ context.Context, userID int, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(s.weights[userID])
	s.weights[userID] = slices.DeleteFunc(s.weights[userID], func(w weightEntry) bool { return w.ID == id })
	return len(s.weights[userID]) < before, nil
}

/* ─── Router helpers ─────────────────────────────────────────────────── */

// setupRouter builds the full route table over store with a UTC calendar.
func setupRouter(store dataStore, analyzer mealAnalyzer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &Handler{store: store, analyzer: analyzer, loc: time.UTC}
	router := gin.New()
	h.registerRoutes(router)
	return router
}

// doRequest sends an authenticated request with an optional JSON body.
func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }
