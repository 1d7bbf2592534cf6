package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Neel-Sh/HealthAI-sub002/internal/energy"
)

// Handler holds shared dependencies (store, meal analyzer, calendar) for all route handlers.
type Handler struct {
	store    dataStore
	analyzer mealAnalyzer // nil when OPENAI_API_KEY is not configured
	loc      *time.Location
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// location returns the calendar used for day boundaries, UTC if unset.
func (h *Handler) location() *time.Location {
	if h.loc == nil {
		return time.UTC
	}
	return h.loc
}

// today returns the current calendar day in the handler's location.
func (h *Handler) today() energy.Day {
	return energy.DayOf(time.Now(), h.location())
}

// dayQuery parses a YYYY-MM-DD query param, defaulting to today. Writes a 400
// and returns ok=false on a malformed value.
func (h *Handler) dayQuery(c *gin.Context, name string) (energy.Day, bool) {
	s := c.Query(name)
	if s == "" {
		return h.today(), true
	}
	d, err := energy.ParseDay(s)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid "+name+", expected YYYY-MM-DD")
		return energy.Day{}, false
	}
	return d, true
}

// rangeQuery parses required start/end params and rejects start > end.
func rangeQuery(c *gin.Context) (start, end energy.Day, ok bool) {
	startStr, endStr := c.Query("start"), c.Query("end")
	if startStr == "" || endStr == "" {
		apiError(c, http.StatusBadRequest, "start and end query params are required")
		return start, end, false
	}
	start, err := energy.ParseDay(startStr)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid start, expected YYYY-MM-DD")
		return start, end, false
	}
	end, err = energy.ParseDay(endStr)
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid end, expected YYYY-MM-DD")
		return start, end, false
	}
	if end.Before(start) {
		apiError(c, http.StatusBadRequest, "start must not be after end")
		return start, end, false
	}
	return start, end, true
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.PATCH("/profile", h.patchProfile)
	api.GET("/goals", h.getGoals)
	api.PATCH("/goals", h.patchGoals)
	api.GET("/meals", h.getDailyMeals)
	api.POST("/meals", h.createMeal)
	api.DELETE("/meals/:id", h.deleteMeal)
	api.POST("/meals/analyze", h.analyzeMeal)
	api.GET("/active-energy", h.getActiveEnergy)
	api.PUT("/active-energy/:date", h.putActiveEnergy)
	api.GET("/activity-level", h.getActivityLevel)
	api.GET("/snapshot", h.getSnapshot)
	api.GET("/deficit/week", h.getWeekDeficit)
	api.GET("/weight-log", h.getWeightLog)
	api.POST("/weight-log", h.upsertWeightEntry)
	api.DELETE("/weight-log/:id", h.deleteWeightEntry)
}
