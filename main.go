package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	log.SetPrefix("healthai-api: ")

	// A missing .env is fine in deployed environments where vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	pool := getDBPool(cfg.DBURL)
	defer pool.Close()

	h := &Handler{store: &pgStore{db: pool}, loc: cfg.Location}
	if cfg.OpenAIAPIKey != "" {
		h.analyzer = newOpenAIAnalyzer(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		log.Println("OPENAI_API_KEY not set; meal analysis disabled")
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	h.registerRoutes(router)

	// CORS wraps the whole engine so preflight requests never reach auth.
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (calendar %s)", addr, cfg.Location)
	if err := http.ListenAndServe(addr, c.Handler(router)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
