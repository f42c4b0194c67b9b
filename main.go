package main

import (
	"embed"
	"html/template"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

//go:embed templates/*.html
var templateFS embed.FS

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET environment variable must be set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	pool := getDBPool()
	defer pool.Close()

	store := newPGStore(pool)
	h := &Handler{
		users:     store,
		records:   store,
		jwtSecret: []byte(secret),
	}

	router := gin.Default()
	router.SetTrustedProxies(nil)
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	h.registerRoutes(router)

	log.Printf("server starting on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
