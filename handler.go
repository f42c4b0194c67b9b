package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (stores, session secret) for all route handlers.
type Handler struct {
	users     userStore
	records   recordStore
	jwtSecret []byte
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. A pool (not a single conn) because
// hosted Postgres providers close idle connections after a few minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// registerRoutes registers all routes on the router. Pages under the auth
// group redirect to /login when no valid session cookie is present.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/", h.welcome)
	router.GET("/signup", h.showSignup)
	router.POST("/signup", h.signup)
	router.GET("/login", h.showLogin)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Authenticated pages
	auth := router.Group("/", h.requireLogin())
	auth.GET("/bmi", h.showCalculator)
	auth.POST("/bmi", h.submitCalculator)
	auth.GET("/history", h.history)
	auth.GET("/record/:id/edit", h.showEditRecord)
	auth.POST("/record/:id/edit", h.editRecord)
	auth.GET("/record/:id/delete", h.confirmDeleteRecord)
	auth.POST("/record/:id/delete", h.deleteRecord)
}

/* ─── Render helpers ──────────────────────────────────────────────────── */

// jsArray marshals v for safe inclusion in an inline <script> block, where the
// chart library reads its data series.
func jsArray(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return template.JS("[]")
	}
	return template.JS(b)
}

// chartFields returns the template fields for the metric chart on the /bmi and
// /history pages: four parallel arrays in record-creation order.
func chartFields(records []healthRecord) gin.H {
	cd := buildChartData(records)
	return gin.H{
		"ChartDates":    jsArray(cd.Dates),
		"ChartBMIs":     jsArray(cd.BMIs),
		"ChartCalories": jsArray(cd.Calories),
		"ChartSteps":    jsArray(cd.Steps),
	}
}

// merge copies the entries of each src map into dst and returns dst.
func merge(dst gin.H, srcs ...gin.H) gin.H {
	for _, src := range srcs {
		for k, v := range src {
			dst[k] = v
		}
	}
	return dst
}

// pageError renders a minimal error page with the given status. Used for
// not-found and internal failures on HTML routes where a form re-render
// doesn't apply.
func pageError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", gin.H{"Status": status, "Message": message})
}
