package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusmark/internal/attendance"
	"campusmark/internal/auth"
	"campusmark/internal/cloudinary"
	"campusmark/internal/config"
	"campusmark/internal/handler"
	"campusmark/internal/httpmiddleware"
	"campusmark/internal/roster"
	"campusmark/internal/store"
	"campusmark/internal/verify"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	// The verifier is constructed once here and injected; handlers never
	// build clients lazily at request time.
	var verifier verify.Verifier
	if cfg.GeminiAPIKey != "" {
		verifier = verify.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		log.Printf("gemini verifier configured (model %s)", cfg.GeminiModel)
	} else {
		// Without credentials every capture degrades to an unverified
		// verdict; the API stays up so manual marking keeps working.
		verifier = verify.NewGemini("", cfg.GeminiModel, cfg.GeminiTimeout)
		log.Println("GEMINI_API_KEY not set; face verification will report unavailable")
	}

	var cdnClient *cloudinary.Client
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cdnClient = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Println("cloudinary configured:", cfg.CloudinaryCloudName)
	}

	rosterRepo := roster.NewRepository(db.Client)
	ledger := attendance.NewRepository(db.Client)
	classifier := attendance.Classifier{ConfidenceFloor: cfg.ConfidenceFloor, LateAfter: cfg.LateAfter}
	pipeline := attendance.NewPipeline(verifier, ledger, classifier, cfg.GeofenceRadiusM, cfg.GeminiTimeout)
	marks := attendance.NewService(ledger)

	h := handler.New(cfg, rosterRepo, ledger, pipeline, marks, cdnClient, redisClient)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware(cfg.CORSOrigin))
	r.Use(securityHeaders())

	var limiter httpmiddleware.Limiter
	if redisClient.Healthy(context.Background()) {
		limiter = httpmiddleware.NewRedisLimiter(redisClient.Client, cfg.RateLimitPerMin)
	} else {
		log.Println("redis unavailable, using in-memory rate limiter")
		limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	}
	r.Use(httpmiddleware.RateLimit(limiter))

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", auth.Required(cfg.JWTSigningKey, cfg.JWTIssuer))
	staff := auth.RequireRole(roster.RoleFaculty, roster.RoleAdmin)
	admin := auth.RequireRole(roster.RoleAdmin)

	authed.GET("/students", h.ListStudents)
	authed.GET("/students/:id", h.GetStudent)
	authed.PATCH("/students/:id/avatar", h.UpdateAvatar)
	authed.DELETE("/students/:id", admin, h.DeleteStudent)

	authed.GET("/courses", h.ListCourses)
	authed.GET("/courses/:id", h.GetCourse)
	authed.POST("/courses", staff, h.CreateCourse)
	authed.PUT("/courses/:id", staff, h.UpdateCourse)
	authed.POST("/courses/:id/students", staff, h.AddStudent)
	authed.DELETE("/courses/:id", admin, h.DeleteCourse)

	authed.POST("/attendance/verify", h.Verify)
	authed.POST("/attendance/mark", staff, h.Mark)
	authed.GET("/attendance/course/:courseId", h.CourseRecords)
	authed.GET("/attendance/student/:studentId", h.StudentRecords)
	authed.GET("/attendance/stats/:courseId", h.CourseStats)
	authed.GET("/attendance/dashboard/stats", h.DashboardStats)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // verify requests wait on the model
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("server exited")
	return nil
}

// corsMiddleware allows the SPA origin to call the API from a browser.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
