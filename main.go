package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"

	"github.com/eventcrew/awardsysbackend/config"
	"github.com/eventcrew/awardsysbackend/database"
	"github.com/eventcrew/awardsysbackend/handlers"
	"github.com/eventcrew/awardsysbackend/realtime"
	"github.com/eventcrew/awardsysbackend/repository"
	"github.com/eventcrew/awardsysbackend/services"
	"github.com/eventcrew/awardsysbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	log.Printf("Ensuring photo storage directory exists: %s", cfg.PhotosPath)
	if err := os.MkdirAll(cfg.PhotosPath, 0755); err != nil {
		log.Fatalf("FATAL: Failed to create storage directory %s: %v", cfg.PhotosPath, err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	if err := database.SeedDefaults(db, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("FATAL: Failed to seed defaults: %v", err)
	}

	voteRepo := repository.NewVoteRepository(db)
	if total, err := voteRepo.CountAll(); err == nil {
		log.Printf("store holds %d vote row(s)", total)
	}

	categoryRepo := repository.NewCategoryRepository(db)
	nomineeRepo := repository.NewNomineeRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	userRepo := repository.NewUserRepository(db)

	// the single broadcast root; constructed here and passed by handle,
	// never a package-level instance
	hub := realtime.NewHub()
	go hub.Run()

	cleaner := workers.NewPhotoCleaner(cfg.PhotosPath, nomineeRepo, cfg.CleanupQueueSize, cfg.CleanupWorkers)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", cleaner.SweepOrphans); err != nil {
		log.Fatalf("FATAL: Failed to schedule orphan sweep: %v", err)
	}
	scheduler.Start()

	auditRecorder := services.NewAuditRecorder(auditRepo, hub)
	categoryService := services.NewCategoryService(categoryRepo, auditRecorder, hub)
	nomineeService := services.NewNomineeService(nomineeRepo, categoryRepo, auditRecorder, hub, cleaner)
	voteService := services.NewVoteService(voteRepo, categoryRepo, nomineeRepo, settingRepo, auditRecorder, hub)
	settingsService := services.NewSettingsService(settingRepo, auditRecorder, hub)

	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret, tokenTTL)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	nomineeHandler := handlers.NewNomineeHandler(nomineeService, cleaner, cfg)
	voteHandler := handlers.NewVoteHandler(voteService, categoryService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	auditHandler := handlers.NewAuditHandler(auditRepo)
	verifier := &handlers.JWTVerifier{UserRepo: userRepo, Secret: cfg.JWTSecret}

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authHandler.Login)

		// public voting surface
		r.Get("/categories", categoryHandler.ListCategories)
		r.Get("/categories/{category_id}/nominees", nomineeHandler.ListNominees)
		r.Get("/results", voteHandler.GetResults)
		r.Post("/vote", voteHandler.CastVote)
		r.Get("/votes/{session_id}", voteHandler.GetSessionBallot)

		// the push channel; connections join anonymous and may present an
		// admin token in-band to receive elevated-scope events
		r.Get("/ws", hub.ServeWS(verifier))

		r.Get(fmt.Sprintf("/%s/*", cfg.PhotosSubDir), handlers.PhotoServer(cfg.PhotosPath))

		// admin mutation surface
		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(userRepo, cfg.JWTSecret))

			r.Get("/auth/me", authHandler.CurrentUser)

			r.Route("/admin", func(r chi.Router) {
				r.Post("/categories", categoryHandler.CreateCategory)
				r.Route("/categories/{category_id}", func(r chi.Router) {
					r.Put("/", categoryHandler.UpdateCategory)
					r.Delete("/", categoryHandler.DeleteCategory)
					r.Post("/nominees", nomineeHandler.AddNominee)
				})
				r.Route("/nominees/{nominee_id}", func(r chi.Router) {
					r.Put("/", nomineeHandler.UpdateNominee)
					r.Delete("/", nomineeHandler.DeleteNominee)
					r.Put("/photo", nomineeHandler.UploadNomineePhoto)
					r.Delete("/photo", nomineeHandler.DeleteNomineePhoto)
				})
				r.Get("/settings", settingsHandler.ListSettings)
				r.Put("/settings/{key}", settingsHandler.UpdateSetting)
				r.Get("/audit", auditHandler.ListAuditEntries)
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:        serverAddr,
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		// long-lived websocket connections; write timeout would kill them
		IdleTimeout: 120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
