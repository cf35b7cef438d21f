// cmd/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"

	"arcade_gate/internal/config"
	"arcade_gate/internal/handlers"
	"arcade_gate/internal/middleware"
	"arcade_gate/internal/repository"
	"arcade_gate/internal/service"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	// 設定ファイル読み込み用の一時的なロガー設定
	tempLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(tempLogger)

	// Configを読み込み
	if err := config.LoadConfig("./configs"); err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// === 設定に基づいて slog ロガーを初期化 ===
	logLevel := new(slog.LevelVar)
	switch strings.ToLower(config.Cfg.Log.Level) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	default:
		logLevel.Set(slog.LevelInfo)
		slog.Warn("Unknown log level specified in config, defaulting to INFO", slog.String("level", config.Cfg.Log.Level))
	}

	var handler slog.Handler
	appEnv := os.Getenv("APP_ENV")
	if strings.ToLower(appEnv) == "dev" {
		tintOpts := &tint.Options{
			Level:      logLevel,
			TimeFormat: time.RFC3339,
		}
		handler = tint.NewHandler(os.Stderr, tintOpts)
		tempLogger.Info("Using TINT log handler", slog.String("APP_ENV", appEnv))
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}
		handler = slog.NewJSONHandler(os.Stderr, jsonOpts)
		tempLogger.Info("Using JSON log handler", slog.String("APP_ENV", appEnv))
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Application starting...")

	// データベース接続 (GORM)
	db, err := repository.NewDB(config.Cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Error closing database connection", slog.Any("error", err))
		} else {
			slog.Info("Database connection closed.")
		}
	}()

	if err := repository.AutoMigrate(db); err != nil {
		slog.Error("Error migrating database", slog.Any("error", err))
		os.Exit(1)
	}

	// Dependency Injection
	playerRepo := repository.NewGormPlayerRepository()
	deckRepo := repository.NewGormDeckRepository()
	cardRepo := repository.NewGormCardRepository()
	cardProgRepo := repository.NewGormCardProgressRepository()
	progressRepo := repository.NewGormProgressRepository()
	gameRepo := repository.NewGormGameRepository()

	gateService := service.NewGateService(db, progressRepo)
	authService := service.NewAuthService(db, playerRepo, progressRepo, &config.Cfg)
	deckService := service.NewDeckService(db, deckRepo)
	cardService := service.NewCardService(db, cardRepo, deckRepo)
	reviewService := service.NewReviewService(db, cardRepo, cardProgRepo, gateService, &config.Cfg)
	gameService := service.NewGameService(db, gameRepo, gateService, &config.Cfg, logger)

	authHandler := handlers.NewAuthHandler(authService, logger)
	deckHandler := handlers.NewDeckHandler(deckService, logger)
	cardHandler := handlers.NewCardHandler(cardService, logger)
	reviewHandler := handlers.NewReviewHandler(reviewService, gateService, logger)
	progressHandler := handlers.NewProgressHandler(gateService, logger)
	gameHandler := handlers.NewGameHandler(gameService, &config.Cfg, logger)

	// 放置されたゲームの回収ループ
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go service.RunJanitor(janitorCtx, gameService, time.Minute, logger)

	// Setup Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(logger))

	corsOptions := cors.Options{
		AllowedOrigins:   config.Cfg.CORS.AllowedOrigins,
		AllowedMethods:   config.Cfg.CORS.AllowedMethods,
		AllowedHeaders:   config.Cfg.CORS.AllowedHeaders,
		ExposedHeaders:   config.Cfg.CORS.ExposedHeaders,
		AllowCredentials: config.Cfg.CORS.AllowCredentials,
		MaxAge:           config.Cfg.CORS.MaxAge,
		Debug:            false,
	}
	corsHandler := cors.New(corsOptions)
	r.Use(corsHandler.Handler)

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// API Routes
	r.Route("/api/v1", func(r chi.Router) {
		// --- Public routes ---
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// --- Protected routes ---
		r.Group(func(r chi.Router) {
			if config.Cfg.Auth.Enabled {
				slog.Info("Applying JWT authentication middleware")
				r.Use(middleware.JWTAuthMiddleware(&config.Cfg))
			} else {
				// 開発用: X-Player-ID ヘッダーで認証を代替する
				slog.Warn("Auth disabled, applying dev player-context middleware")
				r.Use(middleware.DevPlayerContextMiddleware)
			}

			r.Get("/auth/me", authHandler.Me)

			// Deck routes
			r.Route("/decks", func(r chi.Router) {
				r.Post("/", deckHandler.PostDeck)
				r.Get("/", deckHandler.GetDecks)
				r.Get("/{deck_id}", deckHandler.GetDeck)
				r.Put("/{deck_id}", deckHandler.PutDeck)
				r.Delete("/{deck_id}", deckHandler.DeleteDeck)

				// Card routes (デッキ配下)
				r.Post("/{deck_id}/cards", cardHandler.PostCard)
				r.Get("/{deck_id}/cards", cardHandler.GetCards)
			})

			// Card routes (単体)
			r.Route("/cards", func(r chi.Router) {
				r.Get("/{card_id}", cardHandler.GetCard)
				r.Patch("/{card_id}", cardHandler.PatchCard)
				r.Delete("/{card_id}", cardHandler.DeleteCard)
			})

			// Review routes
			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", reviewHandler.GetReviewCards)
				r.Put("/{card_id}/result", reviewHandler.SubmitReview)
			})

			// Progress routes
			r.Route("/progress", func(r chi.Router) {
				r.Get("/", progressHandler.GetProgress)
				r.Post("/waive", progressHandler.Waive)
				r.Put("/target", progressHandler.PutReviewTarget)
			})

			// Game routes
			r.Route("/games", func(r chi.Router) {
				r.Post("/", gameHandler.PostGame)
				r.Get("/{game_id}", gameHandler.GetGameSnapshot)
				r.Get("/{game_id}/ws", gameHandler.GameSocket)
				r.Put("/{game_id}/direction", gameHandler.PutDirection)
				r.Post("/{game_id}/step", gameHandler.PostStep)
				r.Post("/{game_id}/pause", gameHandler.PostPause)
				r.Post("/{game_id}/resume", gameHandler.PostResume)
				r.Post("/{game_id}/finish", gameHandler.PostFinish)
			})
		})
	})

	// Health Check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := sqlDB.PingContext(ctx); err != nil {
			slog.ErrorContext(ctx, "Health check failed: could not ping DB", slog.Any("error", err))
			http.Error(w, "Health check failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Start Server
	server := &http.Server{
		Addr:         config.Cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Server listening", slog.String("port", config.Cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Could not listen on port", slog.String("port", config.Cfg.Server.Port), slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", slog.Any("error", err))
	}

	log.Println("Server exiting")
}
