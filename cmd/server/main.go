package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/iarchive/backend/internal/auth"
	"github.com/iarchive/backend/internal/config"
	"github.com/iarchive/backend/internal/folders"
	"github.com/iarchive/backend/internal/logging"
	"github.com/iarchive/backend/internal/middleware"
	"github.com/iarchive/backend/internal/notes"
	"github.com/iarchive/backend/internal/store"
	"github.com/iarchive/backend/internal/users"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	db := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("mongo indexes", zap.Error(err))
	}

	userStore := store.NewUserStore(db)
	folderStore := store.NewFolderStore(db)
	noteStore := store.NewNoteStore(db)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()
	sessions := auth.NewRedisSessionStore(rdb)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(userStore, sessions, logger)
	userHandler := users.NewHandler(userStore, folderStore, noteStore, sessions, logger)
	folderHandler := folders.NewHandler(folderStore, userStore, noteStore, logger)
	noteHandler := notes.NewHandler(noteStore, folderStore, userStore, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("home page"))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.With(middleware.RequireAuth(sessions)).Get("/@me", authHandler.Me)
	r.Post("/authentication", authHandler.Login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", authHandler.Register)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", userHandler.Delete)
			r.Put("/", userHandler.Update)
			r.Get("/", userHandler.Get)
			r.Post("/", userHandler.Logout)
		})
	})

	r.Route("/folder", func(r chi.Router) {
		r.Post("/", folderHandler.Create)
		r.With(middleware.RequireAuth(sessions)).Get("/", folderHandler.ListMine)
		r.Route("/{folder_id}", func(r chi.Router) {
			r.Put("/", folderHandler.Rename)
			r.Post("/", folderHandler.Publish)
			r.Delete("/", folderHandler.Delete)
			r.Route("/note", func(r chi.Router) {
				r.Get("/", noteHandler.List)
				r.Post("/", noteHandler.Create)
			})
		})
	})
	r.Get("/folders/public", folderHandler.ListPublic)

	r.Route("/note/{id}", func(r chi.Router) {
		r.Put("/", noteHandler.Update)
		r.Delete("/", noteHandler.Delete)
		r.Put("/content", noteHandler.UpdateContent)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
