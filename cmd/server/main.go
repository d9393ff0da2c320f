// @title           Cloudshelf Namespace API
// @version         1.0
// @description     Virtual hierarchical file namespace over a flat path-keyed record store.
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"net/http"

	"cloudshelf/internal/api"
	"cloudshelf/internal/config"
	"cloudshelf/internal/database"
	"cloudshelf/internal/logging"
	"cloudshelf/internal/service"
	"cloudshelf/internal/storage"
	"cloudshelf/internal/uploads"
	"cloudshelf/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "cloudshelf/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Init("info")
		fallbackLogger := logging.Component("main")
		fallbackLogger.Fatal().Err(err).Msg("cannot load configuration")
	}
	logging.Init(cfg.Log.Level)
	logger := logging.Component("main")

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		logger.Fatal().Err(err).Msg("cannot ping database")
	}
	logger.Info().Msg("connected to database")

	blobs, err := storage.NewLocalStorage(cfg.Storage.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot initialize blob storage")
	}
	logger.Info().Str("path", cfg.Storage.Path).Msg("blob storage ready")

	hub := websocket.NewHub()
	go hub.Run()

	store := database.NewStore(dbpool)
	nodes := service.New(store, blobs, hub)
	uploader := uploads.NewCoordinator(store, blobs, hub)

	server := api.NewServer(cfg, store, store, nodes, uploader, hub)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/auth/login", server.LoginHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/nodes", server.ListNodesHandler)
		r.Post("/nodes/folder", server.CreateFolderHandler)
		r.Post("/nodes/file", server.UploadFileHandler)
		r.Get("/nodes/{nodeId}/download", server.DownloadFileHandler)
		r.Patch("/nodes/{nodeId}", server.UpdateNodeHandler)
		r.Delete("/nodes/{nodeId}", server.DeleteNodeHandler)
		r.Get("/uploads", server.ListUploadsHandler)
		r.Get("/events", server.GetEventsHandler)
	})

	logger.Info().Str("addr", cfg.HTTP.Addr).Msg("starting server")
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
