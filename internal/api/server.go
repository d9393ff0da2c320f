package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"cloudshelf/internal/config"
	"cloudshelf/internal/database"
	"cloudshelf/internal/logging"
	"cloudshelf/internal/service"
	"cloudshelf/internal/uploads"
	"cloudshelf/internal/websocket"
)

type Server struct {
	config   *config.Config
	store    database.NodeStore
	users    database.UserStore
	nodes    *service.Service
	uploader *uploads.Coordinator
	hub      *websocket.Hub
	logger   zerolog.Logger
}

func NewServer(cfg *config.Config, store database.NodeStore, users database.UserStore, nodes *service.Service, uploader *uploads.Coordinator, hub *websocket.Hub) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		users:    users,
		nodes:    nodes,
		uploader: uploader,
		hub:      hub,
		logger:   logging.Component("api"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// @Summary      Health check
// @Tags         system
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
