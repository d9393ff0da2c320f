package api

import (
	"net/http"

	"cloudshelf/internal/auth"
	"cloudshelf/internal/websocket"
)

// ServeWsHandler upgrades the connection and attaches the client to the
// per-user event fanout. The token rides in the query string because the
// browser websocket API cannot set headers.
func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(s.hub, conn, claims.UserID)
	s.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
