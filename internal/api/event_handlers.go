package api

import (
	"net/http"
	"strconv"
)

// @Summary      Get change events
// @Description  Returns the per-user change journal entries after a given id. Clients that missed websocket pushes use this to bring their cached listing back in sync with the record set.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        since  query     int  false  "Last event id already seen; omit or 0 for everything"
// @Success      200    {array}   database.Event
// @Failure      400    {string}  string "Bad Request"
// @Router       /events [get]
func (s *Server) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sinceStr := r.URL.Query().Get("since")
	if sinceStr == "" {
		sinceStr = "0"
	}

	sinceID, err := strconv.ParseInt(sinceStr, 10, 64)
	if err != nil {
		http.Error(w, "Invalid 'since' parameter, must be a number", http.StatusBadRequest)
		return
	}

	events, err := s.store.GetEventsSince(r.Context(), claims.UserID, sinceID)
	if err != nil {
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}
