package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/raysh454/m3u8relay/internal/logging"
)

// handleFetchWS relays one playlist per inbound text message. Each reply is a
// RelayFrame; a malformed message gets a 400 frame and the connection stays
// open.
func (s *Server) handleFetchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ctx := r.Context()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("reading websocket message", logging.Field{Key: "error", Value: err.Error()})
			}
			return
		}

		var frame RelayFrame
		var body FetchRequest
		if err := json.Unmarshal(data, &body); err != nil {
			frame = RelayFrame{
				Status:        http.StatusBadRequest,
				ErrorResponse: &ErrorResponse{Error: msgInvalidJSON},
			}
		} else {
			frame = s.relayFetch(ctx, body)
		}

		if err := conn.WriteJSON(frame); err != nil {
			// Assume client disconnected
			return
		}
	}
}
