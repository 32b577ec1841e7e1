// Package ws streams routing decisions to monitoring clients over
// WebSocket, backed by the Redis decision channel.
package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/rs/zerolog/log"
)

// DecisionStream is the event source the hub relays from.
type DecisionStream interface {
	SubscribeDecisions(ctx context.Context) (<-chan []byte, func(), error)
}

// Hub manages WebSocket connections for live decision events.
type Hub struct {
	stream DecisionStream
}

func NewHub(stream DecisionStream) *Hub {
	return &Hub{stream: stream}
}

// ServeDecisions relays every routing decision published on the event
// stream to the connected client until it disconnects.
func (h *Hub) ServeDecisions(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	messages, cleanup, err := h.stream.SubscribeDecisions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case msg, msgOK := <-messages:
			if !msgOK {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, msg); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
