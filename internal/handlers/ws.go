package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/services"
	"go.uber.org/zap"
)

var welcomeMessage = []byte(`{"type":"connected","message":"WebSocket connection established"}`)

func (h *Handler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.origins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
}

// WebSocket streams the caller's watchlist events until the socket closes.
func (h *Handler) WebSocket(c *gin.Context, user auth.Identity) {
	upgrader := h.upgrader()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	h.log.Debug("WebSocket connected", zap.Uint("user_id", user.ID))

	services.NewClient(h.events, conn, user.ID).Run(welcomeMessage)

	h.log.Debug("WebSocket closed", zap.Uint("user_id", user.ID))
}
