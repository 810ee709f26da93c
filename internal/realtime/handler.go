package realtime

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	hub      *Hub
	upgrader *websocket.Upgrader
	log      *zap.Logger
}

func NewHandler(hub *Hub, upgrader *websocket.Upgrader, log *zap.Logger) *Handler {
	return &Handler{hub: hub, upgrader: upgrader, log: log}
}

// Connect handles GET /api/admin/ws. Authentication runs before it.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	adminID := c.GetString("admin_id")
	h.log.Debug("admin connected", zap.String("admin_id", adminID))
	h.hub.Serve(conn, adminID)
	h.log.Debug("admin disconnected", zap.String("admin_id", adminID))
}
