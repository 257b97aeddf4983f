package board

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"museo/internal/pkg/response"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/board/ws", h.ServeWS)
}

// ServeWS upgrades the request and keeps the connection until the client
// goes away. Initial watched dates come from repeated date query params;
// none means watch everything.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "WS_UPGRADE_FAILED", "Could not upgrade connection")
		return
	}

	h.hub.ServeWS(conn, c.GetInt64("account_id"), c.QueryArray("date"))
}
