package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/thereayou/agora/internal/ws"
)

// WebSocketHandler апгрейдит соединение. HTTP-аутентификации здесь нет:
// личность появляется только после connect-фрейма внутри канала.
type WebSocketHandler struct {
	hub      *ws.Hub
	gateway  *ws.Gateway
	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, gateway *ws.Gateway) *WebSocketHandler {
	return &WebSocketHandler{
		hub:     hub,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Проверить origin в prod
				return true
			},
		},
	}
}

// HandleWebSocket обрабатывает WebSocket соединения
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)

	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump(h.gateway)
}
