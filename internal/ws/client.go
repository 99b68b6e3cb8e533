package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/agora/internal/models"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер фрейма
	maxFrameSize = 64 * 1024
)

// Client — одно WebSocket-соединение. identity появляется только после
// успешного connect-фрейма и живёт до разрыва соединения.
type Client struct {
	ID   uuid.UUID
	Conn *websocket.Conn
	Send chan []byte
	Hub  *Hub

	identity      *models.Identity
	subscriptions map[string]bool
	mu            sync.RWMutex
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:            uuid.New(),
		Conn:          conn,
		Send:          make(chan []byte, 256),
		Hub:           hub,
		subscriptions: make(map[string]bool),
	}
}

// Identity возвращает личность соединения, nil до аутентификации.
func (c *Client) Identity() *models.Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity
}

func (c *Client) setIdentity(identity *models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
}

func (c *Client) addSubscription(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[topic] = true
}

func (c *Client) removeSubscription(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, topic)
}

// ReadPump читает фреймы и отдаёт их gateway в порядке прихода.
// Фреймы одного соединения обрабатываются последовательно: машина
// состояний аутентификации не гонится сама с собой.
func (c *Client) ReadPump(gw *Gateway) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var frame Frame
		if err := c.Conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				gw.log.Debug().Err(err).Str("client", c.ID.String()).Msg("read error")
			}
			break
		}

		if fatal := gw.HandleFrame(c, &frame); fatal != nil {
			break
		}
	}
}

// WritePump отправляет фреймы клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.Conn.WriteMessage(websocket.TextMessage, message)

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendFrame кладёт фрейм в очередь клиента, без блокировки.
func (c *Client) SendFrame(frame Frame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
		return nil
	default:
		return ErrClientQueueFull
	}
}
