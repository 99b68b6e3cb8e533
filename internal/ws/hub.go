package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Hub держит подключённых клиентов и их подписки по именам топиков.
// Один fanout-путь для комнат чата и личных топиков уведомлений.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Подписчики по топику
	topics map[string]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log zerolog.Logger

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(log zerolog.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		topics:     make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With().Str("component", "hub").Logger(),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// Stop останавливает hub и закрывает все соединения
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.topics = make(map[string]map[uuid.UUID]*Client)
}

// Register и Unregister не блокируются после Stop: цикл Run уже
// вышел, и опоздавшие соединения просто игнорируются.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	h.log.Debug().Str("client", client.ID.String()).Msg("client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for topic := range client.subscriptions {
		h.removeFromTopicUnsafe(client, topic)
	}

	delete(h.clients, client.ID)
	close(client.Send)

	h.log.Debug().Str("client", client.ID.String()).Msg("client unregistered")
}

// Subscribe добавляет клиента в топик. Авторизация уже пройдена.
func (h *Hub) Subscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.topics[topic]; !ok {
		h.topics[topic] = make(map[uuid.UUID]*Client)
	}

	h.topics[topic][client.ID] = client
	client.addSubscription(topic)
}

func (h *Hub) Unsubscribe(client *Client, topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromTopicUnsafe(client, topic)
}

func (h *Hub) removeFromTopicUnsafe(client *Client, topic string) {
	if subs, ok := h.topics[topic]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
	client.removeSubscription(topic)
}

// Publish рассылает payload подписчикам топика. Доставка best-effort:
// переполненная очередь клиента — дроп, без повторов.
func (h *Hub) Publish(topic string, payload []byte) {
	frame := Frame{
		Type:        FrameMessage,
		Destination: topic,
		Body:        payload,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		h.log.Error().Err(err).Str("topic", topic).Msg("marshal frame")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.topics[topic] {
		select {
		case client.Send <- data:
		default:
			h.log.Warn().Str("client", client.ID.String()).Msg("send queue full, dropping")
		}
	}
}

// SubscriberCount — число подписчиков топика (для REST-списков).
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}
