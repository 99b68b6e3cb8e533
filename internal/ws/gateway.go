package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/thereayou/agora/internal/models"
)

// MessageSender — сервис сообщений: сохранить, потом разослать.
type MessageSender interface {
	SendMessage(identity *models.Identity, roomID uuid.UUID, text string) (*models.Message, error)
}

// Gateway маршрутизирует фреймы соединения: connect через
// аутентификатор, subscribe/send через авторизатор.
type Gateway struct {
	authn *ConnectionAuthenticator
	authz *FrameAuthorizer
	chat  MessageSender
	hub   *Hub
	log   zerolog.Logger
}

func NewGateway(authn *ConnectionAuthenticator, authz *FrameAuthorizer, chat MessageSender, hub *Hub, log zerolog.Logger) *Gateway {
	return &Gateway{
		authn: authn,
		authz: authz,
		chat:  chat,
		hub:   hub,
		log:   log.With().Str("component", "gateway").Logger(),
	}
}

// HandleFrame обрабатывает один фрейм. Ненулевой результат фатален:
// соединение закрывается. Отказ на connect фатален, отказ на
// subscribe/send отклоняет только сам фрейм.
func (g *Gateway) HandleFrame(c *Client, frame *Frame) error {
	if c.Identity() == nil {
		return g.handleConnect(c, frame)
	}

	switch frame.Type {
	case FrameConnect:
		// Повторная аутентификация не предусмотрена
		c.SendFrame(errorFrame(ErrAlreadyAuthenticated.Error()))
		return nil

	case FrameSubscribe:
		if err := g.authz.AuthorizeSubscribe(c.Identity(), frame.Destination); err != nil {
			g.log.Debug().Err(err).
				Str("user", c.Identity().UserID.String()).
				Str("destination", frame.Destination).
				Msg("subscribe rejected")
			c.SendFrame(errorFrame(err.Error()))
			return nil
		}
		g.hub.Subscribe(c, frame.Destination)
		return nil

	case FrameUnsubscribe:
		g.hub.Unsubscribe(c, frame.Destination)
		return nil

	case FrameSend:
		return g.handleSend(c, frame)

	default:
		c.SendFrame(errorFrame(ErrInvalidFrame.Error()))
		return nil
	}
}

func (g *Gateway) handleConnect(c *Client, frame *Frame) error {
	if frame.Type != FrameConnect {
		c.SendFrame(errorFrame(ErrNotAuthenticated.Error()))
		return ErrNotAuthenticated
	}

	identity, err := g.authn.Authenticate(context.Background(), frame)
	if err != nil {
		g.log.Info().Err(err).Str("client", c.ID.String()).Msg("connect rejected")
		c.SendFrame(errorFrame("access denied"))
		return err
	}

	c.setIdentity(identity)

	body, _ := json.Marshal(map[string]string{"user_id": identity.UserID.String()})
	c.SendFrame(Frame{Type: FrameConnected, Body: body})

	g.log.Debug().
		Str("client", c.ID.String()).
		Str("user", identity.UserID.String()).
		Msg("connection authenticated")

	return nil
}

func (g *Gateway) handleSend(c *Client, frame *Frame) error {
	roomID, text, err := g.authz.AuthorizeSend(c.Identity(), frame.Destination, frame.Body)
	if err != nil {
		c.SendFrame(errorFrame(err.Error()))
		return nil
	}

	// Сервис сохраняет и сам публикует в топик комнаты
	if _, err := g.chat.SendMessage(c.Identity(), roomID, text); err != nil {
		c.SendFrame(errorFrame(err.Error()))
	}

	return nil
}
