package ws

import "encoding/json"

// FrameType — дискретные команды поверх одного WebSocket-соединения.
type FrameType string

const (
	// Клиент → сервер
	FrameConnect     FrameType = "connect"
	FrameSubscribe   FrameType = "subscribe"
	FrameUnsubscribe FrameType = "unsubscribe"
	FrameSend        FrameType = "send"

	// Сервер → клиент
	FrameConnected FrameType = "connected"
	FrameMessage   FrameType = "message"
	FrameError     FrameType = "error"
)

// Заголовок connect-фрейма с bearer-токеном.
const AuthorizationHeader = "Authorization"

type Frame struct {
	Type        FrameType         `json:"type"`
	Destination string            `json:"destination,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        json.RawMessage   `json:"body,omitempty"`
}

// SendBody — тело публикации в /pub/chat/message.
// Поле sender игнорируется: отправитель всегда личность соединения.
type SendBody struct {
	RoomID  string `json:"roomId"`
	Sender  string `json:"sender,omitempty"`
	Message string `json:"message"`
}

func errorFrame(msg string) Frame {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return Frame{Type: FrameError, Body: body}
}
