package dto

type CreateDirectRoomRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type SendMessageRequest struct {
	RoomID  string `json:"room_id" binding:"required"`
	Message string `json:"message" binding:"required"`
}
