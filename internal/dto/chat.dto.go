package dto

type SendMessageRequest struct {
	ClientID     uint   `json:"client_id" binding:"required"`
	Message      string `json:"message" binding:"required"`
	IsFromClient *bool  `json:"is_from_client"`
}
