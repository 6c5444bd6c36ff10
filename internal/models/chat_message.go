package models

import "time"

type ChatMessage struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint    `gorm:"index:idx_chat_client_sent;not null" json:"client_id"`
	Client   *Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	SenderID uint  `gorm:"not null" json:"sender_id"`
	Sender   *User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	IsFromClient bool   `gorm:"not null" json:"is_from_client"`
	Message      string `gorm:"type:text;not null" json:"message"`

	SentAt time.Time  `gorm:"index:idx_chat_client_sent;not null" json:"sent_at"`
	ReadAt *time.Time `json:"read_at"`
}
