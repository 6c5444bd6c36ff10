package chat

import (
	"github.com/beautyai/beautyai-api/internal/models"
)

// Chronological reverses a newest-first page in place so it reads oldest first.
func Chronological(msgs []models.ChatMessage) []models.ChatMessage {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs
}

// CanMarkRead reports whether a reader on the given side may acknowledge msg.
// Each side acknowledges only what the other side wrote.
func CanMarkRead(readerIsClient bool, msg *models.ChatMessage) bool {
	return readerIsClient != msg.IsFromClient
}
