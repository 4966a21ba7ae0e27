package command

import (
	"fmt"
	"imgresize/internal/core/service"
)

type SessionProvider interface {
	Get(chatID int64) *service.Session
	Do(chatID int64, fn func(session *service.Session) error) error
}

func selectionSummary(count int) string {
	switch count {
	case 0:
		return "No images selected."
	case 1:
		return "1 image selected."
	default:
		return fmt.Sprintf("%d images selected.", count)
	}
}
