package command

import (
	"context"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// List shows the selection in order with the probed dimensions and the target size.
type List struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewList(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *List {
	return &List{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (li *List) GetCommand() string {
	return li.command
}

func (li *List) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", li.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !li.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	session := li.sessions.Get(message.ChatID)

	_, err := li.textSender.SendMessageReply(ctx, message,
		formatPreviews(session.Previews())+"\n"+formatSettings(session.Settings()))
	return err
}

func formatPreviews(entries []domain.PreviewEntry) string {
	if len(entries) == 0 {
		return selectionSummary(0)
	}

	var sb strings.Builder
	for i, entry := range entries {
		size := "size unknown"
		if entry.Size != nil {
			size = fmt.Sprintf("%dx%d", entry.Size.Width, entry.Size.Height)
		}
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, entry.Name, size)
	}

	return sb.String()
}

func formatSettings(settings domain.ResizeSettings) string {
	mode := "exact"
	if settings.AutoScale {
		mode = "auto scale"
	}

	return fmt.Sprintf("Target: %s x %s, %s", orDash(settings.Width), orDash(settings.Height), mode)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
