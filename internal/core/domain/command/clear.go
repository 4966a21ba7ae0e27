package command

import (
	"context"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"time"

	"github.com/rs/zerolog/log"
)

type Clear struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewClear(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *Clear {
	return &Clear{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (c *Clear) GetCommand() string {
	return c.command
}

func (c *Clear) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", c.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !c.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	err := c.sessions.Do(message.ChatID, func(session *service.Session) error {
		return session.Clear()
	})
	if err != nil {
		return c.textSender.NotifyAndReturnError(ctx, err, message)
	}

	_, err = c.textSender.SendMessageReply(ctx, message, "Selection cleared.")
	return err
}
