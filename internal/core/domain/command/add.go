package command

import (
	"context"
	"errors"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"time"

	"github.com/rs/zerolog/log"
)

// Add appends comma or newline separated URLs to the chat's selection.
type Add struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewAdd(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *Add {
	return &Add{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (a *Add) GetCommand() string {
	return a.command
}

func (a *Add) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", a.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !a.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	var count int
	err := a.sessions.Do(message.ChatID, func(session *service.Session) error {
		if !session.AddURLs(ParseCommandArgs(message.Text)) {
			return errors.New("usage: /add <url>[, <url>...]")
		}
		count = session.Len()
		return nil
	})
	if err != nil {
		_ = a.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	l.Debug().Int("count", count).Msg("added urls")

	_, err = a.textSender.SendMessageReply(ctx, message, selectionSummary(count))
	return err
}
