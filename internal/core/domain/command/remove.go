package command

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// Remove drops the n-th (1-based, as shown by /list) image from the selection.
type Remove struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewRemove(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *Remove {
	return &Remove{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (r *Remove) GetCommand() string {
	return r.command
}

func (r *Remove) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", r.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !r.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	position, err := strconv.Atoi(ParseCommandArgs(message.Text))
	if err != nil {
		_ = r.textSender.NotifyAndReturnError(ctx, errors.New("usage: /remove <number>"), message)
		return nil
	}

	var (
		removed domain.ImageSource
		count   int
	)
	err = r.sessions.Do(message.ChatID, func(session *service.Session) error {
		var ok bool
		removed, ok = session.RemoveAt(position - 1)
		if !ok {
			return fmt.Errorf("no image at position %d", position)
		}
		count = session.Len()
		return nil
	})
	if err != nil {
		_ = r.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	_, err = r.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf("Removed %s. %s", removed.Name(), selectionSummary(count)))
	return err
}
