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

// Resize submits the chat's selection and replies with the outcome message.
type Resize struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewResize(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *Resize {
	return &Resize{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (r *Resize) GetCommand() string {
	return r.command
}

func (r *Resize) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", r.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	// replies still go out when the submission runs into the timeout
	replyCtx := context.WithoutCancel(ctx)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !r.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	go r.textSender.SendChatAction(ctx, message.ChatID, domain.UploadingPhoto)

	start := time.Now()
	outcome := r.sessions.Get(message.ChatID).Submit(ctx)

	if !outcome.Succeeded() {
		l.Info().Err(outcome.Err).Dur("took", time.Since(start)).Msg("resize failed")
		err := r.textSender.NotifyAndReturnError(replyCtx, outcome.Err, message)
		if isUserError(outcome.Err) {
			return nil
		}
		return err
	}

	l.Info().Dur("took", time.Since(start)).Msg("resize finished")

	_, err := r.textSender.SendMessageReply(replyCtx, message, outcome.Message)
	return err
}

func isUserError(err error) bool {
	var validationErr *domain.ValidationError
	return errors.As(err, &validationErr) || errors.Is(err, domain.ErrSubmissionInFlight)
}
