package command

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"time"

	"github.com/rs/zerolog/log"
)

// Upload adds a photo or an image document sent to the chat as a local file. An album
// replaces the selection, single uploads are attached to it.
type Upload struct {
	sessions   SessionProvider
	fetcher    port.Fetcher
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewUpload(sessions SessionProvider, fetcher port.Fetcher, textSender port.TextSender, auth service.Authorizer,
	command string) *Upload {
	return &Upload{sessions: sessions, fetcher: fetcher, textSender: textSender, auth: auth, command: command}
}

func (u *Upload) GetCommand() string {
	return u.command
}

func (u *Upload) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", u.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !u.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	if message.MediaError != nil {
		l.Error().Err(message.MediaError).Msg("media not resolved")
		return u.textSender.NotifyAndReturnError(ctx,
			fmt.Errorf("could not get the file from telegram: %w", message.MediaError), message)
	}

	item, url, err := attachment(message)
	if err != nil {
		_ = u.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	item.Data, err = u.fetcher.Fetch(ctx, url)
	if err != nil {
		return u.textSender.NotifyAndReturnError(ctx, err, message)
	}

	var count int
	err = u.sessions.Do(message.ChatID, func(session *service.Session) error {
		if !session.AddMedia(message.MediaGroupID, []domain.DroppedItem{item}) {
			return fmt.Errorf("%s is not an image", item.Name)
		}
		count = session.Len()
		return nil
	})
	if err != nil {
		l.Debug().Err(err).Str("name", item.Name).Str("mimeType", item.MIMEType).Msg("ignored upload")
		_ = u.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	_, err = u.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf("Added %s. %s", item.Name, selectionSummary(count)))
	return err
}

func attachment(message *domain.Message) (domain.DroppedItem, string, error) {
	switch {
	case message.Document != nil:
		return domain.DroppedItem{Name: message.Document.Name, MIMEType: message.Document.MIMEType},
			message.Document.URL, nil
	case message.ImageURL != "":
		return domain.DroppedItem{Name: fmt.Sprintf("photo_%d.jpg", message.ID), MIMEType: "image/jpeg"},
			message.ImageURL, nil
	default:
		return domain.DroppedItem{}, "", errors.New("send a photo or an image file")
	}
}
