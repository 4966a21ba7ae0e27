package command

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Pick selects files from the inbox directory on the bot host, replacing the selection. Without arguments it lists
// the inbox.
type Pick struct {
	sessions   SessionProvider
	inbox      port.Inbox
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewPick(sessions SessionProvider, inbox port.Inbox, textSender port.TextSender, auth service.Authorizer,
	command string) *Pick {
	return &Pick{sessions: sessions, inbox: inbox, textSender: textSender, auth: auth, command: command}
}

func (p *Pick) GetCommand() string {
	return p.command
}

func (p *Pick) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", p.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !p.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	names := domain.ParseURLList(ParseCommandArgs(message.Text))
	if len(names) == 0 {
		return p.listInbox(ctx, message)
	}

	files := make([]domain.LocalFile, 0, len(names))
	for _, name := range names {
		path, err := p.inbox.Path(name)
		if err != nil {
			_ = p.textSender.NotifyAndReturnError(ctx, err, message)
			return nil
		}
		files = append(files, domain.LocalFile{Handle: path, Name: name})
	}

	var count int
	err := p.sessions.Do(message.ChatID, func(session *service.Session) error {
		if !session.AddFiles(files) {
			return errors.New("usage: /pick <file>[, <file>...]")
		}
		count = session.Len()
		return nil
	})
	if err != nil {
		_ = p.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	l.Debug().Int("count", count).Msg("picked files")

	_, err = p.textSender.SendMessageReply(ctx, message, selectionSummary(count))
	return err
}

func (p *Pick) listInbox(ctx context.Context, message *domain.Message) error {
	names, err := p.inbox.List(ctx)
	if err != nil {
		return p.textSender.NotifyAndReturnError(ctx, err, message)
	}

	if len(names) == 0 {
		_, err = p.textSender.SendMessageReply(ctx, message, "The inbox is empty.")
		return err
	}

	_, err = p.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf("Inbox:\n%s\n\nusage: /pick <file>[, <file>...]", strings.Join(names, "\n")))
	return err
}
