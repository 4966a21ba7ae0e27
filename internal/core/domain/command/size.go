package command

import (
	"context"
	"errors"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"imgresize/internal/core/service"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const sizeUsage = "usage: /size <width|-> [<height|->] [auto|exact]"

// Size sets the target dimensions. A dash leaves that side unset, the optional mode toggles auto scaling.
type Size struct {
	sessions   SessionProvider
	textSender port.TextSender
	auth       service.Authorizer
	command    string
}

func NewSize(sessions SessionProvider, textSender port.TextSender, auth service.Authorizer, command string) *Size {
	return &Size{sessions: sessions, textSender: textSender, auth: auth, command: command}
}

func (s *Size) GetCommand() string {
	return s.command
}

func (s *Size) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if !s.auth.IsAuthorized(ctx, message.ChatID) {
		l.Debug().Msg("not authorized")
		return nil
	}

	args := strings.Fields(ParseCommandArgs(message.Text))
	if len(args) == 0 {
		_, err := s.textSender.SendMessageReply(ctx, message, formatSettings(s.sessions.Get(message.ChatID).Settings()))
		return err
	}

	var settings domain.ResizeSettings
	err := s.sessions.Do(message.ChatID, func(session *service.Session) error {
		var err error
		settings, err = parseSizeArgs(args, session.Settings())
		if err != nil {
			return err
		}
		return session.SetSettings(settings)
	})
	if err != nil {
		_ = s.textSender.NotifyAndReturnError(ctx, err, message)
		return nil
	}

	l.Debug().Str("width", settings.Width).Str("height", settings.Height).Bool("autoScale", settings.AutoScale).
		Msg("updated settings")

	_, err = s.textSender.SendMessageReply(ctx, message, formatSettings(settings))
	return err
}

func parseSizeArgs(args []string, current domain.ResizeSettings) (domain.ResizeSettings, error) {
	settings := domain.ResizeSettings{AutoScale: current.AutoScale}

	if n := len(args); n > 1 {
		if autoScale, ok := parseMode(args[n-1]); ok {
			settings.AutoScale = autoScale
			args = args[:n-1]
		}
	}

	if len(args) > 2 {
		return current, errors.New(sizeUsage)
	}

	dimensions := []*string{&settings.Width, &settings.Height}
	for i, arg := range args {
		if arg != "-" {
			*dimensions[i] = arg
		}
	}

	return settings, nil
}

func parseMode(arg string) (autoScale bool, ok bool) {
	switch strings.ToLower(arg) {
	case "auto":
		return true, true
	case "exact":
		return false, true
	default:
		return false, false
	}
}
