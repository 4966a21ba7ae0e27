package command

import (
	"context"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"runtime"
	"runtime/debug"
	"runtime/metrics"
	"time"

	"github.com/rs/zerolog/log"
)

// Status reports the chat's submission state next to a few process metrics.
type Status struct {
	sessions   SessionProvider
	textSender port.TextSender
	command    string
}

func NewStatus(sessions SessionProvider, sender port.TextSender, command string) *Status {
	return &Status{sessions: sessions, textSender: sender, command: command}
}

func (s *Status) GetCommand() string {
	return s.command
}

const kb = 1024
const statusTemplate = `state: %s
selected: %d
allocated mem: %d KB
goroutines running: %d
heap: %d KB
compiled with %s for %s-%s
`
const metricCount = 2

func (s *Status) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	l := log.With().
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", s.GetCommand()).
		Logger()

	l.Info().Msg("handling request")

	data := make([]metrics.Sample, metricCount)
	data[0] = metrics.Sample{Name: "/memory/classes/heap/objects:bytes"}
	data[1] = metrics.Sample{Name: "/memory/classes/total:bytes"}

	metrics.Read(data)

	var goos, goarch string
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "GOOS":
				goos = setting.Value
			case "GOARCH":
				goarch = setting.Value
			}
		}
	}

	session := s.sessions.Get(message.ChatID)

	_, err := s.textSender.SendMessageReply(ctx, message,
		fmt.Sprintf(
			statusTemplate,
			session.State(),
			session.Len(),
			data[1].Value.Uint64()/kb,
			runtime.NumGoroutine(),
			data[0].Value.Uint64()/kb,
			runtime.Version(), goos, goarch,
		))
	if err != nil {
		return err
	}

	return nil
}
