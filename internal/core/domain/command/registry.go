package command

import (
	"errors"
	"imgresize/internal/core/port"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
)

type Registry struct {
	commands map[string]port.Command
}

func (r *Registry) Register(handler port.Command) {
	if r.commands == nil {
		r.commands = make(map[string]port.Command)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	r.commands[handler.GetCommand()] = handler
}

func (r *Registry) Get(command string) (port.Command, error) {
	log.Debug().Interface("command", command).Msg("fetching command handler from registry")

	if r.commands == nil {
		err := errors.New("can't fetch command, registry not initialized")
		return nil, err
	}

	handler, ok := r.commands[command]
	if !ok {
		return nil, errors.New("command not found")
	}

	return handler, nil
}

func (r *Registry) ListCommands() []string {
	keys := make([]string, 0, len(r.commands))
	for k := range r.commands {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// ParseCommandArgs returns everything after the command word. Newlines in the arguments are kept since URL lists
// may be one per line.
func ParseCommandArgs(args string) string {
	i := strings.IndexFunc(args, unicode.IsSpace)
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(args[i:])
}

// ParseCommand returns the lowercased command word without a trailing @botname.
func ParseCommand(args string) string {
	command := strings.TrimSpace(args)
	if i := strings.IndexFunc(command, unicode.IsSpace); i >= 0 {
		command = command[:i]
	}

	if i := strings.Index(command, "@"); i > 0 {
		command = command[:i]
	}

	return strings.ToLower(command)
}
