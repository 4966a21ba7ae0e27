package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

var ErrInvalidName = errors.New("invalid file name")

// Inbox is a directory on the bot host whose files can be picked by name.
type Inbox struct {
	dir string
}

func NewInbox(dir string) (*Inbox, error) {
	if dir == "" {
		return nil, errors.New("inbox directory is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating inbox %w", err)
	}

	return &Inbox{dir: dir}, nil
}

func (i *Inbox) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		err = fmt.Errorf("error listing inbox %w", err)
		log.Error().Err(err).Str("dir", i.dir).Send()
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

// Path joins name onto the inbox directory. Names that would leave it are rejected.
func (i *Inbox) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return filepath.Join(i.dir, name), nil
}
