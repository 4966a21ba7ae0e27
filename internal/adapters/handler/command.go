package handler

import (
	"context"
	"errors"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/domain/command"
	"imgresize/internal/core/port"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

// UploadCommand receives media sent without a command caption.
const UploadCommand = "/upload"

var errNoFileResolver = errors.New("no file resolver available")

type FileResolver interface {
	GetFile(ctx context.Context, params *bot.GetFileParams) (*models.File, error)
	FileDownloadLink(f *models.File) string
}

type Command struct {
	commandRegistry port.CommandRegistry
	timeout         time.Duration
}

func NewCommand(commandRegistry port.CommandRegistry, timeout time.Duration) *Command {
	return &Command{commandRegistry: commandRegistry, timeout: timeout}
}

func (c *Command) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	var files FileResolver
	if b != nil {
		files = b
	}

	c.handle(ctx, files, update)
}

func (c *Command) handle(ctx context.Context, files FileResolver, update *models.Update) {
	if update == nil || update.Message == nil {
		log.Debug().Msg("update without message")
		return
	}

	msg := update.Message
	hasMedia := len(msg.Photo) > 0 || msg.Document != nil

	text := msg.Text
	if hasMedia {
		text = msg.Caption
	}

	log.Debug().Str("message", text).Bool("media", hasMedia).Msg("received command")

	cmd := command.ParseCommand(text)
	if hasMedia && !strings.HasPrefix(cmd, "/") {
		cmd = UploadCommand
	}

	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	message := &domain.Message{
		ID:           msg.ID,
		ChatID:       msg.Chat.ID,
		Username:     getUserNameFromMessage(msg.From),
		Text:         text,
		MediaGroupID: msg.MediaGroupID,
	}

	go func() {
		if hasMedia {
			resolveMedia(ctx, files, msg, message)
		}

		err := commandHandler.Respond(ctx, c.timeout, message)
		if err != nil {
			log.Err(err).Str("command", cmd).Msg("failed to respond to command")
		}
	}()
}

func resolveMedia(ctx context.Context, files FileResolver, msg *models.Message, message *domain.Message) {
	if files == nil {
		log.Error().Msg("no file resolver available")
		message.MediaError = errNoFileResolver
		return
	}

	if msg.Document != nil {
		url, err := fileURL(ctx, files, msg.Document.FileID)
		if err != nil {
			message.MediaError = err
			return
		}
		message.Document = &domain.Document{Name: msg.Document.FileName, MIMEType: msg.Document.MimeType, URL: url}
		return
	}

	url, err := fileURL(ctx, files, findLargestImage(msg.Photo))
	if err != nil {
		message.MediaError = err
		return
	}
	message.ImageURL = url
}

func fileURL(ctx context.Context, files FileResolver, fileID string) (string, error) {
	f, err := files.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		log.Error().Err(err).Str("fileId", fileID).Msg("error getting file from telegram api")
		return "", err
	}

	return files.FileDownloadLink(f), nil
}

// findLargestImage picks the full resolution variant of a photo.
func findLargestImage(photos []models.PhotoSize) string {
	largest := photos[0]
	for _, photo := range photos[1:] {
		if photo.Width*photo.Height > largest.Width*largest.Height {
			largest = photo
		}
	}

	return largest.FileID
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
