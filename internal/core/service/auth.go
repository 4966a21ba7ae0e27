package service

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, chatID int64) bool
}

// ChatAuthorizer only lets allowlisted chats use the resizer. With telegram.allow_all set
// every chat is accepted.
type ChatAuthorizer struct {
	allowlist map[int64]struct{}
	allowAll  bool
	admin     string
	sender    port.TextSender
}

func NewAuthorizer(sender port.TextSender) (*ChatAuthorizer, error) {
	var list []int64

	err := viper.UnmarshalKey("telegram.allowed_chat_ids", &list)
	if err != nil {
		return nil, errors.New("failed to load allowed chat IDs")
	}

	allowlist := make(map[int64]struct{}, len(list))
	for _, id := range list {
		allowlist[id] = struct{}{}
	}

	return &ChatAuthorizer{
		allowlist: allowlist,
		allowAll:  viper.GetBool("telegram.allow_all"),
		admin:     viper.GetString("telegram.admin_username"),
		sender:    sender,
	}, nil
}

const forbidden = "This chat may not use the resizer. Ask @%s to add chat ID %d."

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, chatID int64) bool {
	if a.allowAll {
		return true
	}

	if _, ok := a.allowlist[chatID]; ok {
		return true
	}

	_, err := a.sender.SendMessageReply(ctx,
		&domain.Message{ChatID: chatID},
		fmt.Sprintf(forbidden, a.admin, chatID))
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
