package command

import (
	"imgresize/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemove_Respond(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantMessage string
		wantURLs    []string
	}{
		{
			name:        "middle",
			text:        "/remove 2",
			wantMessage: "Removed b.png. 2 images selected.",
			wantURLs:    []string{"https://a.org/a.png", "https://a.org/c.png"},
		},
		{
			name:        "out of range",
			text:        "/remove 4",
			wantMessage: "no image at position 4",
			wantURLs:    []string{"https://a.org/a.png", "https://a.org/b.png", "https://a.org/c.png"},
		},
		{
			name:        "zero",
			text:        "/remove 0",
			wantMessage: "no image at position 0",
			wantURLs:    []string{"https://a.org/a.png", "https://a.org/b.png", "https://a.org/c.png"},
		},
		{
			name:        "not a number",
			text:        "/remove b.png",
			wantMessage: "usage: /remove <number>",
			wantURLs:    []string{"https://a.org/a.png", "https://a.org/b.png", "https://a.org/c.png"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessions := newTestDeps().sessions(t)
			sessions.Get(1).AddURLs("https://a.org/a.png, https://a.org/b.png, https://a.org/c.png")

			ms := &MockTextSender{}
			remove := NewRemove(sessions, ms, &MockAuthorizer{}, "/remove")

			err := remove.Respond(testContext(t), time.Minute, &domain.Message{ChatID: 1, ID: 1, Text: tc.text})
			require.NoError(t, err)

			assert.Equal(t, tc.wantMessage, ms.Message)

			var urls []string
			for _, entry := range sessions.Get(1).Previews() {
				urls = append(urls, entry.DisplayURL)
			}
			assert.Equal(t, tc.wantURLs, urls)
		})
	}
}
