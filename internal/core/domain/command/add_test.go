package command

import (
	"imgresize/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAdd(t *testing.T) {
	add := NewAdd(newTestDeps().sessions(t), &MockTextSender{}, &MockAuthorizer{}, "/add")

	assert.NotNil(t, add)
	assert.Equal(t, "/add", add.GetCommand())
}

func TestAdd_Respond(t *testing.T) {
	tests := []struct {
		name        string
		texts       []string
		denied      bool
		wantMessage string
		wantLen     int
	}{
		{
			name:        "comma separated",
			texts:       []string{"/add https://a.org/1.png, https://a.org/2.png"},
			wantMessage: "2 images selected.",
			wantLen:     2,
		},
		{
			name:        "appends across messages",
			texts:       []string{"/add https://a.org/1.png", "/add\nhttps://a.org/2.png\nhttps://a.org/3.png"},
			wantMessage: "3 images selected.",
			wantLen:     3,
		},
		{
			name:        "only separators",
			texts:       []string{"/add , ,"},
			wantMessage: "usage: /add <url>[, <url>...]",
			wantLen:     0,
		},
		{
			name:    "not authorized",
			texts:   []string{"/add https://a.org/1.png"},
			denied:  true,
			wantLen: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessions := newTestDeps().sessions(t)
			ms := &MockTextSender{}
			add := NewAdd(sessions, ms, &MockAuthorizer{denied: tc.denied}, "/add")

			for _, text := range tc.texts {
				err := add.Respond(testContext(t), time.Minute, &domain.Message{ChatID: 1, ID: 1, Text: text})
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantMessage, ms.Message)
			assert.Equal(t, tc.wantLen, sessions.Get(1).Len())
		})
	}
}
