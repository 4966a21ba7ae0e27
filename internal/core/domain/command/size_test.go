package command

import (
	"imgresize/internal/core/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSize_Respond(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantMessage  string
		wantSettings domain.ResizeSettings
	}{
		{
			name:         "show current",
			text:         "/size",
			wantMessage:  "Target: - x -, auto scale",
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:         "width only",
			text:         "/size 800",
			wantMessage:  "Target: 800 x -, auto scale",
			wantSettings: domain.ResizeSettings{Width: "800", AutoScale: true},
		},
		{
			name:         "height only",
			text:         "/size - 600",
			wantMessage:  "Target: - x 600, auto scale",
			wantSettings: domain.ResizeSettings{Height: "600", AutoScale: true},
		},
		{
			name:         "exact",
			text:         "/size 800 600 exact",
			wantMessage:  "Target: 800 x 600, exact",
			wantSettings: domain.ResizeSettings{Width: "800", Height: "600"},
		},
		{
			name:         "exact needs both",
			text:         "/size 800 exact",
			wantMessage:  "invalid request: width and height are both required when auto-scale is off",
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:         "negative",
			text:         "/size -5",
			wantMessage:  "invalid request: dimensions must be positive integers",
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:         "too large",
			text:         "/size 100000 100000",
			wantMessage:  "invalid request: dimensions are too large: max 10000",
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:         "overflowing exponent",
			text:         "/size 1e30",
			wantMessage:  "invalid request: dimensions are too large: max 10000",
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:         "too many arguments",
			text:         "/size 1 2 3",
			wantMessage:  sizeUsage,
			wantSettings: domain.ResizeSettings{AutoScale: true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sessions := newTestDeps().sessions(t)
			ms := &MockTextSender{}
			size := NewSize(sessions, ms, &MockAuthorizer{}, "/size")

			err := size.Respond(testContext(t), time.Minute, &domain.Message{ChatID: 1, ID: 1, Text: tc.text})
			require.NoError(t, err)

			assert.Equal(t, tc.wantMessage, ms.Message)
			assert.Equal(t, tc.wantSettings, sessions.Get(1).Settings())
		})
	}
}

func TestParseSizeArgs(t *testing.T) {
	current := domain.ResizeSettings{Width: "10", Height: "20", AutoScale: false}

	tests := []struct {
		name    string
		args    []string
		want    domain.ResizeSettings
		wantErr bool
	}{
		{
			name: "mode is kept when omitted",
			args: []string{"300", "200"},
			want: domain.ResizeSettings{Width: "300", Height: "200"},
		},
		{
			name: "auto with one side",
			args: []string{"300", "AUTO"},
			want: domain.ResizeSettings{Width: "300", AutoScale: true},
		},
		{
			name: "dashes unset both",
			args: []string{"-", "-", "auto"},
			want: domain.ResizeSettings{AutoScale: true},
		},
		{
			name:    "unknown third argument",
			args:    []string{"300", "200", "fit"},
			want:    current,
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseSizeArgs(tc.args, current)
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
