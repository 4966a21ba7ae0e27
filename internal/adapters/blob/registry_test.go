package blob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lifecycle(t *testing.T) {
	r := NewRegistry()

	first, err := r.Mint([]byte("one"))
	require.NoError(t, err)
	second, err := r.Mint([]byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, IsRef(first))
	assert.Equal(t, 2, r.Len())

	data, err := r.Open(first)
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	require.NoError(t, r.Release(first))
	assert.Equal(t, 1, r.Len())

	_, err = r.Open(first)
	assert.ErrorIs(t, err, ErrReleasedRef)

	err = r.Release(first)
	assert.ErrorIs(t, err, ErrReleasedRef)

	require.NoError(t, r.Release(second))
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_UnknownRefs(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{
			name:    "never minted",
			ref:     "blob:00000000-0000-0000-0000-000000000000",
			wantErr: ErrUnknownRef,
		},
		{
			name:    "plain url",
			ref:     "https://example.org/a.png",
			wantErr: ErrNotBlobRef,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := r.Open(tc.ref)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}

	assert.ErrorIs(t, r.Release("blob:missing"), ErrUnknownRef)
}
