package blob

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const scheme = "blob:"

var (
	ErrUnknownRef  = errors.New("unknown display reference")
	ErrNotBlobRef  = errors.New("not a blob reference")
	ErrReleasedRef = errors.New("display reference already released")
)

// Registry hands out ephemeral blob: references for in-memory image bytes. Every minted reference must be released
// exactly once.
type Registry struct {
	mu       sync.Mutex
	data     map[string][]byte
	released map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		data:     make(map[string][]byte),
		released: make(map[string]struct{}),
	}
}

func (r *Registry) Mint(data []byte) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("failed to generate blob id: %w", err)
	}

	ref := scheme + id.String()

	r.mu.Lock()
	r.data[ref] = data
	r.mu.Unlock()

	log.Debug().Str("ref", ref).Int("bytes", len(data)).Msg("minted display reference")

	return ref, nil
}

// Open returns the bytes behind a live reference.
func (r *Registry) Open(ref string) ([]byte, error) {
	if !IsRef(ref) {
		return nil, ErrNotBlobRef
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	data, ok := r.data[ref]
	if !ok {
		if _, gone := r.released[ref]; gone {
			return nil, ErrReleasedRef
		}
		return nil, ErrUnknownRef
	}

	return data, nil
}

func (r *Registry) Release(ref string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.data[ref]; !ok {
		if _, gone := r.released[ref]; gone {
			log.Warn().Str("ref", ref).Msg("display reference released twice")
			return ErrReleasedRef
		}
		return ErrUnknownRef
	}

	delete(r.data, ref)
	r.released[ref] = struct{}{}

	log.Debug().Str("ref", ref).Msg("released display reference")

	return nil
}

// Len is the number of live references.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.data)
}

func IsRef(ref string) bool {
	return strings.HasPrefix(ref, scheme)
}
