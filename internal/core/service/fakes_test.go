package service

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"sync"
	"time"
)

type fakeFetcher struct {
	mu      sync.Mutex
	bodies  map[string][]byte
	status  map[string]int
	delays  map[string]time.Duration
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	delay := f.delays[url]
	status := f.status[url]
	body, ok := f.bodies[url]
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if status != 0 {
		return nil, &domain.FetchError{URL: url, Status: status}
	}
	if !ok {
		return nil, errors.New("no such host")
	}
	return body, nil
}

type fakeReader struct {
	files map[string][]byte
}

func (f *fakeReader) ReadFile(_ context.Context, handle string) ([]byte, error) {
	data, ok := f.files[handle]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", handle)
	}
	return data, nil
}

type fakeEngine struct {
	calls  int
	width  int
	height int
	got    []domain.EncodedImage
	result []domain.EncodedImage
	err    error
}

func (f *fakeEngine) Resize(_ context.Context, width, height, _ int,
	images []domain.EncodedImage) ([]domain.EncodedImage, error) {
	f.calls++
	f.width = width
	f.height = height
	f.got = images
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}

	out := make([]domain.EncodedImage, len(images))
	for i, img := range images {
		out[i] = "resized:" + img
	}
	return out, nil
}

type fakeStore struct {
	calls   int
	got     []domain.EncodedImage
	message string
	err     error
}

func (f *fakeStore) Persist(_ context.Context, images []domain.EncodedImage) (string, error) {
	f.calls++
	f.got = images
	if f.err != nil {
		return "", f.err
	}
	return f.message, nil
}

type fakeRefs struct {
	mu       sync.Mutex
	next     int
	live     map[string]bool
	released map[string]int
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{live: make(map[string]bool), released: make(map[string]int)}
}

func (f *fakeRefs) Mint(_ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	ref := fmt.Sprintf("blob:%d", f.next)
	f.live[ref] = true
	return ref, nil
}

func (f *fakeRefs) Release(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.released[ref]++
	if !f.live[ref] {
		return errors.New("already released")
	}
	delete(f.live, ref)
	return nil
}

func (f *fakeRefs) liveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.live)
}

func (f *fakeRefs) releaseCount(ref string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.released[ref]
}

// gatedDecoder blocks every probe until its gate is opened.
type gatedDecoder struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	sizes map[string]domain.Size
}

func newGatedDecoder() *gatedDecoder {
	return &gatedDecoder{gates: make(map[string]chan struct{}), sizes: make(map[string]domain.Size)}
}

func (d *gatedDecoder) gate(displayURL string) chan struct{} {
	d.mu.Lock()
	defer d.mu.Unlock()
	g, ok := d.gates[displayURL]
	if !ok {
		g = make(chan struct{})
		d.gates[displayURL] = g
	}
	return g
}

func (d *gatedDecoder) open(displayURL string) {
	close(d.gate(displayURL))
}

func (d *gatedDecoder) Dimensions(ctx context.Context, displayURL string) (domain.Size, error) {
	select {
	case <-d.gate(displayURL):
	case <-ctx.Done():
		return domain.Size{}, ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	size, ok := d.sizes[displayURL]
	if !ok {
		return domain.Size{}, errors.New("image: unknown format")
	}
	return size, nil
}

// unguardedDecoder ignores cancellation, so results for removed entries still arrive.
type unguardedDecoder struct {
	*gatedDecoder
}

func (d unguardedDecoder) Dimensions(_ context.Context, displayURL string) (domain.Size, error) {
	return d.gatedDecoder.Dimensions(context.Background(), displayURL)
}
