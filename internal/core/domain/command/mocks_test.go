package command

import (
	"context"
	"errors"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/service"
	"net/http"
	"strings"
	"sync"
	"testing"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

type MockTextSender struct {
	err     error
	Message string
	replies int
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, message string) (int, error) {
	m.Message = message
	m.replies++
	return 0, m.err
}

func (m *MockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.Message = err.Error()
	m.replies++
	if m.err != nil {
		return m.err
	}
	return err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

type MockAuthorizer struct {
	denied bool
}

func (m *MockAuthorizer) IsAuthorized(_ context.Context, _ int64) bool {
	return !m.denied
}

type fakeRefs struct {
	mu sync.Mutex
	n  int
}

func (f *fakeRefs) Mint(_ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("blob:%d", f.n), nil
}

func (f *fakeRefs) Release(_ string) error {
	return nil
}

type fakeDecoder struct {
	sizes map[string]domain.Size
}

func (f *fakeDecoder) Dimensions(_ context.Context, displayURL string) (domain.Size, error) {
	size, ok := f.sizes[displayURL]
	if !ok {
		return domain.Size{}, errors.New("image: unknown format")
	}
	return size, nil
}

type fakeFetcher struct {
	bodies map[string][]byte
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f.bodies[url]
	if !ok {
		return nil, &domain.FetchError{URL: url, Status: http.StatusNotFound}
	}
	return body, nil
}

type fakeReader struct {
	files map[string][]byte
}

func (f *fakeReader) ReadFile(_ context.Context, handle string) ([]byte, error) {
	data, ok := f.files[handle]
	if !ok {
		return nil, &domain.ReadError{Name: handle, Err: errors.New("no such file or directory")}
	}
	return data, nil
}

type fakeInbox struct {
	names []string
	err   error
}

func (f *fakeInbox) List(_ context.Context) ([]string, error) {
	return f.names, f.err
}

func (f *fakeInbox) Path(name string) (string, error) {
	if strings.Contains(name, "/") {
		return "", fmt.Errorf("invalid file name: %q", name)
	}
	return "/inbox/" + name, nil
}

type fakeEngine struct {
	width  int
	height int
	err    error
}

func (f *fakeEngine) Resize(_ context.Context, width, height, _ int,
	images []domain.EncodedImage) ([]domain.EncodedImage, error) {
	f.width, f.height = width, height
	if f.err != nil {
		return nil, f.err
	}
	return images, nil
}

type fakeStore struct {
	message string
	err     error
}

func (f *fakeStore) Persist(_ context.Context, _ []domain.EncodedImage) (string, error) {
	return f.message, f.err
}

type testDeps struct {
	reader  *fakeReader
	fetcher *fakeFetcher
	decoder *fakeDecoder
	engine  *fakeEngine
	store   *fakeStore
}

func newTestDeps() *testDeps {
	return &testDeps{
		reader:  &fakeReader{files: map[string][]byte{}},
		fetcher: &fakeFetcher{bodies: map[string][]byte{}},
		decoder: &fakeDecoder{sizes: map[string]domain.Size{}},
		engine:  &fakeEngine{},
		store:   &fakeStore{message: "Successfully saved 1 images to /out"},
	}
}

func (d *testDeps) sessions(t *testing.T) *service.Sessions {
	t.Helper()

	s := service.NewSessions(testContext(t), &fakeRefs{}, d.decoder, service.NewEncoder(d.reader, d.fetcher), d.engine,
		d.store)
	t.Cleanup(s.Close)

	return s
}
