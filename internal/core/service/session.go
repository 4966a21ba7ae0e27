package service

import (
	"context"
	"errors"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultIdleTimeout = 30 * time.Minute

// ErrSessionClosed is returned by a session the idle sweeper already released.
var ErrSessionClosed = errors.New("session expired, please try again")

// Session is the state one chat works on: its sources, resize settings, previews and the
// orchestrator for its submissions. Once closed every mutation is rejected, callers go
// through Sessions.Do to always work on the live session of a chat.
type Session struct {
	mu           sync.Mutex
	sources      domain.SourceSet
	settings     domain.ResizeSettings
	probe        *PreviewProbe
	orchestrator *ResizeOrchestrator
	lastUsed     time.Time
	mediaGroup   string
	closed       bool
}

func (s *Session) touch() {
	s.lastUsed = time.Now()
}

// AddURLs appends urls parsed from raw, see domain.SourceSet.AddURLs.
func (s *Session) AddURLs(raw string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touch()

	if !s.sources.AddURLs(raw) {
		return false
	}
	s.probe.Sync(s.sources.Sources())
	return true
}

// AddFiles replaces the sources with files.
func (s *Session) AddFiles(files []domain.LocalFile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touch()

	if !s.sources.AddFiles(files) {
		return false
	}
	s.probe.Sync(s.sources.Sources())
	return true
}

// AddMedia ingests uploaded items. The first item of a new media group is a drop and
// replaces the selection, later items of that group and single uploads are attached.
func (s *Session) AddMedia(group string, items []domain.DroppedItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.touch()

	var ok bool
	if group != "" && group != s.mediaGroup {
		ok = s.sources.Drop(items)
		if ok {
			s.mediaGroup = group
		}
	} else {
		ok = s.sources.Attach(items)
	}

	if !ok {
		return false
	}
	s.probe.Sync(s.sources.Sources())
	return true
}

func (s *Session) RemoveAt(index int) (domain.ImageSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ImageSource{}, false
	}
	s.touch()

	removed, ok := s.sources.RemoveAt(index)
	if ok {
		s.probe.Sync(s.sources.Sources())
	}
	return removed, ok
}

func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.touch()

	s.sources.Clear()
	s.mediaGroup = ""
	s.probe.Sync(nil)
	return nil
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sources.Len()
}

// SetSettings stores settings once they resolve to a valid request.
func (s *Session) SetSettings(settings domain.ResizeSettings) error {
	if _, _, err := s.orchestrator.Resolve(settings); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.touch()

	s.settings = settings
	return nil
}

func (s *Session) Settings() domain.ResizeSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Previews lists display metadata in source order.
func (s *Session) Previews() []domain.PreviewEntry {
	return s.probe.Entries()
}

func (s *Session) State() domain.State {
	return s.orchestrator.State()
}

// Submit snapshots the sources and settings and runs the submission. The session stays
// usable while the submission is in flight.
func (s *Session) Submit(ctx context.Context) domain.ResizeOutcome {
	s.mu.Lock()
	s.touch()
	sources := s.sources.Sources()
	settings := s.settings
	s.mu.Unlock()

	return s.orchestrator.Submit(ctx, sources, settings)
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.probe.Close()
}

// Sessions hands out one Session per chat and closes the ones left idle.
type Sessions struct {
	refs        port.DisplayRefs
	decoder     port.DimensionDecoder
	encoder     BatchEncoder
	engine      port.ResizeEngine
	store       port.Store
	idleTimeout time.Duration

	ctx   context.Context
	chats map[int64]*Session
	mutex *sync.Mutex
}

func NewSessions(ctx context.Context, refs port.DisplayRefs, decoder port.DimensionDecoder, encoder BatchEncoder,
	engine port.ResizeEngine, store port.Store) *Sessions {
	idleTimeout := viper.GetDuration("session.idle_timeout")
	if idleTimeout <= 0 {
		idleTimeout = defaultIdleTimeout
	}

	s := &Sessions{
		refs:        refs,
		decoder:     decoder,
		encoder:     encoder,
		engine:      engine,
		store:       store,
		idleTimeout: idleTimeout,
		ctx:         ctx,
		chats:       make(map[int64]*Session),
		mutex:       &sync.Mutex{},
	}

	go s.SweepIdle(ctx)

	return s
}

// Get returns the session of a chat, creating it on first use. Use Do to mutate it.
func (s *Sessions) Get(chatID int64) *Session {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.getLocked(chatID)
}

// Do runs fn on the live session of a chat. The sweeper can't close the session while fn
// runs, so fn must not block.
func (s *Sessions) Do(chatID int64, fn func(session *Session) error) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return fn(s.getLocked(chatID))
}

func (s *Sessions) getLocked(chatID int64) *Session {
	if session, ok := s.chats[chatID]; ok {
		session.mu.Lock()
		session.touch()
		session.mu.Unlock()
		return session
	}

	session := &Session{
		settings:     domain.ResizeSettings{AutoScale: true},
		probe:        NewPreviewProbe(s.ctx, s.refs, s.decoder),
		orchestrator: NewResizeOrchestrator(s.encoder, s.engine, s.store),
		lastUsed:     time.Now(),
	}
	s.chats[chatID] = session

	go watchPreviews(chatID, session.probe)

	log.Debug().Int64("chatId", chatID).Msg("created session")

	return session
}

// Sweep closes sessions idle for longer than the configured timeout. Sessions with a
// submission in flight are kept.
func (s *Sessions) Sweep(now time.Time) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	closed := 0
	for chatID, session := range s.chats {
		if session.idleSince(now) < s.idleTimeout {
			continue
		}

		switch session.State() {
		case domain.StateEncoding, domain.StateRequesting, domain.StatePersisting:
			continue
		}

		session.close()
		delete(s.chats, chatID)
		closed++
		log.Debug().Int64("chatId", chatID).Msg("closed idle session")
	}

	return closed
}

func (s *Sessions) SweepIdle(ctx context.Context) {
	ticker := time.NewTicker(s.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			if n := s.Sweep(now); n > 0 {
				log.Info().Int("closed", n).Msg("swept idle sessions")
			}
		case <-ctx.Done():
			log.Debug().Msg("stopping session sweeper")
			return
		}
	}
}

// Close releases every session.
func (s *Sessions) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for chatID, session := range s.chats {
		session.close()
		delete(s.chats, chatID)
	}
}

func watchPreviews(chatID int64, probe *PreviewProbe) {
	for update := range probe.Updates() {
		log.Debug().
			Int64("chatId", chatID).
			Str("id", update.ID.String()).
			Int("width", update.Size.Width).
			Int("height", update.Size.Height).
			Msg("preview resolved")
	}
}
