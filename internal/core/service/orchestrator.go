package service

import (
	"context"
	"fmt"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultQuality = 80

type BatchEncoder interface {
	EncodeAll(ctx context.Context, sources []domain.ImageSource) ([]domain.EncodedImage, error)
}

// ResizeOrchestrator drives one submission through encode, resize and persist. Failures
// are never retried.
type ResizeOrchestrator struct {
	encoder BatchEncoder
	engine  port.ResizeEngine
	store   port.Store
	quality int

	// maxDimension caps either side of a request, see domain.ResizeSettings.Resolve.
	maxDimension int

	mu    sync.Mutex
	state domain.State
	busy  bool
}

func NewResizeOrchestrator(encoder BatchEncoder, engine port.ResizeEngine, store port.Store) *ResizeOrchestrator {
	quality := viper.GetInt("resize.quality")
	if quality == 0 {
		quality = defaultQuality
	}

	return &ResizeOrchestrator{
		encoder:      encoder,
		engine:       engine,
		store:        store,
		quality:      quality,
		maxDimension: viper.GetInt("resize.max_dimension"),
		state:        domain.StateIdle,
	}
}

// Resolve validates settings against the configured dimension limit.
func (o *ResizeOrchestrator) Resolve(settings domain.ResizeSettings) (width, height int, err error) {
	return settings.Resolve(o.maxDimension)
}

func (o *ResizeOrchestrator) State() domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit runs a submission to completion and returns its outcome. sources is copied before
// the first suspension point, so the caller may keep mutating its set.
func (o *ResizeOrchestrator) Submit(ctx context.Context, sources []domain.ImageSource,
	settings domain.ResizeSettings) domain.ResizeOutcome {
	snapshot := make([]domain.ImageSource, len(sources))
	copy(snapshot, sources)

	l := log.With().Int("sources", len(snapshot)).Logger()

	if err := o.begin(); err != nil {
		l.Warn().Err(err).Msg("rejected submit")
		return domain.Failure(err)
	}
	defer o.end()

	if len(snapshot) == 0 {
		o.reset()
		err := &domain.ValidationError{Err: domain.ErrEmptySourceSet}
		l.Info().Err(err).Msg("rejected submit")
		return domain.Failure(err)
	}

	width, height, err := o.Resolve(settings)
	if err != nil {
		o.reset()
		l.Info().Err(err).Msg("rejected submit")
		return domain.Failure(err)
	}

	req := domain.ResizeRequest{Width: width, Height: height, AutoScale: settings.AutoScale, Quality: o.quality}

	o.transition(domain.StateEncoding)
	req.Payloads, err = o.encoder.EncodeAll(ctx, snapshot)
	if err != nil {
		return o.fail(err)
	}

	o.transition(domain.StateRequesting)
	resized, err := o.engine.Resize(ctx, req.Width, req.Height, req.Quality, req.Payloads)
	if err != nil {
		return o.fail(&domain.RemoteCallError{Stage: domain.StageResize, Err: err})
	}

	if len(resized) != len(req.Payloads) {
		return o.fail(&domain.RemoteCallError{
			Stage: domain.StageResize,
			Err:   fmt.Errorf("expected %d images, engine returned %d", len(req.Payloads), len(resized)),
		})
	}

	o.transition(domain.StatePersisting)
	message, err := o.store.Persist(ctx, resized)
	if err != nil {
		return o.fail(&domain.RemoteCallError{Stage: domain.StagePersist, Err: err})
	}

	o.transition(domain.StateDone)
	l.Info().Int("width", req.Width).Int("height", req.Height).Str("result", message).Msg("resize finished")

	return domain.Success(message)
}

// begin resets a finished orchestrator to Idle. A submission still in flight blocks new
// ones.
func (o *ResizeOrchestrator) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.busy {
		return domain.ErrSubmissionInFlight
	}

	o.busy = true
	o.state = domain.StateIdle
	return nil
}

func (o *ResizeOrchestrator) end() {
	o.mu.Lock()
	o.busy = false
	o.mu.Unlock()
}

func (o *ResizeOrchestrator) reset() {
	o.mu.Lock()
	o.state = domain.StateIdle
	o.mu.Unlock()
}

func (o *ResizeOrchestrator) transition(next domain.State) {
	o.mu.Lock()
	prev := o.state
	o.state = next
	o.mu.Unlock()

	log.Debug().Stringer("from", prev).Stringer("to", next).Msg("orchestrator state")
}

func (o *ResizeOrchestrator) fail(err error) domain.ResizeOutcome {
	o.transition(domain.StateDone)
	log.Error().Err(err).Msg("resize failed")
	return domain.Failure(err)
}
