package service

import (
	"context"
	"imgresize/internal/core/domain"
	"imgresize/internal/core/port"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

const previewUpdateBuffer = 32

type previewItem struct {
	entry  domain.PreviewEntry
	ref    string // minted display reference, empty for urls and files on disk
	cancel context.CancelFunc
}

// PreviewProbe keeps display metadata for the current sources. Dimension lookups run in
// the background and never block Sync.
type PreviewProbe struct {
	refs    port.DisplayRefs
	decoder port.DimensionDecoder

	mu      sync.Mutex
	order   []uuid.UUID
	items   map[uuid.UUID]*previewItem
	updates chan domain.PreviewUpdate
	closed  bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPreviewProbe(ctx context.Context, refs port.DisplayRefs, decoder port.DimensionDecoder) *PreviewProbe {
	ctx, cancel := context.WithCancel(ctx)

	return &PreviewProbe{
		refs:    refs,
		decoder: decoder,
		items:   make(map[uuid.UUID]*previewItem),
		updates: make(chan domain.PreviewUpdate, previewUpdateBuffer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Sync reconciles the entries with sources. Entries for new sources are created and
// probed, entries whose source is gone are cancelled and their reference released.
func (p *PreviewProbe) Sync(sources []domain.ImageSource) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	added, removed := diffSources(p.order, sources)

	for _, id := range removed {
		p.dropLocked(id)
	}

	for _, src := range added {
		item, err := p.newItem(src)
		if err != nil {
			log.Warn().Err(err).Str("source", src.Name()).Msg("could not create display reference")
			item = &previewItem{entry: domain.PreviewEntry{ID: src.ID, Name: src.Name()}}
			p.items[src.ID] = item
			continue
		}

		p.items[src.ID] = item
		p.startProbe(item)
	}

	p.order = p.order[:0]
	for _, src := range sources {
		p.order = append(p.order, src.ID)
	}
}

// Entries returns the current entries in source order.
func (p *PreviewProbe) Entries() []domain.PreviewEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := make([]domain.PreviewEntry, 0, len(p.order))
	for _, id := range p.order {
		item, ok := p.items[id]
		if !ok {
			continue
		}

		entry := item.entry
		if entry.Size != nil {
			size := *entry.Size
			entry.Size = &size
		}
		entries = append(entries, entry)
	}

	return entries
}

// Updates publishes resolved dimensions. Updates are dropped when nobody keeps up.
func (p *PreviewProbe) Updates() <-chan domain.PreviewUpdate {
	return p.updates
}

// Close cancels pending probes, releases all references and waits for the probes to
// return. The probe is unusable afterwards.
func (p *PreviewProbe) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true

	for _, id := range p.order {
		p.dropLocked(id)
	}
	p.order = nil
	p.cancel()
	p.mu.Unlock()

	p.wg.Wait()
	close(p.updates)
}

func (p *PreviewProbe) newItem(src domain.ImageSource) (*previewItem, error) {
	item := &previewItem{entry: domain.PreviewEntry{ID: src.ID, Name: src.Name()}}

	if src.Kind == domain.KindURL {
		item.entry.DisplayURL = src.URL
		return item, nil
	}

	if src.File.Data == nil {
		item.entry.DisplayURL = domain.FileScheme + src.File.Handle
		return item, nil
	}

	ref, err := p.refs.Mint(src.File.Data)
	if err != nil {
		return nil, err
	}

	item.ref = ref
	item.entry.DisplayURL = ref
	return item, nil
}

func (p *PreviewProbe) startProbe(item *previewItem) {
	ctx, cancel := context.WithCancel(p.ctx)
	item.cancel = cancel

	id := item.entry.ID
	displayURL := item.entry.DisplayURL

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer cancel()

		size, err := p.decoder.Dimensions(ctx, displayURL)
		if err != nil {
			log.Debug().Err(err).Str("id", id.String()).Msg("dimension probe failed")
			return
		}

		p.apply(id, size)
	}()
}

func (p *PreviewProbe) apply(id uuid.UUID, size domain.Size) {
	p.mu.Lock()
	defer p.mu.Unlock()

	item, ok := p.items[id]
	if !ok || p.closed {
		log.Debug().Str("id", id.String()).Msg("discarding stale probe result")
		return
	}

	item.entry.Size = &size

	select {
	case p.updates <- domain.PreviewUpdate{ID: id, Size: size}:
	default:
		log.Debug().Str("id", id.String()).Msg("preview update dropped, channel full")
	}
}

func (p *PreviewProbe) dropLocked(id uuid.UUID) {
	item, ok := p.items[id]
	if !ok {
		return
	}
	delete(p.items, id)

	if item.cancel != nil {
		item.cancel()
	}

	if item.ref != "" {
		if err := p.refs.Release(item.ref); err != nil {
			log.Warn().Err(err).Str("ref", item.ref).Msg("failed to release display reference")
		}
		item.ref = ""
	}
}

// diffSources returns the sources not yet known and the known ids no longer present.
func diffSources(known []uuid.UUID, sources []domain.ImageSource) ([]domain.ImageSource, []uuid.UUID) {
	next := make(map[uuid.UUID]struct{}, len(sources))
	for _, src := range sources {
		next[src.ID] = struct{}{}
	}

	current := make(map[uuid.UUID]struct{}, len(known))
	var removed []uuid.UUID
	for _, id := range known {
		current[id] = struct{}{}
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}

	var added []domain.ImageSource
	for _, src := range sources {
		if _, ok := current[src.ID]; !ok {
			added = append(added, src)
		}
	}

	return added, removed
}
