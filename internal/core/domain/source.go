package domain

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
)

type SourceKind int

const (
	KindNone SourceKind = iota
	KindFile
	KindURL
)

func (k SourceKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindURL:
		return "url"
	default:
		return "none"
	}
}

// FileScheme prefixes the display URL of a local file that is only known by its path.
const FileScheme = "file://"

// LocalFile is an image the user handed over directly. Data holds the bytes when they are
// already in memory, otherwise Handle is resolved by a port.FileReader.
type LocalFile struct {
	Handle string
	Name   string
	Data   []byte
}

// ImageSource is either a LocalFile or a remote URL, tagged by Kind. ID is assigned on
// ingestion and stays stable while the source is part of a SourceSet.
type ImageSource struct {
	ID   uuid.UUID
	Kind SourceKind
	File LocalFile
	URL  string
}

// Name returns a short human-readable label for the source.
func (s ImageSource) Name() string {
	if s.Kind == KindFile {
		if s.File.Name != "" {
			return s.File.Name
		}
		return s.File.Handle
	}

	trimmed := strings.TrimRight(s.URL, "/")
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndex(trimmed, "/"); i >= 0 && i < len(trimmed)-1 {
		return trimmed[i+1:]
	}

	return s.URL
}

// DroppedItem is a single item of a drag-and-drop style ingestion.
type DroppedItem struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsImage reports whether the item carries image content. Detection is done on the bytes,
// the declared MIME type is only used when there are none.
func (d DroppedItem) IsImage() bool {
	if len(d.Data) > 0 {
		return strings.HasPrefix(mimetype.Detect(d.Data).String(), "image/")
	}

	return strings.HasPrefix(strings.ToLower(d.MIMEType), "image/")
}

// SourceSet holds the selected sources. Files and URLs are mutually exclusive: adding one
// kind drops the other. Order is significant and preserved.
type SourceSet struct {
	files []ImageSource
	urls  []ImageSource
}

// AddFiles replaces the file list and clears the URLs. An empty selection leaves the set
// unchanged and returns false.
func (s *SourceSet) AddFiles(files []LocalFile) bool {
	if len(files) == 0 {
		return false
	}

	next := make([]ImageSource, 0, len(files))
	for _, f := range files {
		next = append(next, ImageSource{ID: newSourceID(), Kind: KindFile, File: f})
	}

	s.files = next
	s.urls = nil

	log.Debug().Int("files", len(next)).Msg("replaced file sources")

	return true
}

// AddURLs splits raw on commas and newlines, trims every token, discards empty ones and
// appends the rest to the URL list, clearing the files. Returns false if nothing survived.
func (s *SourceSet) AddURLs(raw string) bool {
	tokens := ParseURLList(raw)
	if len(tokens) == 0 {
		return false
	}

	for _, u := range tokens {
		s.urls = append(s.urls, ImageSource{ID: newSourceID(), Kind: KindURL, URL: u})
	}
	s.files = nil

	log.Debug().Int("added", len(tokens)).Int("urls", len(s.urls)).Msg("appended url sources")

	return true
}

// Drop ingests dropped items, keeping only image content. If no image survives the
// filter the set is left unchanged.
func (s *SourceSet) Drop(items []DroppedItem) bool {
	return s.AddFiles(imageFiles(items))
}

// Attach appends the image items to the file list instead of replacing it. URLs are
// cleared as with any file selection.
func (s *SourceSet) Attach(items []DroppedItem) bool {
	files := imageFiles(items)
	if len(files) == 0 {
		return false
	}

	for _, f := range files {
		s.files = append(s.files, ImageSource{ID: newSourceID(), Kind: KindFile, File: f})
	}
	s.urls = nil

	log.Debug().Int("added", len(files)).Int("files", len(s.files)).Msg("appended file sources")

	return true
}

func imageFiles(items []DroppedItem) []LocalFile {
	var files []LocalFile
	for _, item := range items {
		if !item.IsImage() {
			log.Debug().Str("name", item.Name).Msg("ignoring dropped non-image item")
			continue
		}
		files = append(files, LocalFile{Handle: item.Name, Name: item.Name, Data: item.Data})
	}

	return files
}

// RemoveAt removes the source at index from whichever kind is populated.
func (s *SourceSet) RemoveAt(index int) (ImageSource, bool) {
	list := &s.urls
	if len(s.files) > 0 {
		list = &s.files
	}

	if index < 0 || index >= len(*list) {
		return ImageSource{}, false
	}

	removed := (*list)[index]
	*list = append((*list)[:index:index], (*list)[index+1:]...)

	return removed, true
}

func (s *SourceSet) Clear() {
	s.files = nil
	s.urls = nil
}

func (s *SourceSet) Len() int {
	return len(s.files) + len(s.urls)
}

// Sources returns a copy of the populated list in order.
func (s *SourceSet) Sources() []ImageSource {
	list := s.urls
	if len(s.files) > 0 {
		list = s.files
	}

	out := make([]ImageSource, len(list))
	copy(out, list)
	return out
}

// ParseURLList splits on commas and newlines and returns the trimmed, non-empty tokens.
func ParseURLList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})

	var tokens []string
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			tokens = append(tokens, t)
		}
	}

	return tokens
}

func newSourceID() uuid.UUID {
	id, err := uuid.NewV4()
	if err != nil {
		// crypto/rand failure, fall back to a time based id
		return uuid.Must(uuid.NewV7())
	}
	return id
}
