package domain

import "github.com/gofrs/uuid/v5"

// Message is a chat message as seen by the command handlers.
type Message struct {
	ID       int
	ChatID   int64
	Username string
	Text     string
	ImageURL string
	Document *Document

	// MediaGroupID is shared by every message of one album.
	MediaGroupID string

	// MediaError is set when attached media could not be resolved.
	MediaError error
}

// Document is an attached file that still has to be downloaded.
type Document struct {
	Name     string
	MIMEType string
	URL      string
}

type Action string

const (
	Typing         Action = "typing"
	UploadingPhoto Action = "upload_photo"
)

type Size struct {
	Width  int
	Height int
}

// PreviewEntry is display metadata for one source. Size stays nil until the probe
// resolves and for good if it fails.
type PreviewEntry struct {
	ID         uuid.UUID
	DisplayURL string
	Name       string
	Size       *Size
}

// PreviewUpdate is published whenever a probe resolves for an entry.
type PreviewUpdate struct {
	ID   uuid.UUID
	Size Size
}

type State int

const (
	StateIdle State = iota
	StateEncoding
	StateRequesting
	StatePersisting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEncoding:
		return "encoding"
	case StateRequesting:
		return "requesting"
	case StatePersisting:
		return "persisting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ResizeOutcome is the terminal result of one submission.
type ResizeOutcome struct {
	Message string
	Err     error
}

func Success(message string) ResizeOutcome {
	return ResizeOutcome{Message: message}
}

func Failure(err error) ResizeOutcome {
	return ResizeOutcome{Err: err}
}

func (o ResizeOutcome) Succeeded() bool {
	return o.Err == nil
}

// Reason is the human-readable text for the user, either the persisted message or the
// failure.
func (o ResizeOutcome) Reason() string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Message
}
