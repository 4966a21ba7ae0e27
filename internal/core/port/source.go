package port

import "context"

type Fetcher interface {
	// Fetch downloads the content at url. Non-success responses are returned as *domain.FetchError.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type FileReader interface {
	// ReadFile returns the bytes behind a local file handle.
	ReadFile(ctx context.Context, handle string) ([]byte, error)
}

type Inbox interface {
	// List returns the names of the files waiting in the inbox.
	List(ctx context.Context) ([]string, error)
	// Path resolves a listed name to the handle a FileReader accepts.
	Path(name string) (string, error)
}
