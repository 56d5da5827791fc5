package exception

import "context"

// RequestRepository is the pending queue.
type RequestRepository interface {
	Create(ctx context.Context, req Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)

	// GetForUpdate locks the row until the enclosing transaction ends.
	GetForUpdate(ctx context.Context, id string) (Request, error)

	// ListPending returns pending requests, oldest attempt first.
	ListPending(ctx context.Context) ([]Request, error)

	Delete(ctx context.Context, id string) error
}

type ArchiveRepository interface {
	// Create fails with ErrAlreadyProcessed when the request is already archived.
	Create(ctx context.Context, entry ArchiveEntry) (ArchiveEntry, error)

	// List returns entries newest resolution first.
	List(ctx context.Context, filter ArchiveFilter) ([]ArchiveEntry, error)
}
