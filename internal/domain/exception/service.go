package exception

import "context"

type ExceptionService interface {
	// Submit queues a request and notifies the admin
	Submit(ctx context.Context, req SubmitRequest) (RequestResponse, error)

	ListPending(ctx context.Context) ([]RequestResponse, error)

	// Resolve applies an admin decision, archives the request and notifies the employee
	Resolve(ctx context.Context, req ReviewRequest) (ReviewResponse, error)

	ListArchive(ctx context.Context, filter ArchiveFilter) ([]ArchiveResponse, error)
}
