package memory

import (
	"context"
	"slices"
	"time"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
)

type exceptionRequestRepository struct {
	store *Store
}

func NewExceptionRequestRepository(store *Store) exception.RequestRepository {
	return &exceptionRequestRepository{store: store}
}

func (r *exceptionRequestRepository) Create(ctx context.Context, req exception.Request) (exception.Request, error) {
	err := r.store.do(ctx, func(st *state) error {
		req.CreatedAt = time.Now()
		st.requests[req.ID] = req
		return nil
	})
	return req, err
}

func (r *exceptionRequestRepository) GetByID(ctx context.Context, id string) (exception.Request, error) {
	var found exception.Request
	err := r.store.do(ctx, func(st *state) error {
		req, ok := st.requests[id]
		if !ok {
			return exception.ErrRequestNotFound
		}
		found = req
		return nil
	})
	return found, err
}

func (r *exceptionRequestRepository) GetForUpdate(ctx context.Context, id string) (exception.Request, error) {
	return r.GetByID(ctx, id)
}

func (r *exceptionRequestRepository) ListPending(ctx context.Context) ([]exception.Request, error) {
	var list []exception.Request
	err := r.store.do(ctx, func(st *state) error {
		for _, req := range st.requests {
			if req.Status == exception.StatusPending {
				list = append(list, req)
			}
		}
		return nil
	})
	slices.SortFunc(list, func(a, b exception.Request) int { return a.AttemptedAt.Compare(b.AttemptedAt) })
	return list, err
}

func (r *exceptionRequestRepository) Delete(ctx context.Context, id string) error {
	return r.store.do(ctx, func(st *state) error {
		if _, ok := st.requests[id]; !ok {
			return exception.ErrRequestNotFound
		}
		delete(st.requests, id)
		return nil
	})
}

type exceptionArchiveRepository struct {
	store *Store
}

func NewExceptionArchiveRepository(store *Store) exception.ArchiveRepository {
	return &exceptionArchiveRepository{store: store}
}

func (r *exceptionArchiveRepository) Create(ctx context.Context, entry exception.ArchiveEntry) (exception.ArchiveEntry, error) {
	err := r.store.do(ctx, func(st *state) error {
		for _, e := range st.archive {
			if e.RequestID == entry.RequestID {
				return exception.ErrAlreadyProcessed
			}
		}
		st.archive[entry.ID] = entry
		return nil
	})
	return entry, err
}

func (r *exceptionArchiveRepository) List(ctx context.Context, filter exception.ArchiveFilter) ([]exception.ArchiveEntry, error) {
	var list []exception.ArchiveEntry
	err := r.store.do(ctx, func(st *state) error {
		for _, e := range st.archive {
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			if filter.EmployeeID != nil && e.EmployeeID != *filter.EmployeeID {
				continue
			}
			list = append(list, e)
		}
		return nil
	})
	slices.SortFunc(list, func(a, b exception.ArchiveEntry) int { return b.ResolvedAt.Compare(a.ResolvedAt) })
	return list, err
}
