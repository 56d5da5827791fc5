// Package memory keeps every repository in process memory. It backs
// PERSISTENCE=memory and the service tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/attendance"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/employee"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/exception"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/leave"
	"github.com/pragyatmika/hrms-backend-go/internal/domain/user"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/database"
)

type state struct {
	admins      map[string]user.Admin
	employees   map[string]employee.Employee
	employeeSeq int64
	attendance  map[string]attendance.Record
	requests    map[string]exception.Request
	archive     map[string]exception.ArchiveEntry
	balances    map[string]leave.Balance
	leaves      map[string]leave.Request
	holidays    map[string]leave.Holiday
}

func newState() *state {
	return &state{
		admins:     make(map[string]user.Admin),
		employees:  make(map[string]employee.Employee),
		attendance: make(map[string]attendance.Record),
		requests:   make(map[string]exception.Request),
		archive:    make(map[string]exception.ArchiveEntry),
		balances:   make(map[string]leave.Balance),
		leaves:     make(map[string]leave.Request),
		holidays:   make(map[string]leave.Holiday),
	}
}

func (s *state) clone() *state {
	return &state{
		admins:      maps.Clone(s.admins),
		employees:   maps.Clone(s.employees),
		employeeSeq: s.employeeSeq,
		attendance:  maps.Clone(s.attendance),
		requests:    maps.Clone(s.requests),
		archive:     maps.Clone(s.archive),
		balances:    maps.Clone(s.balances),
		leaves:      maps.Clone(s.leaves),
		holidays:    maps.Clone(s.holidays),
	}
}

type txKey struct{}

// Store is a single-writer in-memory database. A transaction holds the
// store for its whole duration and is rolled back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) inTx(ctx context.Context) bool {
	held, _ := ctx.Value(txKey{}).(*Store)
	return held == s
}

// do runs fn against the data, joining the transaction carried by ctx.
func (s *Store) do(ctx context.Context, fn func(st *state) error) error {
	if s.inTx(ctx) {
		return fn(s.data)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

type transactor struct {
	store *Store
}

func NewTransactor(store *Store) database.Transactor {
	return &transactor{store: store}
}

// RunInTx implements database.Transactor.
func (t *transactor) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	s := t.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, s))
}
