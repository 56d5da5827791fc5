package database

import "context"

// Transactor runs fn in a single unit of work. Implementations join an
// enclosing unit of work already carried by ctx instead of opening a new one.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
