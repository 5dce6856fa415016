package repository

import "context"

// Transactor runs fn inside one storage transaction.
// Repositories called with the ctx passed to fn join that transaction.
// Any error returned by fn rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
