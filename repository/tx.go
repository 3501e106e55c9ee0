package repository

import "context"

// Transactor runs fn inside a single storage transaction. Repository calls
// made with the context passed to fn join that transaction; returning an
// error rolls everything back.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
