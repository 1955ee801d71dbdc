package ports

import "context"

// Transactor groups multi-document mutations. Implementations backed by a
// store without transactions run fn directly; writes already made when fn
// fails are then kept.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
