package stdkit

import (
	"errors"
	"fmt"

	"github.com/hupe1980/stdkit/alloc"
	"github.com/hupe1980/stdkit/bitvec"
	"github.com/hupe1980/stdkit/ordmap"
)

var (
	// ErrAllocationFailed is returned when an allocator refuses a request.
	ErrAllocationFailed = alloc.ErrAllocationFailed

	// ErrMemoryLimitExceeded is returned when the memory budget would be exceeded.
	ErrMemoryLimitExceeded = alloc.ErrMemoryLimitExceeded

	// ErrRateLimited is returned when the allocation rate budget is exhausted.
	ErrRateLimited = alloc.ErrRateLimited

	// ErrDuplicateKey is returned when an ordered map key is inserted with a different value.
	ErrDuplicateKey = ordmap.ErrDuplicateKey

	// ErrIndexTooLarge is returned when a bit vector would grow past math.MaxUint32 bits.
	ErrIndexTooLarge = bitvec.ErrIndexTooLarge
)

// ErrContainer records which container operation failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrContainer struct {
	Kind string
	Op   string
	cause error
}

func (e *ErrContainer) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.cause)
}

func (e *ErrContainer) Unwrap() error { return e.cause }

func translateError(kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ErrContainer
	if errors.As(err, &ce) {
		return err
	}
	return &ErrContainer{Kind: kind, Op: op, cause: err}
}
