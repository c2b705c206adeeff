package alloc

// Observer receives a callback for every allocator call.
type Observer interface {
	// RecordAllocate is called after each Allocate; err is nil on success.
	RecordAllocate(size int, err error)
	// RecordDeallocate is called after each Deallocate.
	RecordDeallocate(size int)
}

type observed struct {
	next Allocator
	obs  Observer
}

// Observe wraps a so that every call is reported to obs.
// A nil obs returns a, or the default allocator when a is nil.
func Observe(a Allocator, obs Observer) Allocator {
	if obs == nil {
		return OrDefault(a)
	}
	return &observed{next: OrDefault(a), obs: obs}
}

func (o *observed) Allocate(size int) error {
	err := o.next.Allocate(size)
	o.obs.RecordAllocate(size, err)
	return err
}

func (o *observed) Deallocate(size int) {
	o.next.Deallocate(size)
	o.obs.RecordDeallocate(size)
}
