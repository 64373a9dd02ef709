package ports

import "context"

// SequenceStore provides atomic read-modify-write on partitioned counters.
// Multi-process deployments must use a transactional backend.
type SequenceStore interface {
	// Increment atomically advances the counter of partition and returns the new value.
	// A partition seen for the first time starts from floor, so the first value is floor+1.
	Increment(ctx context.Context, partition string, floor int64) (int64, error)
	// Current returns the last issued value of partition. found is false for unseen partitions.
	Current(ctx context.Context, partition string) (value int64, found bool, err error)
	// Set overwrites the last issued value of partition, creating it if needed.
	Set(ctx context.Context, partition string, value int64) error
}

// SequenceService issues unique, strictly increasing publishing codes.
type SequenceService interface {
	AllocateNext(ctx context.Context, partition string) (int64, error)
	// PeekNext returns the value the next AllocateNext would return. Best effort under concurrency.
	PeekNext(ctx context.Context, partition string) (int64, error)
	// ResetSequence overwrites the last issued value; the next allocation returns value+1.
	// Bypasses monotonicity and is audited as actorID.
	ResetSequence(ctx context.Context, partition string, value int64, actorID string) error
	// AllocateCode allocates the next value for a 4-digit year partition and formats it.
	AllocateCode(ctx context.Context, year string) (code string, seq int64, err error)
	FormatCode(partition string, seq int64) string
	// ParseCode validates a code produced by FormatCode and returns its parts.
	ParseCode(code string) (partition string, seq int64, err error)
}
