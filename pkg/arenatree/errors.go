package arenatree

import (
	"github.com/cockroachdb/errors"
)

// Sentinel errors for the taxonomy described in the design notes: contract
// failures are returned verbatim to the caller, while internal
// inconsistencies are reported as DataIntegrityError rather than silently
// repaired.
var (
	// ErrInvalidCapacity is returned by New/Empty when capacity is below
	// MinCapacity.
	ErrInvalidCapacity = errors.New("arenatree: capacity below minimum")

	// ErrKeyNotFound is returned by MustGet, the strict counterpart of Get,
	// for callers that want a definite result. Permissive variants (Get,
	// GetKeyValue, Remove) return a zero value and false instead.
	ErrKeyNotFound = errors.New("arenatree: key not found")

	// ErrDataIntegrity is the boundary error for internal inconsistencies:
	// a handle resolved to nothing when the tree's own bookkeeping said it
	// should, or a node was found in an impossible shape. It indicates a
	// bug in the engine, not a caller error.
	ErrDataIntegrity = errors.New("arenatree: data integrity violation")
)

// arenaError wraps a handle-resolution failure inside the engine before it
// is mapped to ErrDataIntegrity at the boundary.
type arenaError struct {
	op string
	h  Handle
}

func (e *arenaError) Error() string {
	return errors.Newf("arenatree: arena op %q failed on handle %d", e.op, e.h).Error()
}

// nodeError wraps a node found in a shape the engine did not expect (e.g. a
// branch whose children mix kinds) before it is mapped to ErrDataIntegrity.
type nodeError struct {
	reason string
}

func (e *nodeError) Error() string {
	return errors.Newf("arenatree: node error: %s", e.reason).Error()
}

// integrityFault wraps the immediate cause into ErrDataIntegrity with a
// stack trace attached, for guarded-write post-condition failures.
func integrityFault(cause error) error {
	return errors.Mark(errors.Wrap(cause, "arenatree: internal invariant violated"), ErrDataIntegrity)
}
