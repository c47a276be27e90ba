package policy

import "fmt"

// ReplacementPolicy selects eviction victims for a fully-associative cache
// and tracks per-way recency. Implementations are pure decision engines:
// they never touch cache storage themselves.
//
// SelectVictim prefers an invalid way when the caller passes validity bits;
// ties between invalid ways break toward the lowest index. When every way is
// valid the policy's own recency state decides.
type ReplacementPolicy interface {
	// Ways returns the number of ways this policy was built for.
	Ways() int
	// SelectVictim returns the way to overwrite. valid must have one bit
	// per way; a nil slice means "treat every way as valid".
	SelectVictim(valid []bool) int
	// NotifyAccess records a touch of way so it becomes the least likely
	// victim on the next selection.
	NotifyAccess(way int)
	// Reset restores the initial recency state.
	Reset()
}

// Kind names a replacement policy implementation.
type Kind string

const (
	KindPseudoLRU Kind = "plru"
	KindLRU       Kind = "lru"
)

// New builds a replacement policy by kind. An empty kind defaults to
// pseudo-LRU when the way count is a power of two, true LRU otherwise.
func New(kind Kind, ways int) (ReplacementPolicy, error) {
	switch kind {
	case KindPseudoLRU:
		return NewPseudoLRU(ways)
	case KindLRU:
		return NewLRU(ways)
	case "":
		if isPowerOfTwo(ways) {
			return NewPseudoLRU(ways)
		}
		return NewLRU(ways)
	default:
		return nil, fmt.Errorf("unknown replacement policy %q", kind)
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// lowestInvalid returns the lowest-indexed invalid way, or -1 when all ways
// are valid (or validity is unknown).
func lowestInvalid(valid []bool, ways int) int {
	if len(valid) != ways {
		return -1
	}
	for way, ok := range valid {
		if !ok {
			return way
		}
	}
	return -1
}
