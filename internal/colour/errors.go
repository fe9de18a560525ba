package colour

import (
	"errors"
	"fmt"
)

// ErrInvalidClusterCount is matched by every error caused by asking for a
// colour count that cannot be clustered from the available samples.
var ErrInvalidClusterCount = errors.New("invalid cluster count")

// ClusterCountError reports a requested count outside [1, Available].
type ClusterCountError struct {
	Requested int
	Available int
}

func (e *ClusterCountError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("invalid cluster count %d: no samples available", e.Requested)
	}
	return fmt.Sprintf("invalid cluster count %d: must be between 1 and %d", e.Requested, e.Available)
}

// Is reports whether target is ErrInvalidClusterCount.
func (e *ClusterCountError) Is(target error) bool {
	return target == ErrInvalidClusterCount
}
