package analysis

import "fmt"

// InsufficientDataError is returned for a target whose aligned sample is too
// small to fit. Per-target and recoverable; the batch continues without it.
type InsufficientDataError struct {
	TargetID string
	Aligned  int
	Required int
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient aligned data for %s: %d observation(s), need %d",
		e.TargetID, e.Aligned, e.Required)
}
