package ratings

import "fmt"

// Diagnostic explains why a read fell back to an empty collection.
type Diagnostic struct {
	Slot   string
	Reason string
	Err    error
}

func (d *Diagnostic) String() string {
	if d == nil {
		return ""
	}
	if d.Err != nil {
		return fmt.Sprintf("%s: %s: %v", d.Slot, d.Reason, d.Err)
	}
	return fmt.Sprintf("%s: %s", d.Slot, d.Reason)
}

// Message is the user-facing notice for a degraded read.
func (d *Diagnostic) Message() string {
	if d == nil {
		return ""
	}
	return "Saved ratings could not be read (" + d.Reason + "). Showing none; run `marquee ratings reset` to start over."
}
