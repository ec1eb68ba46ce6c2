/*
breaks.go - Break aggregation and bounds checking

PURPOSE:
  Sums paid and unpaid break time for a shift and flags breaks that
  fall outside the shift interval. Out-of-bounds breaks are a warning,
  not an error: the caller may still save the shift (the UI warns but
  does not block).

SEE ALSO:
  - pay.go: Consumes UnpaidSeconds to reduce paid time
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// BREAK SUMMARY
// =============================================================================

// BreakSummary is the aggregate result for one shift's breaks.
type BreakSummary struct {
	TotalSeconds  int64
	PaidSeconds   int64
	UnpaidSeconds int64

	// Warnings for breaks whose interval is not a subset of the
	// shift's interval. Non-fatal.
	Warnings []Warning
}

// SummarizeBreaks sums break durations for a shift, partitioned by the
// unpaid flag. A break counts in full even when it is out of bounds;
// the violation is only reported, matching the soft invariant.
func SummarizeBreaks(shiftStart, shiftEnd time.Time, breaks []Break) BreakSummary {
	var sum BreakSummary
	for _, b := range breaks {
		secs := b.Seconds()
		sum.TotalSeconds += secs
		if b.Unpaid {
			sum.UnpaidSeconds += secs
		} else {
			sum.PaidSeconds += secs
		}
		if b.Start.Before(shiftStart) || b.End.After(shiftEnd) {
			sum.Warnings = append(sum.Warnings, Warning{
				Code: WarnBreakOutOfBounds,
				Message: fmt.Sprintf("break [%s, %s] outside shift bounds",
					b.Start.Format(time.RFC3339), b.End.Format(time.RFC3339)),
				Ref: b.ID,
			})
		}
	}
	return sum
}
