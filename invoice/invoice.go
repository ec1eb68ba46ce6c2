/*
Package invoice builds timesheet/invoice data from computed shifts.

PURPOSE:
  Produces per-shift line items and totals for a job over a date
  range. Output is plain numeric data; rendering (PDF, CSV, screen)
  is a collaborator concern.

TOTALS:
  Subtotal is the sum of cached shift TotalPay (pre-tax). TaxWithheld
  is subtotal minus the summed taxed pay, with tips excluded first -
  tips are never taxed. GrandTotal = subtotal - tax withheld + tips.

SEE ALSO:
  - engine/pay.go: Produces the cached fields consumed here
*/
package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// LINE ITEMS AND INVOICE
// =============================================================================

// LineItem is one shift on the invoice.
type LineItem struct {
	ShiftID     engine.ShiftID
	Date        time.Time
	Description string
	WorkedHours decimal.Decimal
	HourlyRate  decimal.Decimal
	Overtime    bool
	Amount      decimal.Decimal // pre-tax shift total
}

// Invoice is the computed timesheet for one job and range.
type Invoice struct {
	JobID   engine.JobID
	JobName string
	From    time.Time
	To      time.Time

	Lines []LineItem

	WorkedSeconds int64
	Subtotal      decimal.Decimal // pre-tax
	TaxWithheld   decimal.Decimal
	Tips          decimal.Decimal
	GrandTotal    decimal.Decimal // after tax, tips included
}

// =============================================================================
// BUILDER
// =============================================================================

// Build assembles the invoice from completed shifts in [from, to].
// Shifts outside the range, for other jobs, or still active are
// skipped. The cached derived fields on each shift are trusted as-is;
// recompute shifts before invoicing if their inputs changed.
func Build(job engine.Job, shifts []engine.Shift, from, to time.Time) Invoice {
	inv := Invoice{
		JobID:       job.ID,
		JobName:     job.Name,
		From:        from,
		To:          to,
		Subtotal:    decimal.Zero,
		TaxWithheld: decimal.Zero,
		Tips:        decimal.Zero,
		GrandTotal:  decimal.Zero,
	}

	for _, s := range shifts {
		if s.JobID != job.ID || s.End.IsZero() {
			continue
		}
		if s.Start.Before(from) || s.Start.After(to) {
			continue
		}

		desc := job.Name
		if s.Notes != "" {
			desc = s.Notes
		}
		inv.Lines = append(inv.Lines, LineItem{
			ShiftID:     s.ID,
			Date:        engine.DayOf(s.Start),
			Description: desc,
			WorkedHours: engine.Round2(engine.HoursFromSeconds(s.DurationSeconds)),
			HourlyRate:  s.HourlyPay,
			Overtime:    s.Overtime.Enabled && s.DurationSeconds > s.Overtime.AppliedAfter,
			Amount:      s.TotalPay,
		})

		inv.WorkedSeconds += s.DurationSeconds
		inv.Subtotal = inv.Subtotal.Add(s.TotalPay)

		afterTax := s.TaxedPay
		if s.AddTipsToTotal {
			// TaxedPay includes untaxed tips; strip them to isolate tax.
			afterTax = afterTax.Sub(s.Tips)
			inv.Tips = inv.Tips.Add(s.Tips)
		}
		inv.TaxWithheld = inv.TaxWithheld.Add(s.TotalPay.Sub(afterTax))
	}

	inv.TaxWithheld = engine.Round2(inv.TaxWithheld)
	inv.GrandTotal = engine.Round2(inv.Subtotal.Sub(inv.TaxWithheld).Add(inv.Tips))
	return inv
}
