package invoice_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/invoice"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func cafeJob() engine.Job {
	return engine.Job{
		ID:        "job-cafe",
		Name:      "Cafe",
		HourlyPay: decimal.NewFromInt(20),
	}
}

// paidShift builds a completed shift with derived fields already
// computed, the way the store hands them back.
func paidShift(id engine.ShiftID, start time.Time, hours int64, tax float64, tips float64, tipsIncluded bool) engine.Shift {
	s := engine.Shift{
		ID:             id,
		JobID:          "job-cafe",
		Start:          start,
		End:            start.Add(time.Duration(hours) * time.Hour),
		HourlyPay:      decimal.NewFromInt(20),
		TaxPercent:     decimal.NewFromFloat(tax),
		Tips:           decimal.NewFromFloat(tips),
		AddTipsToTotal: tipsIncluded,
	}
	if _, err := engine.RecalculateShift(&s); err != nil {
		panic(err)
	}
	return s
}

func aug(d, hour int) time.Time {
	return time.Date(2026, time.August, d, hour, 0, 0, 0, time.UTC)
}

// =============================================================================
// INVOICE TESTS
// =============================================================================

func TestBuild_SumsLinesAndTotals(t *testing.T) {
	// GIVEN: Two 8h shifts at $20/hr with 10% tax
	// WHEN: Building the invoice over the month
	// THEN: Subtotal 320, tax withheld 32, grand total 288

	shifts := []engine.Shift{
		paidShift("s1", aug(10, 9), 8, 10, 0, false),
		paidShift("s2", aug(12, 9), 8, 10, 0, false),
	}

	inv := invoice.Build(cafeJob(), shifts, aug(1, 0), aug(31, 0))

	require.Len(t, inv.Lines, 2)
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("320.00")), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.TaxWithheld.Equal(decimal.RequireFromString("32.00")), "tax %s", inv.TaxWithheld)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("288.00")), "grand total %s", inv.GrandTotal)
	assert.Equal(t, int64(16*3600), inv.WorkedSeconds)
}

func TestBuild_TipsAddedAfterTax(t *testing.T) {
	// GIVEN: One taxed shift with $50 tips included in the total
	// WHEN: Building the invoice
	// THEN: Tips are carried untaxed into the grand total

	shifts := []engine.Shift{
		paidShift("s1", aug(10, 9), 10, 10, 50, true),
	}

	inv := invoice.Build(cafeJob(), shifts, aug(1, 0), aug(31, 0))

	// Gross 200, tax 20, tips 50: grand total 230.
	assert.True(t, inv.Subtotal.Equal(decimal.RequireFromString("200.00")), "subtotal %s", inv.Subtotal)
	assert.True(t, inv.TaxWithheld.Equal(decimal.RequireFromString("20.00")), "tax %s", inv.TaxWithheld)
	assert.True(t, inv.Tips.Equal(decimal.RequireFromString("50")), "tips %s", inv.Tips)
	assert.True(t, inv.GrandTotal.Equal(decimal.RequireFromString("230.00")), "grand total %s", inv.GrandTotal)
}

func TestBuild_SkipsOutOfScopeShifts(t *testing.T) {
	// GIVEN: Shifts outside the range, for another job, and still active
	// WHEN: Building the invoice
	// THEN: None of them appear

	otherJob := paidShift("other", aug(10, 9), 8, 0, 0, false)
	otherJob.JobID = "job-bar"

	active := engine.Shift{ID: "active", JobID: "job-cafe", Start: aug(12, 9)}

	shifts := []engine.Shift{
		paidShift("early", aug(10, 9), 8, 0, 0, false),
		paidShift("late", time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC), 8, 0, 0, false),
		otherJob,
		active,
	}

	inv := invoice.Build(cafeJob(), shifts, aug(1, 0), aug(31, 0))

	require.Len(t, inv.Lines, 1)
	assert.Equal(t, engine.ShiftID("early"), inv.Lines[0].ShiftID)
}

func TestBuild_LineDescriptionPrefersNotes(t *testing.T) {
	withNotes := paidShift("s1", aug(10, 9), 8, 0, 0, false)
	withNotes.Notes = "Inventory day"
	plain := paidShift("s2", aug(11, 9), 8, 0, 0, false)

	inv := invoice.Build(cafeJob(), []engine.Shift{withNotes, plain}, aug(1, 0), aug(31, 0))

	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Inventory day", inv.Lines[0].Description)
	assert.Equal(t, "Cafe", inv.Lines[1].Description)
}

func TestBuild_FlagsOvertimeLines(t *testing.T) {
	// GIVEN: A 10h shift with overtime after 8h
	// WHEN: Building the invoice
	// THEN: The line is flagged and the amount includes the overtime premium

	s := engine.Shift{
		ID:        "s1",
		JobID:     "job-cafe",
		Start:     aug(10, 8),
		End:       aug(10, 18),
		HourlyPay: decimal.NewFromInt(20),
		Overtime: engine.OvertimeConfig{
			Enabled:      true,
			Rate:         decimal.NewFromFloat(1.5),
			AppliedAfter: 8 * 3600,
		},
	}
	_, err := engine.RecalculateShift(&s)
	require.NoError(t, err)

	inv := invoice.Build(cafeJob(), []engine.Shift{s}, aug(1, 0), aug(31, 0))

	require.Len(t, inv.Lines, 1)
	assert.True(t, inv.Lines[0].Overtime)
	// 8h * 20 + 2h * 20 * 1.5 = 220
	assert.True(t, inv.Lines[0].Amount.Equal(decimal.RequireFromString("220.00")), "amount %s", inv.Lines[0].Amount)
}

func TestBuild_EmptyRange(t *testing.T) {
	inv := invoice.Build(cafeJob(), nil, aug(1, 0), aug(31, 0))
	assert.Empty(t, inv.Lines)
	assert.True(t, inv.GrandTotal.IsZero())
}
