/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ENCODING:
  Money values are serialized as decimal strings ("160.00"), never
  floats, so clients keep exact cents.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/job.go: JobJSON config type
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// JOBS
// =============================================================================

// JobDTO represents a job in API responses.
type JobDTO struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Title      string         `json:"title,omitempty"`
	HourlyPay  string         `json:"hourly_pay"`
	TaxPercent string         `json:"tax_percent"`
	Overtime   *OvertimeDTO   `json:"overtime,omitempty"`
	PayPeriods *PayPeriodsDTO `json:"pay_periods,omitempty"`
	ColorHex   string         `json:"color_hex,omitempty"`
	Icon       string         `json:"icon,omitempty"`
	CreatedAt  string         `json:"created_at,omitempty"`
}

type OvertimeDTO struct {
	Enabled           bool    `json:"enabled"`
	Rate              string  `json:"rate,omitempty"`
	AppliedAfterHours float64 `json:"applied_after_hours,omitempty"`
}

type PayPeriodsDTO struct {
	Enabled       bool   `json:"enabled"`
	DurationDays  int    `json:"duration_days,omitempty"`
	LastPeriodEnd string `json:"last_period_end,omitempty"`
}

func jobToDTO(j engine.Job) JobDTO {
	dto := JobDTO{
		ID:         string(j.ID),
		Name:       j.Name,
		Title:      j.Title,
		HourlyPay:  j.HourlyPay.StringFixed(2),
		TaxPercent: j.TaxPercent.String(),
		ColorHex:   j.ColorHex,
		Icon:       j.Icon,
	}
	if !j.CreatedAt.IsZero() {
		dto.CreatedAt = j.CreatedAt.Format(time.RFC3339)
	}
	if j.Overtime.Enabled {
		dto.Overtime = &OvertimeDTO{
			Enabled:           true,
			Rate:              j.Overtime.Rate.String(),
			AppliedAfterHours: float64(j.Overtime.AppliedAfter) / 3600,
		}
	}
	if j.PayPeriods.Enabled {
		dto.PayPeriods = &PayPeriodsDTO{
			Enabled:       true,
			DurationDays:  j.PayPeriods.DurationDays,
			LastPeriodEnd: j.PayPeriods.LastPeriodEnd.Format("2006-01-02"),
		}
	}
	return dto
}

// =============================================================================
// SHIFTS
// =============================================================================

// CreateShiftRequest is the request to record a shift.
type CreateShiftRequest struct {
	Start             string         `json:"start"` // RFC3339
	End               string         `json:"end"`
	HourlyPay         *float64       `json:"hourly_pay,omitempty"` // default: job rate
	Multiplier        float64        `json:"multiplier,omitempty"`
	MultiplierEnabled bool           `json:"multiplier_enabled,omitempty"`
	TaxPercent        *float64       `json:"tax_percent,omitempty"` // default: job rate
	Tips              float64        `json:"tips,omitempty"`
	AddTipsToTotal    bool           `json:"add_tips_to_total,omitempty"`
	Notes             string         `json:"notes,omitempty"`
	Tags              []string       `json:"tags,omitempty"`
	Breaks            []BreakRequest `json:"breaks,omitempty"`
}

// BreakRequest is one break inside a shift.
type BreakRequest struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Unpaid bool   `json:"unpaid"`
}

// ShiftDTO represents a computed shift in API responses.
type ShiftDTO struct {
	ID            string     `json:"id"`
	JobID         string     `json:"job_id"`
	Start         string     `json:"start"`
	End           string     `json:"end"`
	HourlyPay     string     `json:"hourly_pay"`
	TotalPay      string     `json:"total_pay"`
	TaxedPay      string     `json:"taxed_pay"`
	Tips          string     `json:"tips,omitempty"`
	Duration      string     `json:"duration"` // display string, e.g. "7h 30m"
	WorkedSeconds int64      `json:"worked_seconds"`
	BreakSeconds  int64      `json:"break_seconds"`
	Notes         string     `json:"notes,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	Breaks        []BreakDTO `json:"breaks,omitempty"`
	Warnings      []WarningDTO `json:"warnings,omitempty"`
}

type BreakDTO struct {
	ID     string `json:"id"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Unpaid bool   `json:"unpaid"`
}

type WarningDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Ref     string `json:"ref,omitempty"`
}

func warningsToDTO(warnings []engine.Warning) []WarningDTO {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, WarningDTO{Code: string(w.Code), Message: w.Message, Ref: w.Ref})
	}
	return out
}

func shiftToDTO(s engine.Shift, warnings []engine.Warning) ShiftDTO {
	dto := ShiftDTO{
		ID:            string(s.ID),
		JobID:         string(s.JobID),
		Start:         s.Start.Format(time.RFC3339),
		End:           s.End.Format(time.RFC3339),
		HourlyPay:     s.HourlyPay.StringFixed(2),
		TotalPay:      s.TotalPay.StringFixed(2),
		TaxedPay:      s.TaxedPay.StringFixed(2),
		Duration:      engine.FormatSeconds(s.DurationSeconds),
		WorkedSeconds: s.DurationSeconds,
		BreakSeconds:  s.BreakSeconds,
		Notes:         s.Notes,
		Tags:          s.Tags,
		Warnings:      warningsToDTO(warnings),
	}
	if s.Tips.IsPositive() {
		dto.Tips = s.Tips.StringFixed(2)
	}
	for _, b := range s.Breaks {
		dto.Breaks = append(dto.Breaks, BreakDTO{
			ID:     b.ID,
			Start:  b.Start.Format(time.RFC3339),
			End:    b.End.Format(time.RFC3339),
			Unpaid: b.Unpaid,
		})
	}
	return dto
}

// =============================================================================
// PAY PERIODS
// =============================================================================

// PayPeriodDTO represents one period window with its accumulators.
type PayPeriodDTO struct {
	ID           string `json:"id"`
	JobID        string `json:"job_id"`
	Start        string `json:"start"`
	End          string `json:"end"`
	ShiftCount   int    `json:"shift_count"`
	TotalPay     string `json:"total_pay"`
	TotalHours   string `json:"total_hours"`
	TotalSeconds int64  `json:"total_seconds"`
}

func periodToDTO(p engine.PayPeriod) PayPeriodDTO {
	return PayPeriodDTO{
		ID:           string(p.ID),
		JobID:        string(p.JobID),
		Start:        p.Start.Format("2006-01-02"),
		End:          p.End.Format("2006-01-02"),
		ShiftCount:   p.ShiftCount,
		TotalPay:     p.TotalPay.StringFixed(2),
		TotalHours:   engine.FormatHours(p.TotalSeconds),
		TotalSeconds: p.TotalSeconds,
	}
}

// EnsureCoverageRequest extends period coverage through a date.
type EnsureCoverageRequest struct {
	Through string `json:"through"` // YYYY-MM-DD
}

// RecomputeRequest triggers a period accumulator recompute.
type RecomputeRequest struct {
	LegacyAccumulate bool `json:"legacy_accumulate,omitempty"`
}

// RecomputeResponse reports the recompute outcome.
type RecomputeResponse struct {
	Periods    []PayPeriodDTO `json:"periods"`
	Assigned   int            `json:"assigned"`
	Unassigned []string       `json:"unassigned,omitempty"`
	Warnings   []WarningDTO   `json:"warnings,omitempty"`
}

// =============================================================================
// SCHEDULED SHIFTS
// =============================================================================

// CreateScheduleRequest creates a scheduled shift, optionally repeating.
type CreateScheduleRequest struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	NotifyMe       bool   `json:"notify_me,omitempty"`
	ReminderMins   int    `json:"reminder_minutes,omitempty"`
	SyncToCalendar bool   `json:"sync_to_calendar,omitempty"`

	Repeat *RepeatRuleRequest `json:"repeat,omitempty"`
}

type RepeatRuleRequest struct {
	Cadence      string `json:"cadence"` // daily, weekly, biweekly, monthly
	Until        string `json:"until,omitempty"`
	MaxInstances int    `json:"max_instances,omitempty"`
}

// ScheduledShiftDTO represents a scheduled shift instance.
type ScheduledShiftDTO struct {
	ID              string `json:"id"`
	JobID           string `json:"job_id"`
	Start           string `json:"start"`
	End             string `json:"end"`
	RepeatID        string `json:"repeat_id,omitempty"`
	Repeating       bool   `json:"repeating"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
	NotifyMe        bool   `json:"notify_me"`
}

func scheduledToDTO(s engine.ScheduledShift) ScheduledShiftDTO {
	return ScheduledShiftDTO{
		ID:              string(s.ID),
		JobID:           string(s.JobID),
		Start:           s.Start.Format(time.RFC3339),
		End:             s.End.Format(time.RFC3339),
		RepeatID:        s.RepeatID,
		Repeating:       s.Repeating,
		CalendarEventID: s.CalendarEventID,
		NotifyMe:        s.NotifyMe,
	}
}

// CancelSeriesResponse reports a series cancellation.
type CancelSeriesResponse struct {
	Removed  int          `json:"removed"`
	Warnings []WarningDTO `json:"warnings,omitempty"`
}

// =============================================================================
// STATS
// =============================================================================

// StatsBucketDTO is one aggregation slot.
type StatsBucketDTO struct {
	Start         string `json:"start"`
	Label         string `json:"label"`
	ShiftCount    int    `json:"shift_count"`
	TotalPay      string `json:"total_pay"`
	TaxedPay      string `json:"taxed_pay"`
	WorkedHours   string `json:"worked_hours"`
	WorkedSeconds int64  `json:"worked_seconds"`
	BreakSeconds  int64  `json:"break_seconds"`
}

// StatsDTO is the aggregation report.
type StatsDTO struct {
	From          string           `json:"from"`
	To            string           `json:"to"`
	Buckets       []StatsBucketDTO `json:"buckets"`
	ShiftCount    int              `json:"shift_count"`
	TotalPay      string           `json:"total_pay"`
	TaxedPay      string           `json:"taxed_pay"`
	WorkedHours   string           `json:"worked_hours"`
	WorkedSeconds int64            `json:"worked_seconds"`
	BreakSeconds  int64            `json:"break_seconds"`
}

func statsToDTO(r engine.StatsReport, from, to time.Time) StatsDTO {
	dto := StatsDTO{
		From:          from.Format(time.RFC3339),
		To:            to.Format(time.RFC3339),
		ShiftCount:    r.ShiftCount,
		TotalPay:      r.TotalPay.StringFixed(2),
		TaxedPay:      r.TaxedPay.StringFixed(2),
		WorkedHours:   engine.FormatHours(r.WorkedSeconds),
		WorkedSeconds: r.WorkedSeconds,
		BreakSeconds:  r.BreakSeconds,
	}
	for _, b := range r.Buckets {
		dto.Buckets = append(dto.Buckets, StatsBucketDTO{
			Start:         b.Start.Format("2006-01-02"),
			Label:         b.Label,
			ShiftCount:    b.ShiftCount,
			TotalPay:      b.TotalPay.StringFixed(2),
			TaxedPay:      b.TaxedPay.StringFixed(2),
			WorkedHours:   engine.FormatHours(b.WorkedSeconds),
			WorkedSeconds: b.WorkedSeconds,
			BreakSeconds:  b.BreakSeconds,
		})
	}
	return dto
}

// =============================================================================
// INVOICE
// =============================================================================

// InvoiceLineDTO is one shift on the invoice.
type InvoiceLineDTO struct {
	ShiftID     string `json:"shift_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	WorkedHours string `json:"worked_hours"`
	HourlyRate  string `json:"hourly_rate"`
	Overtime    bool   `json:"overtime,omitempty"`
	Amount      string `json:"amount"`
}

// InvoiceDTO is the computed timesheet for a job and range.
type InvoiceDTO struct {
	JobID       string           `json:"job_id"`
	JobName     string           `json:"job_name"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	Lines       []InvoiceLineDTO `json:"lines"`
	WorkedHours string           `json:"worked_hours"`
	Subtotal    string           `json:"subtotal"`
	TaxWithheld string           `json:"tax_withheld"`
	Tips        string           `json:"tips"`
	GrandTotal  string           `json:"grand_total"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorDTO is the JSON error envelope.
type ErrorDTO struct {
	Error string `json:"error"`
}

// money formats a decimal for API output.
func money(d decimal.Decimal) string { return d.StringFixed(2) }
