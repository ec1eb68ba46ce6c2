/*
Package factory provides JSON to Go job-configuration conversion.

PURPOSE:
  Converts JSON job definitions into engine.Job records with validated
  pay, overtime, and pay-period configuration. This keeps job setup
  data-driven: clients POST a JSON config, the factory clamps and
  defaults it.

JSON SCHEMA:
  {
    "id": "job-cafe",
    "name": "Cafe",
    "title": "Barista",
    "hourly_pay": 20.0,
    "tax_percent": 10,
    "overtime": {
      "enabled": true,
      "rate": 1.5,
      "applied_after_hours": 8
    },
    "pay_periods": {
      "enabled": true,
      "duration_days": 14,
      "last_period_end": "2026-08-15"
    },
    "color_hex": "#4A90D9",
    "icon": "cup.and.saucer"
  }

VALIDATION:
  - hourly_pay must be >= 0
  - tax_percent clamped to [0, 50]
  - overtime rate clamped to [1.25, 3.0]
  - pay period duration_days must be positive when enabled

USAGE:
  job, err := factory.ParseJob(jsonString)

SEE ALSO:
  - engine/types.go: Job record definition
*/
package factory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// JobJSON is the JSON representation of a job configuration.
type JobJSON struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Title      string          `json:"title,omitempty"`
	HourlyPay  float64         `json:"hourly_pay"`
	TaxPercent float64         `json:"tax_percent,omitempty"`
	Overtime   *OvertimeJSON   `json:"overtime,omitempty"`
	PayPeriods *PayPeriodsJSON `json:"pay_periods,omitempty"`
	ColorHex   string          `json:"color_hex,omitempty"`
	Icon       string          `json:"icon,omitempty"`
}

// OvertimeJSON represents overtime configuration.
type OvertimeJSON struct {
	Enabled           bool    `json:"enabled"`
	Rate              float64 `json:"rate,omitempty"`
	AppliedAfterHours float64 `json:"applied_after_hours,omitempty"`
}

// PayPeriodsJSON represents the pay-period schedule.
type PayPeriodsJSON struct {
	Enabled       bool   `json:"enabled"`
	DurationDays  int    `json:"duration_days,omitempty"`
	LastPeriodEnd string `json:"last_period_end,omitempty"` // YYYY-MM-DD
}

// =============================================================================
// PARSING
// =============================================================================

// ParseJob converts a JSON job definition into an engine.Job,
// generating an ID when none is given and clamping rates to their
// allowed ranges.
func ParseJob(raw string) (engine.Job, error) {
	var cfg JobJSON
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return engine.Job{}, fmt.Errorf("invalid job config: %w", err)
	}
	return FromConfig(cfg)
}

// FromConfig builds the job from an already-decoded config.
func FromConfig(cfg JobJSON) (engine.Job, error) {
	if cfg.Name == "" {
		return engine.Job{}, fmt.Errorf("job config: name is required")
	}
	if cfg.HourlyPay < 0 {
		return engine.Job{}, fmt.Errorf("job config: hourly_pay must be >= 0")
	}

	id := cfg.ID
	if id == "" {
		id = uuid.NewString()
	}

	job := engine.Job{
		ID:         engine.JobID(id),
		Name:       cfg.Name,
		Title:      cfg.Title,
		HourlyPay:  decimal.NewFromFloat(cfg.HourlyPay),
		TaxPercent: decimal.NewFromFloat(clamp(cfg.TaxPercent, 0, engine.MaxTaxPercent)),
		ColorHex:   cfg.ColorHex,
		Icon:       cfg.Icon,
		CreatedAt:  time.Now().UTC(),
	}

	if cfg.Overtime != nil && cfg.Overtime.Enabled {
		rate := clamp(cfg.Overtime.Rate, engine.MinOvertimeRate, engine.MaxOvertimeRate)
		job.Overtime = engine.OvertimeConfig{
			Enabled:      true,
			Rate:         decimal.NewFromFloat(rate),
			AppliedAfter: int64(cfg.Overtime.AppliedAfterHours * 3600),
		}
	}

	if cfg.PayPeriods != nil && cfg.PayPeriods.Enabled {
		if cfg.PayPeriods.DurationDays <= 0 {
			return engine.Job{}, fmt.Errorf("job config: pay period duration_days must be positive")
		}
		anchor, err := time.Parse("2006-01-02", cfg.PayPeriods.LastPeriodEnd)
		if err != nil {
			return engine.Job{}, fmt.Errorf("job config: last_period_end: %w", err)
		}
		job.PayPeriods = engine.PayPeriodConfig{
			Enabled:       true,
			DurationDays:  cfg.PayPeriods.DurationDays,
			LastPeriodEnd: anchor,
		}
	}

	return job, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// =============================================================================
// PRESETS
// =============================================================================

// HourlyJobJSON returns a minimal hourly job config.
func HourlyJobJSON(id, name string, hourlyPay float64) string {
	b, _ := json.Marshal(JobJSON{ID: id, Name: name, HourlyPay: hourlyPay})
	return string(b)
}

// BiweeklyJobJSON returns a job config with 14-day pay periods and
// standard time-and-a-half overtime after 8 hours.
func BiweeklyJobJSON(id, name string, hourlyPay float64, lastPeriodEnd string) string {
	b, _ := json.Marshal(JobJSON{
		ID:        id,
		Name:      name,
		HourlyPay: hourlyPay,
		Overtime:  &OvertimeJSON{Enabled: true, Rate: 1.5, AppliedAfterHours: 8},
		PayPeriods: &PayPeriodsJSON{
			Enabled:       true,
			DurationDays:  14,
			LastPeriodEnd: lastPeriodEnd,
		},
	})
	return string(b)
}
