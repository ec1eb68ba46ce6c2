/*
store.go - Persistence interfaces for engine records

PURPOSE:
  Defines the interface between the computation engine and the
  database. Records are arena-style: keyed by opaque string IDs,
  related by foreign-key fields, never by object references. The
  engine reads collections, computes, and writes back derived state
  (shift pay caches, period accumulators, generated series).

CASCADES:
  A shift owns its breaks: saving a shift replaces its break set,
  deleting a shift deletes its breaks. Deleting a job cascades to its
  shifts, periods, and scheduled shifts.

IMPLEMENTATIONS:
  - engine/store/memory.go: In-memory, for tests and dev
  - store/sqlite/sqlite.go: Production SQLite

SEE ALSO:
  - types.go: Record definitions
*/
package engine

import (
	"context"
	"time"
)

// =============================================================================
// STORE INTERFACES
// =============================================================================

// JobStore persists jobs.
type JobStore interface {
	SaveJob(ctx context.Context, job Job) error
	GetJob(ctx context.Context, id JobID) (Job, error)
	ListJobs(ctx context.Context) ([]Job, error)
	// DeleteJob removes the job and cascades to its shifts, pay
	// periods, and scheduled shifts.
	DeleteJob(ctx context.Context, id JobID) error
}

// ShiftStore persists shifts and their owned breaks.
type ShiftStore interface {
	// SaveShift inserts or replaces the shift, including its break
	// set and cached derived fields.
	SaveShift(ctx context.Context, shift Shift) error
	GetShift(ctx context.Context, id ShiftID) (Shift, error)
	ListShifts(ctx context.Context, jobID JobID) ([]Shift, error)
	// ListShiftsInRange returns shifts starting in [from, to],
	// optionally restricted to one job (nil = all jobs).
	ListShiftsInRange(ctx context.Context, from, to time.Time, jobID *JobID) ([]Shift, error)
	// DeleteShift removes the shift and its breaks.
	DeleteShift(ctx context.Context, id ShiftID) error
}

// PeriodStore persists pay periods and their accumulators.
type PeriodStore interface {
	// SavePeriods inserts or replaces the given periods.
	SavePeriods(ctx context.Context, periods []PayPeriod) error
	ListPeriods(ctx context.Context, jobID JobID) ([]PayPeriod, error)
}

// ScheduleStore persists scheduled shifts.
type ScheduleStore interface {
	SaveScheduled(ctx context.Context, shifts []ScheduledShift) error
	GetScheduled(ctx context.Context, id ScheduleID) (ScheduledShift, error)
	ListScheduled(ctx context.Context, jobID JobID) ([]ScheduledShift, error)
	// ListSeries returns all instances sharing the repeat identifier.
	ListSeries(ctx context.Context, repeatID string) ([]ScheduledShift, error)
	DeleteScheduled(ctx context.Context, ids []ScheduleID) error
}

// Store bundles all persistence concerns.
type Store interface {
	JobStore
	ShiftStore
	PeriodStore
	ScheduleStore
}
