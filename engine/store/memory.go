// Package store provides engine.Store implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/shift-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	jobs      map[engine.JobID]engine.Job
	shifts    map[engine.ShiftID]engine.Shift
	periods   map[engine.PeriodID]engine.PayPeriod
	scheduled map[engine.ScheduleID]engine.ScheduledShift
}

func NewMemory() *Memory {
	return &Memory{
		jobs:      make(map[engine.JobID]engine.Job),
		shifts:    make(map[engine.ShiftID]engine.Shift),
		periods:   make(map[engine.PeriodID]engine.PayPeriod),
		scheduled: make(map[engine.ScheduleID]engine.ScheduledShift),
	}
}

// =============================================================================
// JOBS
// =============================================================================

func (m *Memory) SaveJob(_ context.Context, job engine.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *Memory) GetJob(_ context.Context, id engine.JobID) (engine.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return engine.Job{}, engine.ErrJobNotFound
	}
	return job, nil
}

func (m *Memory) ListJobs(_ context.Context) ([]engine.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]engine.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs, nil
}

func (m *Memory) DeleteJob(_ context.Context, id engine.JobID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[id]; !ok {
		return engine.ErrJobNotFound
	}
	delete(m.jobs, id)
	// Cascade.
	for sid, s := range m.shifts {
		if s.JobID == id {
			delete(m.shifts, sid)
		}
	}
	for pid, p := range m.periods {
		if p.JobID == id {
			delete(m.periods, pid)
		}
	}
	for scid, sc := range m.scheduled {
		if sc.JobID == id {
			delete(m.scheduled, scid)
		}
	}
	return nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (m *Memory) SaveShift(_ context.Context, shift engine.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	// Copy the break slice so later caller mutations don't leak in.
	shift.Breaks = append([]engine.Break(nil), shift.Breaks...)
	m.shifts[shift.ID] = shift
	return nil
}

func (m *Memory) GetShift(_ context.Context, id engine.ShiftID) (engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.shifts[id]
	if !ok {
		return engine.Shift{}, engine.ErrShiftNotFound
	}
	return s, nil
}

func (m *Memory) ListShifts(_ context.Context, jobID engine.JobID) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var shifts []engine.Shift
	for _, s := range m.shifts {
		if s.JobID == jobID {
			shifts = append(shifts, s)
		}
	}
	sortShifts(shifts)
	return shifts, nil
}

func (m *Memory) ListShiftsInRange(_ context.Context, from, to time.Time, jobID *engine.JobID) ([]engine.Shift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var shifts []engine.Shift
	for _, s := range m.shifts {
		if jobID != nil && s.JobID != *jobID {
			continue
		}
		if s.Start.Before(from) || s.Start.After(to) {
			continue
		}
		shifts = append(shifts, s)
	}
	sortShifts(shifts)
	return shifts, nil
}

func (m *Memory) DeleteShift(_ context.Context, id engine.ShiftID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[id]; !ok {
		return engine.ErrShiftNotFound
	}
	delete(m.shifts, id)
	return nil
}

func sortShifts(shifts []engine.Shift) {
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })
}

// =============================================================================
// PAY PERIODS
// =============================================================================

func (m *Memory) SavePeriods(_ context.Context, periods []engine.PayPeriod) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range periods {
		m.periods[p.ID] = p
	}
	return nil
}

func (m *Memory) ListPeriods(_ context.Context, jobID engine.JobID) ([]engine.PayPeriod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var periods []engine.PayPeriod
	for _, p := range m.periods {
		if p.JobID == jobID {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Start.Before(periods[j].Start) })
	return periods, nil
}

// =============================================================================
// SCHEDULED SHIFTS
// =============================================================================

func (m *Memory) SaveScheduled(_ context.Context, shifts []engine.ScheduledShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range shifts {
		m.scheduled[s.ID] = s
	}
	return nil
}

func (m *Memory) GetScheduled(_ context.Context, id engine.ScheduleID) (engine.ScheduledShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scheduled[id]
	if !ok {
		return engine.ScheduledShift{}, engine.ErrScheduleNotFound
	}
	return s, nil
}

func (m *Memory) ListScheduled(_ context.Context, jobID engine.JobID) ([]engine.ScheduledShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var shifts []engine.ScheduledShift
	for _, s := range m.scheduled {
		if s.JobID == jobID {
			shifts = append(shifts, s)
		}
	}
	sortScheduled(shifts)
	return shifts, nil
}

func (m *Memory) ListSeries(_ context.Context, repeatID string) ([]engine.ScheduledShift, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var shifts []engine.ScheduledShift
	for _, s := range m.scheduled {
		if s.RepeatID == repeatID {
			shifts = append(shifts, s)
		}
	}
	sortScheduled(shifts)
	return shifts, nil
}

func (m *Memory) DeleteScheduled(_ context.Context, ids []engine.ScheduleID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.scheduled, id)
	}
	return nil
}

func sortScheduled(shifts []engine.ScheduledShift) {
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].Start.Before(shifts[j].Start) })
}
