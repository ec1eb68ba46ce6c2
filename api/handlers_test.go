/*
handlers_test.go - End-to-end tests for the HTTP API

Exercises the full stack: router, handlers, engine, SQLite store.
Each test runs against a fresh in-memory database.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// recordingCalendar captures calendar port calls.
type recordingCalendar struct {
	mu      sync.Mutex
	added   int
	removed []string
}

func (c *recordingCalendar) AddEvent(_ context.Context, _ engine.CalendarEvent) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.added++
	return fmt.Sprintf("cal-%d", c.added), nil
}

func (c *recordingCalendar) RemoveEvent(_ context.Context, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, eventID)
	return nil
}

type testEnv struct {
	router   http.Handler
	store    *sqlite.Store
	calendar *recordingCalendar
}

func newTestEnv(t *testing.T) *testEnv {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	calendar := &recordingCalendar{}
	h := NewHandler(store, LogNotifier{}, calendar)
	return &testEnv{router: NewRouter(h), store: store, calendar: calendar}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s = %d, want %d (body: %s)", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return v
}

const cafeJobJSON = `{
	"id": "job-cafe",
	"name": "Cafe",
	"hourly_pay": 20,
	"tax_percent": 10,
	"overtime": {"enabled": true, "rate": 1.5, "applied_after_hours": 8},
	"pay_periods": {"enabled": true, "duration_days": 14, "last_period_end": "2026-08-15"}
}`

func (e *testEnv) createCafeJob(t *testing.T) {
	t.Helper()
	e.do(t, "POST", "/api/jobs", cafeJobJSON, http.StatusCreated)
}

// =============================================================================
// JOB ENDPOINTS
// =============================================================================

func TestAPI_CreateAndGetJob(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "GET", "/api/jobs/job-cafe", nil, http.StatusOK)
	job := decode[JobDTO](t, rec)
	if job.Name != "Cafe" || job.HourlyPay != "20.00" {
		t.Errorf("job = %+v, want Cafe at 20.00", job)
	}
	if job.Overtime == nil || job.PayPeriods == nil {
		t.Error("overtime and pay periods sections missing")
	}
}

func TestAPI_CreateJob_InvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "POST", "/api/jobs", `{"hourly_pay": 20}`, http.StatusBadRequest)
	e := decode[ErrorDTO](t, rec)
	if e.Error == "" {
		t.Error("expected an error message")
	}
}

func TestAPI_GetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/api/jobs/nope", nil, http.StatusNotFound)
}

// =============================================================================
// SHIFT ENDPOINTS
// =============================================================================

func TestAPI_CreateShift_ComputesPay(t *testing.T) {
	// GIVEN: A cafe job with 10% tax
	// WHEN: Recording an 8h shift with a 30m unpaid break
	// THEN: Pay reflects 7.5h at the job rate, taxed

	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
		Breaks: []BreakRequest{
			{Start: "2026-08-10T12:00:00Z", End: "2026-08-10T12:30:00Z", Unpaid: true},
		},
	}, http.StatusCreated)

	shift := decode[ShiftDTO](t, rec)
	if shift.TotalPay != "150.00" {
		t.Errorf("TotalPay = %s, want 150.00", shift.TotalPay)
	}
	if shift.TaxedPay != "135.00" {
		t.Errorf("TaxedPay = %s, want 135.00", shift.TaxedPay)
	}
	if shift.Duration != "7h 30m" {
		t.Errorf("Duration = %s, want 7h 30m", shift.Duration)
	}
}

func TestAPI_CreateShift_OvertimeAndTips(t *testing.T) {
	// 10h at $20, overtime 1.5x after 8h: 160 + 60 = 220 gross.
	// 10% tax: 198. Tips $30 added after tax: 228.
	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start:          "2026-08-10T08:00:00Z",
		End:            "2026-08-10T18:00:00Z",
		Tips:           30,
		AddTipsToTotal: true,
	}, http.StatusCreated)

	shift := decode[ShiftDTO](t, rec)
	if shift.TotalPay != "220.00" {
		t.Errorf("TotalPay = %s, want 220.00", shift.TotalPay)
	}
	if shift.TaxedPay != "228.00" {
		t.Errorf("TaxedPay = %s, want 228.00", shift.TaxedPay)
	}
}

func TestAPI_CreateShift_InvalidDuration(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T17:00:00Z",
		End:   "2026-08-10T09:00:00Z",
	}, http.StatusBadRequest)
}

func TestAPI_CreateShift_OutOfBoundsBreakWarns(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
		Breaks: []BreakRequest{
			{Start: "2026-08-10T08:00:00Z", End: "2026-08-10T09:30:00Z", Unpaid: true},
		},
	}, http.StatusCreated)

	shift := decode[ShiftDTO](t, rec)
	if len(shift.Warnings) != 1 || shift.Warnings[0].Code != string(engine.WarnBreakOutOfBounds) {
		t.Errorf("warnings = %+v, want one break_out_of_bounds", shift.Warnings)
	}
}

func TestAPI_UpdateAndDeleteShift(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
	}, http.StatusCreated)
	created := decode[ShiftDTO](t, rec)

	// Shorten the shift; pay follows.
	rec = env.do(t, "PUT", "/api/shifts/"+created.ID, CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T13:00:00Z",
	}, http.StatusOK)
	updated := decode[ShiftDTO](t, rec)
	if updated.TotalPay != "80.00" {
		t.Errorf("TotalPay after edit = %s, want 80.00", updated.TotalPay)
	}

	env.do(t, "DELETE", "/api/shifts/"+created.ID, nil, http.StatusNoContent)
	env.do(t, "GET", "/api/shifts/"+created.ID, nil, http.StatusNotFound)
}

// =============================================================================
// PAY PERIOD ENDPOINTS
// =============================================================================

func TestAPI_PeriodCoverageAndRecompute(t *testing.T) {
	// GIVEN: Coverage through September and one August shift
	// WHEN: Recomputing
	// THEN: The covering window carries the shift's totals

	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/periods/coverage",
		EnsureCoverageRequest{Through: "2026-09-10"}, http.StatusCreated)
	created := decode[[]PayPeriodDTO](t, rec)
	if len(created) != 3 {
		t.Fatalf("created %d periods, want 3", len(created))
	}

	env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
	}, http.StatusCreated)

	rec = env.do(t, "POST", "/api/jobs/job-cafe/periods/recompute", nil, http.StatusOK)
	resp := decode[RecomputeResponse](t, rec)
	if resp.Assigned != 1 {
		t.Fatalf("Assigned = %d, want 1", resp.Assigned)
	}

	rec = env.do(t, "GET", "/api/jobs/job-cafe/periods", nil, http.StatusOK)
	periods := decode[[]PayPeriodDTO](t, rec)
	var hit *PayPeriodDTO
	for i := range periods {
		if periods[i].ShiftCount > 0 {
			hit = &periods[i]
		}
	}
	if hit == nil {
		t.Fatal("no period accumulated the shift")
	}
	if hit.TotalPay != "160.00" || hit.Start != "2026-08-02" {
		t.Errorf("period = %+v, want 160.00 in the window starting 2026-08-02", hit)
	}
}

func TestAPI_RecomputeReportsUncoveredShifts(t *testing.T) {
	// No coverage requested; the shift has nowhere to land.
	env := newTestEnv(t)
	env.createCafeJob(t)

	env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
	}, http.StatusCreated)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/periods/recompute", nil, http.StatusOK)
	resp := decode[RecomputeResponse](t, rec)
	if resp.Assigned != 0 || len(resp.Unassigned) != 1 {
		t.Errorf("resp = %+v, want one unassigned shift", resp)
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != string(engine.WarnNoPeriodCoverage) {
		t.Errorf("warnings = %+v, want one no_period_coverage", resp.Warnings)
	}
}

func TestAPI_Coverage_PeriodsDisabled(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "POST", "/api/jobs", `{"id": "job-bar", "name": "Bar", "hourly_pay": 15}`, http.StatusCreated)

	env.do(t, "POST", "/api/jobs/job-bar/periods/coverage",
		EnsureCoverageRequest{Through: "2026-09-10"}, http.StatusBadRequest)
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

func TestAPI_CreateRepeatingSchedule(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/schedule", CreateScheduleRequest{
		Start:          "2026-09-07T09:00:00Z",
		End:            "2026-09-07T17:00:00Z",
		SyncToCalendar: true,
		Repeat: &RepeatRuleRequest{
			Cadence:      "weekly",
			MaxInstances: 4,
		},
	}, http.StatusCreated)

	series := decode[[]ScheduledShiftDTO](t, rec)
	if len(series) != 4 {
		t.Fatalf("got %d instances, want 4", len(series))
	}
	if series[0].RepeatID == "" || series[0].RepeatID != series[3].RepeatID {
		t.Error("instances must share a repeat ID")
	}
	for i, inst := range series {
		if inst.CalendarEventID == "" {
			t.Errorf("instance %d not mirrored to the calendar", i)
		}
	}
	if env.calendar.added != 4 {
		t.Errorf("calendar AddEvent called %d times, want 4", env.calendar.added)
	}
}

func TestAPI_CancelSeriesFromAnchor(t *testing.T) {
	// GIVEN: A 4-instance weekly series mirrored to the calendar
	// WHEN: Cancelling from the third instance's start
	// THEN: Two removed, their calendar events deleted, past kept

	env := newTestEnv(t)
	env.createCafeJob(t)

	rec := env.do(t, "POST", "/api/jobs/job-cafe/schedule", CreateScheduleRequest{
		Start:          "2026-09-07T09:00:00Z",
		End:            "2026-09-07T17:00:00Z",
		SyncToCalendar: true,
		Repeat:         &RepeatRuleRequest{Cadence: "weekly", MaxInstances: 4},
	}, http.StatusCreated)
	series := decode[[]ScheduledShiftDTO](t, rec)

	path := fmt.Sprintf("/api/schedule/series/%s?from=%s", series[0].RepeatID, "2026-09-21T09:00:00Z")
	rec = env.do(t, "DELETE", path, nil, http.StatusOK)
	resp := decode[CancelSeriesResponse](t, rec)
	if resp.Removed != 2 {
		t.Errorf("Removed = %d, want 2", resp.Removed)
	}
	if len(env.calendar.removed) != 2 {
		t.Errorf("calendar RemoveEvent called %d times, want 2", len(env.calendar.removed))
	}

	rec = env.do(t, "GET", "/api/jobs/job-cafe/schedule", nil, http.StatusOK)
	remaining := decode[[]ScheduledShiftDTO](t, rec)
	if len(remaining) != 2 {
		t.Errorf("remaining = %d instances, want 2", len(remaining))
	}
}

func TestAPI_CancelSeries_UnknownID_WarnsOK(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "DELETE", "/api/schedule/series/no-such-series", nil, http.StatusOK)
	resp := decode[CancelSeriesResponse](t, rec)
	if resp.Removed != 0 || len(resp.Warnings) != 1 {
		t.Errorf("resp = %+v, want zero removed with a warning", resp)
	}
}

// =============================================================================
// INVOICE ENDPOINT
// =============================================================================

func TestAPI_Invoice(t *testing.T) {
	env := newTestEnv(t)
	env.createCafeJob(t)

	env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-10T09:00:00Z",
		End:   "2026-08-10T17:00:00Z",
	}, http.StatusCreated)
	env.do(t, "POST", "/api/jobs/job-cafe/shifts", CreateShiftRequest{
		Start: "2026-08-12T09:00:00Z",
		End:   "2026-08-12T17:00:00Z",
	}, http.StatusCreated)

	rec := env.do(t, "GET", "/api/jobs/job-cafe/invoice?from=2026-08-01&to=2026-08-31", nil, http.StatusOK)
	inv := decode[InvoiceDTO](t, rec)
	if len(inv.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(inv.Lines))
	}
	if inv.Subtotal != "320.00" {
		t.Errorf("Subtotal = %s, want 320.00", inv.Subtotal)
	}
	// 10% tax on 320.
	if inv.TaxWithheld != "32.00" || inv.GrandTotal != "288.00" {
		t.Errorf("tax/total = %s/%s, want 32.00/288.00", inv.TaxWithheld, inv.GrandTotal)
	}
}

// =============================================================================
// STATS ENDPOINT
// =============================================================================

func TestAPI_Stats_UnknownJobFilter(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/api/stats?job=nope", nil, http.StatusNotFound)
}

func TestAPI_Stats_EmptyRange(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, "GET", "/api/stats?range=week", nil, http.StatusOK)
	stats := decode[StatsDTO](t, rec)
	if stats.ShiftCount != 0 || len(stats.Buckets) != 0 {
		t.Errorf("stats = %+v, want empty", stats)
	}
}

// =============================================================================
// HEALTH
// =============================================================================

func TestAPI_Health(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/api/health", nil, http.StatusOK)
}
