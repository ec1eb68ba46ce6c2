/*
handlers.go - HTTP API handlers for the shift engine

PURPOSE:
  Exposes the pay/scheduling engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to engine logic.

ENDPOINTS:
  Jobs:
    GET    /api/jobs                     List jobs
    POST   /api/jobs                     Create job from JSON config
    GET    /api/jobs/{id}                Get job
    DELETE /api/jobs/{id}                Delete job (cascades)

  Shifts:
    GET    /api/jobs/{id}/shifts         List shifts for a job
    POST   /api/jobs/{id}/shifts         Record a shift (computes pay)
    GET    /api/shifts/{id}              Get shift
    PUT    /api/shifts/{id}              Edit shift (recomputes pay)
    DELETE /api/shifts/{id}              Delete shift (cascades breaks)

  Pay periods:
    GET    /api/jobs/{id}/periods        List periods
    POST   /api/jobs/{id}/periods/coverage   Extend coverage through a date
    POST   /api/jobs/{id}/periods/recompute  Recompute accumulators

  Schedule:
    GET    /api/jobs/{id}/schedule       List scheduled shifts
    POST   /api/jobs/{id}/schedule       Create (optionally repeating)
    DELETE /api/schedule/series/{repeatID}?from=RFC3339  Cancel series

  Reports:
    GET    /api/stats?range=&bucket=&job=
    GET    /api/jobs/{id}/invoice?from=&to=

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call engine logic (pay, periods, recurrence, stats)
  4. Persist results, serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors
  Expected edge cases (out-of-bounds breaks, missing coverage,
  unknown series) are 200 responses carrying warnings.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/invoice"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. Store and ports
// are interfaces so tests can swap in memory implementations.
type Handler struct {
	Store    engine.Store
	Notifier engine.NotificationPort
	Calendar engine.CalendarPort
}

// NewHandler creates a new handler with the given dependencies.
func NewHandler(store engine.Store, notifier engine.NotificationPort, calendar engine.CalendarPort) *Handler {
	return &Handler{Store: store, Notifier: notifier, Calendar: calendar}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, ErrorDTO{Error: fmt.Sprintf(format, args...)})
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "%v", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, "%v", err)
	default:
		writeError(w, http.StatusInternalServerError, "%v", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return false
	}
	return true
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// =============================================================================
// JOB HANDLERS
// =============================================================================

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Store.ListJobs(r.Context())
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]JobDTO, 0, len(jobs))
	for _, j := range jobs {
		dtos = append(dtos, jobToDTO(j))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body: %v", err)
		return
	}
	job, err := factory.ParseJob(string(body))
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}
	if err := h.Store.SaveJob(r.Context(), job); err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, jobToDTO(job))
}

func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Store.GetJob(r.Context(), engine.JobID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, jobToDTO(job))
}

func (h *Handler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteJob(r.Context(), engine.JobID(chi.URLParam(r, "id"))); err != nil {
		writeEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SHIFT HANDLERS
// =============================================================================

func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListShifts(r.Context(), engine.JobID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]ShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		dtos = append(dtos, shiftToDTO(s, nil))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	jobID := engine.JobID(chi.URLParam(r, "id"))
	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var req CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shift, err := h.shiftFromRequest(job, engine.ShiftID(uuid.NewString()), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	result, err := engine.RecalculateShift(&shift)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeEngineError(w, err)
		return
	}
	h.refreshPeriods(r, job)

	writeJSON(w, http.StatusCreated, shiftToDTO(shift, result.Warnings))
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift, err := h.Store.GetShift(r.Context(), engine.ShiftID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shiftToDTO(shift, nil))
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := engine.ShiftID(chi.URLParam(r, "id"))
	existing, err := h.Store.GetShift(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	job, err := h.Store.GetJob(r.Context(), existing.JobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var req CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shift, err := h.shiftFromRequest(job, id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	result, err := engine.RecalculateShift(&shift)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Store.SaveShift(r.Context(), shift); err != nil {
		writeEngineError(w, err)
		return
	}
	h.refreshPeriods(r, job)

	writeJSON(w, http.StatusOK, shiftToDTO(shift, result.Warnings))
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := engine.ShiftID(chi.URLParam(r, "id"))
	shift, err := h.Store.GetShift(r.Context(), id)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := h.Store.DeleteShift(r.Context(), id); err != nil {
		writeEngineError(w, err)
		return
	}
	if job, err := h.Store.GetJob(r.Context(), shift.JobID); err == nil {
		h.refreshPeriods(r, job)
	}
	w.WriteHeader(http.StatusNoContent)
}

// shiftFromRequest builds a shift record from the request, falling
// back to the job's rates where the request omits them.
func (h *Handler) shiftFromRequest(job engine.Job, id engine.ShiftID, req CreateShiftRequest) (engine.Shift, error) {
	start, err := parseRFC3339(req.Start)
	if err != nil {
		return engine.Shift{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseRFC3339(req.End)
	if err != nil {
		return engine.Shift{}, fmt.Errorf("end: %w", err)
	}

	hourly := job.HourlyPay
	if req.HourlyPay != nil {
		hourly = decimal.NewFromFloat(*req.HourlyPay)
	}
	tax := job.TaxPercent
	if req.TaxPercent != nil {
		tax = decimal.NewFromFloat(*req.TaxPercent)
	}

	shift := engine.Shift{
		ID:                id,
		JobID:             job.ID,
		Start:             start,
		End:               end,
		HourlyPay:         hourly,
		Multiplier:        decimal.NewFromFloat(req.Multiplier),
		MultiplierEnabled: req.MultiplierEnabled,
		Overtime:          job.Overtime,
		TaxPercent:        tax,
		Tips:              decimal.NewFromFloat(req.Tips),
		AddTipsToTotal:    req.AddTipsToTotal,
		Notes:             req.Notes,
		Tags:              req.Tags,
	}

	for _, b := range req.Breaks {
		bs, err := parseRFC3339(b.Start)
		if err != nil {
			return engine.Shift{}, fmt.Errorf("break start: %w", err)
		}
		be, err := parseRFC3339(b.End)
		if err != nil {
			return engine.Shift{}, fmt.Errorf("break end: %w", err)
		}
		shift.Breaks = append(shift.Breaks, engine.Break{
			ID:     uuid.NewString(),
			Start:  bs,
			End:    be,
			Unpaid: b.Unpaid,
		})
	}
	return shift, nil
}

// refreshPeriods recomputes the job's period accumulators after a
// shift change. Best effort: shifts are already saved, a failed
// recompute only delays the rollup until the next change.
func (h *Handler) refreshPeriods(r *http.Request, job engine.Job) {
	if !job.PayPeriods.Enabled {
		return
	}
	ctx := r.Context()
	periods, err := h.Store.ListPeriods(ctx, job.ID)
	if err != nil {
		return
	}
	shifts, err := h.Store.ListShifts(ctx, job.ID)
	if err != nil {
		return
	}
	res := engine.RecomputePeriods(periods, shifts, engine.RecomputeOptions{})
	h.Store.SavePeriods(ctx, res.Periods)
}

// =============================================================================
// PAY PERIOD HANDLERS
// =============================================================================

func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.Store.ListPeriods(r.Context(), engine.JobID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]PayPeriodDTO, 0, len(periods))
	for _, p := range periods {
		dtos = append(dtos, periodToDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) EnsurePeriodCoverage(w http.ResponseWriter, r *http.Request) {
	jobID := engine.JobID(chi.URLParam(r, "id"))
	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var req EnsureCoverageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	through, err := time.Parse("2006-01-02", req.Through)
	if err != nil {
		writeError(w, http.StatusBadRequest, "through: %v", err)
		return
	}

	existing, err := h.Store.ListPeriods(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	created, err := job.PayPeriods.EnsureCoverage(jobID, existing, through)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if len(created) > 0 {
		if err := h.Store.SavePeriods(r.Context(), created); err != nil {
			writeEngineError(w, err)
			return
		}
	}

	dtos := make([]PayPeriodDTO, 0, len(created))
	for _, p := range created {
		dtos = append(dtos, periodToDTO(p))
	}
	writeJSON(w, http.StatusCreated, dtos)
}

func (h *Handler) RecomputePeriods(w http.ResponseWriter, r *http.Request) {
	jobID := engine.JobID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetJob(r.Context(), jobID); err != nil {
		writeEngineError(w, err)
		return
	}

	var req RecomputeRequest
	if r.ContentLength > 0 && !decodeBody(w, r, &req) {
		return
	}

	periods, err := h.Store.ListPeriods(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	shifts, err := h.Store.ListShifts(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	res := engine.RecomputePeriods(periods, shifts, engine.RecomputeOptions{
		LegacyAccumulate: req.LegacyAccumulate,
	})
	if err := h.Store.SavePeriods(r.Context(), res.Periods); err != nil {
		writeEngineError(w, err)
		return
	}

	resp := RecomputeResponse{
		Assigned: res.Assigned,
		Warnings: warningsToDTO(res.Warnings),
	}
	for _, p := range res.Periods {
		resp.Periods = append(resp.Periods, periodToDTO(p))
	}
	for _, id := range res.Unassigned {
		resp.Unassigned = append(resp.Unassigned, string(id))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

func (h *Handler) ListScheduled(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.Store.ListScheduled(r.Context(), engine.JobID(chi.URLParam(r, "id")))
	if err != nil {
		writeEngineError(w, err)
		return
	}
	dtos := make([]ScheduledShiftDTO, 0, len(shifts))
	for _, s := range shifts {
		dtos = append(dtos, scheduledToDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateScheduled(w http.ResponseWriter, r *http.Request) {
	jobID := engine.JobID(chi.URLParam(r, "id"))
	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	var req CreateScheduleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	start, err := parseRFC3339(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start: %v", err)
		return
	}
	end, err := parseRFC3339(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end: %v", err)
		return
	}

	template := engine.ScheduledShift{
		ID:             engine.ScheduleID(uuid.NewString()),
		JobID:          jobID,
		Start:          start,
		End:            end,
		NotifyMe:       req.NotifyMe,
		ReminderBefore: time.Duration(req.ReminderMins) * time.Minute,
	}

	instances := []engine.ScheduledShift{template}
	if req.Repeat != nil {
		rule := engine.RepeatRule{
			Cadence:      engine.Cadence(req.Repeat.Cadence),
			MaxInstances: req.Repeat.MaxInstances,
		}
		if req.Repeat.Until != "" {
			until, err := parseRFC3339(req.Repeat.Until)
			if err != nil {
				writeError(w, http.StatusBadRequest, "repeat until: %v", err)
				return
			}
			rule.Until = until
		}
		instances, err = engine.ExpandSeries(template, rule)
		if err != nil {
			writeEngineError(w, err)
			return
		}
	} else if !template.End.After(template.Start) {
		writeEngineError(w, &engine.InvalidDurationError{Start: template.Start, End: template.End})
		return
	}

	if req.SyncToCalendar && h.Calendar != nil {
		for i := range instances {
			eventID, err := h.Calendar.AddEvent(r.Context(), engine.CalendarEvent{
				Title: job.Name,
				Start: instances[i].Start,
				End:   instances[i].End,
			})
			if err == nil {
				instances[i].CalendarEventID = eventID
			}
		}
	}

	if err := h.Store.SaveScheduled(r.Context(), instances); err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]ScheduledShiftDTO, 0, len(instances))
	for _, s := range instances {
		dtos = append(dtos, scheduledToDTO(s))
	}
	writeJSON(w, http.StatusCreated, dtos)
}

func (h *Handler) CancelSeries(w http.ResponseWriter, r *http.Request) {
	repeatID := chi.URLParam(r, "repeatID")

	anchor := time.Now().UTC()
	if from := r.URL.Query().Get("from"); from != "" {
		t, err := parseRFC3339(from)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from: %v", err)
			return
		}
		anchor = t
	}

	instances, err := h.Store.ListSeries(r.Context(), repeatID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	res := engine.CancelSeries(instances, repeatID, anchor)

	ids := make([]engine.ScheduleID, 0, len(res.Removed))
	for _, s := range res.Removed {
		ids = append(ids, s.ID)
	}
	if len(ids) > 0 {
		if err := h.Store.DeleteScheduled(r.Context(), ids); err != nil {
			writeEngineError(w, err)
			return
		}
	}
	if h.Calendar != nil {
		for _, eventID := range res.CalendarEventIDs {
			h.Calendar.RemoveEvent(r.Context(), eventID)
		}
	}

	writeJSON(w, http.StatusOK, CancelSeriesResponse{
		Removed:  len(res.Removed),
		Warnings: warningsToDTO(res.Warnings),
	})
}

// =============================================================================
// STATS HANDLER
// =============================================================================

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	preset := engine.RangePreset(q.Get("range"))
	if preset == "" {
		preset = engine.RangeWeek
	}
	now := time.Now().UTC()
	from, to := preset.Window(now)

	bucket := engine.BucketUnit(q.Get("bucket"))
	if bucket == "" {
		bucket = preset.DefaultBucket()
	}

	var jobFilter *engine.JobID
	if j := q.Get("job"); j != "" {
		id := engine.JobID(j)
		if _, err := h.Store.GetJob(r.Context(), id); err != nil {
			writeEngineError(w, err)
			return
		}
		jobFilter = &id
	}

	shifts, err := h.Store.ListShiftsInRange(r.Context(), from, to, jobFilter)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	report := engine.Summarize(shifts, engine.StatsFilter{
		From:   from,
		To:     to,
		Bucket: bucket,
		Job:    jobFilter,
	})
	writeJSON(w, http.StatusOK, statsToDTO(report, from, to))
}

// =============================================================================
// INVOICE HANDLER
// =============================================================================

func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	jobID := engine.JobID(chi.URLParam(r, "id"))
	job, err := h.Store.GetJob(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: %v", err)
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: %v", err)
		return
	}
	// Include shifts starting any time on the "to" date.
	to = to.AddDate(0, 0, 1).Add(-time.Second)

	shifts, err := h.Store.ListShifts(r.Context(), jobID)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	inv := invoice.Build(job, shifts, from, to)

	dto := InvoiceDTO{
		JobID:       string(inv.JobID),
		JobName:     inv.JobName,
		From:        inv.From.Format("2006-01-02"),
		To:          engine.DayOf(inv.To).Format("2006-01-02"),
		WorkedHours: engine.FormatHours(inv.WorkedSeconds),
		Subtotal:    money(inv.Subtotal),
		TaxWithheld: money(inv.TaxWithheld),
		Tips:        money(inv.Tips),
		GrandTotal:  money(inv.GrandTotal),
	}
	for _, l := range inv.Lines {
		dto.Lines = append(dto.Lines, InvoiceLineDTO{
			ShiftID:     string(l.ShiftID),
			Date:        l.Date.Format("2006-01-02"),
			Description: l.Description,
			WorkedHours: l.WorkedHours.StringFixed(2),
			HourlyRate:  l.HourlyRate.StringFixed(2),
			Overtime:    l.Overtime,
			Amount:      money(l.Amount),
		})
	}
	writeJSON(w, http.StatusOK, dto)
}
