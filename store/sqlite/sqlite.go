/*
Package sqlite provides a SQLite-backed implementation of engine.Store.

PURPOSE:
  Persists jobs, shifts (with owned breaks), pay periods, and scheduled
  shifts. In production the same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  jobs:             Root aggregates with pay/overtime/period config
  shifts:           Worked intervals with cached derived pay fields
  breaks:           Owned by shifts, cascade on delete
  pay_periods:      Window accumulators
  scheduled_shifts: Future shifts and repeat series

CASCADES:
  Foreign keys are ON DELETE CASCADE: deleting a job removes its
  shifts, periods, and scheduled shifts; deleting a shift removes its
  breaks. Foreign key enforcement is enabled on open.

ENCODING:
  Timestamps are RFC3339 TEXT, money values are decimal TEXT (never
  floats), tags are a JSON array.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time.

USAGE:
  st, err := sqlite.New("./data/shifts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/shift-engine/engine"
)

// Store implements engine.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT,
		hourly_pay TEXT NOT NULL,
		tax_percent TEXT NOT NULL,
		overtime_enabled INTEGER NOT NULL DEFAULT 0,
		overtime_rate TEXT,
		overtime_after INTEGER NOT NULL DEFAULT 0,
		periods_enabled INTEGER NOT NULL DEFAULT 0,
		period_days INTEGER NOT NULL DEFAULT 0,
		last_period_end TEXT,
		color_hex TEXT,
		icon TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT,
		hourly_pay TEXT NOT NULL,
		multiplier TEXT,
		multiplier_enabled INTEGER NOT NULL DEFAULT 0,
		overtime_enabled INTEGER NOT NULL DEFAULT 0,
		overtime_rate TEXT,
		overtime_after INTEGER NOT NULL DEFAULT 0,
		tax_percent TEXT NOT NULL,
		tips TEXT,
		add_tips INTEGER NOT NULL DEFAULT 0,
		notes TEXT,
		tags TEXT,
		total_pay TEXT NOT NULL,
		taxed_pay TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		break_seconds INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS breaks (
		id TEXT PRIMARY KEY,
		shift_id TEXT NOT NULL REFERENCES shifts(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		unpaid INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS pay_periods (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		shift_count INTEGER NOT NULL DEFAULT 0,
		total_pay TEXT NOT NULL,
		total_seconds INTEGER NOT NULL DEFAULT 0,
		notification_id TEXT
	);

	CREATE TABLE IF NOT EXISTS scheduled_shifts (
		id TEXT PRIMARY KEY,
		job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
		start_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		repeat_id TEXT,
		repeating INTEGER NOT NULL DEFAULT 0,
		calendar_event_id TEXT,
		notify_me INTEGER NOT NULL DEFAULT 0,
		reminder_seconds INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_shifts_job_start ON shifts(job_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_breaks_shift ON breaks(shift_id);
	CREATE INDEX IF NOT EXISTS idx_periods_job_start ON pay_periods(job_id, start_at);
	CREATE INDEX IF NOT EXISTS idx_scheduled_repeat ON scheduled_shifts(repeat_id);
	CREATE INDEX IF NOT EXISTS idx_scheduled_job_start ON scheduled_shifts(job_id, start_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENCODING HELPERS
// =============================================================================

func encodeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func decodeTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func encodeDec(d decimal.Decimal) string {
	return d.String()
}

func decodeDec(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return "[]"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeTags(s string) []string {
	if s == "" || s == "[]" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil
	}
	return tags
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// =============================================================================
// JOBS
// =============================================================================

func (s *Store) SaveJob(ctx context.Context, job engine.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, name, title, hourly_pay, tax_percent,
			overtime_enabled, overtime_rate, overtime_after,
			periods_enabled, period_days, last_period_end,
			color_hex, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			title = excluded.title,
			hourly_pay = excluded.hourly_pay,
			tax_percent = excluded.tax_percent,
			overtime_enabled = excluded.overtime_enabled,
			overtime_rate = excluded.overtime_rate,
			overtime_after = excluded.overtime_after,
			periods_enabled = excluded.periods_enabled,
			period_days = excluded.period_days,
			last_period_end = excluded.last_period_end,
			color_hex = excluded.color_hex,
			icon = excluded.icon`,
		string(job.ID), job.Name, job.Title,
		encodeDec(job.HourlyPay), encodeDec(job.TaxPercent),
		boolInt(job.Overtime.Enabled), encodeDec(job.Overtime.Rate), job.Overtime.AppliedAfter,
		boolInt(job.PayPeriods.Enabled), job.PayPeriods.DurationDays, encodeTime(job.PayPeriods.LastPeriodEnd),
		job.ColorHex, job.Icon, encodeTime(job.CreatedAt),
	)
	return err
}

func (s *Store) GetJob(ctx context.Context, id engine.JobID) (engine.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, title, hourly_pay, tax_percent,
			overtime_enabled, overtime_rate, overtime_after,
			periods_enabled, period_days, last_period_end,
			color_hex, icon, created_at
		FROM jobs WHERE id = ?`, string(id))
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return engine.Job{}, engine.ErrJobNotFound
	}
	return job, err
}

func (s *Store) ListJobs(ctx context.Context) ([]engine.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, title, hourly_pay, tax_percent,
			overtime_enabled, overtime_rate, overtime_after,
			periods_enabled, period_days, last_period_end,
			color_hex, icon, created_at
		FROM jobs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []engine.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *Store) DeleteJob(ctx context.Context, id engine.JobID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return engine.ErrJobNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(r rowScanner) (engine.Job, error) {
	var (
		job                       engine.Job
		id, hourly, tax           string
		otRate, lastEnd           sql.NullString
		createdAt                 string
		otEnabled, periodsEnabled int
		title, colorHex, icon     sql.NullString
	)
	err := r.Scan(&id, &job.Name, &title, &hourly, &tax,
		&otEnabled, &otRate, &job.Overtime.AppliedAfter,
		&periodsEnabled, &job.PayPeriods.DurationDays, &lastEnd,
		&colorHex, &icon, &createdAt)
	if err != nil {
		return engine.Job{}, err
	}
	job.ID = engine.JobID(id)
	job.Title = title.String
	job.HourlyPay = decodeDec(hourly)
	job.TaxPercent = decodeDec(tax)
	job.Overtime.Enabled = otEnabled == 1
	job.Overtime.Rate = decodeDec(otRate.String)
	job.PayPeriods.Enabled = periodsEnabled == 1
	job.PayPeriods.LastPeriodEnd = decodeTime(lastEnd.String)
	job.ColorHex = colorHex.String
	job.Icon = icon.String
	job.CreatedAt = decodeTime(createdAt)
	return job, nil
}

// =============================================================================
// SHIFTS
// =============================================================================

func (s *Store) SaveShift(ctx context.Context, shift engine.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shifts (id, job_id, start_at, end_at, hourly_pay,
			multiplier, multiplier_enabled,
			overtime_enabled, overtime_rate, overtime_after,
			tax_percent, tips, add_tips, notes, tags,
			total_pay, taxed_pay, duration_seconds, break_seconds)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_id = excluded.job_id,
			start_at = excluded.start_at,
			end_at = excluded.end_at,
			hourly_pay = excluded.hourly_pay,
			multiplier = excluded.multiplier,
			multiplier_enabled = excluded.multiplier_enabled,
			overtime_enabled = excluded.overtime_enabled,
			overtime_rate = excluded.overtime_rate,
			overtime_after = excluded.overtime_after,
			tax_percent = excluded.tax_percent,
			tips = excluded.tips,
			add_tips = excluded.add_tips,
			notes = excluded.notes,
			tags = excluded.tags,
			total_pay = excluded.total_pay,
			taxed_pay = excluded.taxed_pay,
			duration_seconds = excluded.duration_seconds,
			break_seconds = excluded.break_seconds`,
		string(shift.ID), string(shift.JobID),
		encodeTime(shift.Start), encodeTime(shift.End), encodeDec(shift.HourlyPay),
		encodeDec(shift.Multiplier), boolInt(shift.MultiplierEnabled),
		boolInt(shift.Overtime.Enabled), encodeDec(shift.Overtime.Rate), shift.Overtime.AppliedAfter,
		encodeDec(shift.TaxPercent), encodeDec(shift.Tips), boolInt(shift.AddTipsToTotal),
		shift.Notes, encodeTags(shift.Tags),
		encodeDec(shift.TotalPay), encodeDec(shift.TaxedPay),
		shift.DurationSeconds, shift.BreakSeconds,
	)
	if err != nil {
		return err
	}

	// Replace the owned break set.
	if _, err := tx.ExecContext(ctx, `DELETE FROM breaks WHERE shift_id = ?`, string(shift.ID)); err != nil {
		return err
	}
	for _, b := range shift.Breaks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO breaks (id, shift_id, start_at, end_at, unpaid)
			VALUES (?, ?, ?, ?, ?)`,
			b.ID, string(shift.ID), encodeTime(b.Start), encodeTime(b.End), boolInt(b.Unpaid))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

const shiftColumns = `id, job_id, start_at, end_at, hourly_pay,
	multiplier, multiplier_enabled,
	overtime_enabled, overtime_rate, overtime_after,
	tax_percent, tips, add_tips, notes, tags,
	total_pay, taxed_pay, duration_seconds, break_seconds`

func (s *Store) GetShift(ctx context.Context, id engine.ShiftID) (engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE id = ?`, string(id))
	shift, err := scanShift(row)
	if err == sql.ErrNoRows {
		return engine.Shift{}, engine.ErrShiftNotFound
	}
	if err != nil {
		return engine.Shift{}, err
	}
	if err := s.loadBreaks(ctx, &shift); err != nil {
		return engine.Shift{}, err
	}
	return shift, nil
}

func (s *Store) ListShifts(ctx context.Context, jobID engine.JobID) ([]engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryShifts(ctx,
		`SELECT `+shiftColumns+` FROM shifts WHERE job_id = ? ORDER BY start_at`,
		string(jobID))
}

func (s *Store) ListShiftsInRange(ctx context.Context, from, to time.Time, jobID *engine.JobID) ([]engine.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if jobID != nil {
		return s.queryShifts(ctx,
			`SELECT `+shiftColumns+` FROM shifts
			 WHERE job_id = ? AND start_at >= ? AND start_at <= ? ORDER BY start_at`,
			string(*jobID), encodeTime(from), encodeTime(to))
	}
	return s.queryShifts(ctx,
		`SELECT `+shiftColumns+` FROM shifts
		 WHERE start_at >= ? AND start_at <= ? ORDER BY start_at`,
		encodeTime(from), encodeTime(to))
}

func (s *Store) DeleteShift(ctx context.Context, id engine.ShiftID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return engine.ErrShiftNotFound
	}
	return nil
}

func (s *Store) queryShifts(ctx context.Context, query string, args ...any) ([]engine.Shift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []engine.Shift
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range shifts {
		if err := s.loadBreaks(ctx, &shifts[i]); err != nil {
			return nil, err
		}
	}
	return shifts, nil
}

func scanShift(r rowScanner) (engine.Shift, error) {
	var (
		shift                          engine.Shift
		id, jobID, startAt, hourly     string
		multiplier, otRate, tips       sql.NullString
		tax, totalPay, taxedPay        string
		endAt, notes, tags             sql.NullString
		multEnabled, otEnabled, addTip int
	)
	err := r.Scan(&id, &jobID, &startAt, &endAt, &hourly,
		&multiplier, &multEnabled,
		&otEnabled, &otRate, &shift.Overtime.AppliedAfter,
		&tax, &tips, &addTip, &notes, &tags,
		&totalPay, &taxedPay, &shift.DurationSeconds, &shift.BreakSeconds)
	if err != nil {
		return engine.Shift{}, err
	}
	shift.ID = engine.ShiftID(id)
	shift.JobID = engine.JobID(jobID)
	shift.Start = decodeTime(startAt)
	shift.End = decodeTime(endAt.String)
	shift.HourlyPay = decodeDec(hourly)
	shift.Multiplier = decodeDec(multiplier.String)
	shift.MultiplierEnabled = multEnabled == 1
	shift.Overtime.Enabled = otEnabled == 1
	shift.Overtime.Rate = decodeDec(otRate.String)
	shift.TaxPercent = decodeDec(tax)
	shift.Tips = decodeDec(tips.String)
	shift.AddTipsToTotal = addTip == 1
	shift.Notes = notes.String
	shift.Tags = decodeTags(tags.String)
	shift.TotalPay = decodeDec(totalPay)
	shift.TaxedPay = decodeDec(taxedPay)
	return shift, nil
}

func (s *Store) loadBreaks(ctx context.Context, shift *engine.Shift) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_at, end_at, unpaid
		FROM breaks WHERE shift_id = ? ORDER BY start_at`, string(shift.ID))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b              engine.Break
			startAt, endAt string
			unpaid         int
		)
		if err := rows.Scan(&b.ID, &startAt, &endAt, &unpaid); err != nil {
			return err
		}
		b.Start = decodeTime(startAt)
		b.End = decodeTime(endAt)
		b.Unpaid = unpaid == 1
		shift.Breaks = append(shift.Breaks, b)
	}
	return rows.Err()
}

// =============================================================================
// PAY PERIODS
// =============================================================================

func (s *Store) SavePeriods(ctx context.Context, periods []engine.PayPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range periods {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO pay_periods (id, job_id, start_at, end_at,
				shift_count, total_pay, total_seconds, notification_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				shift_count = excluded.shift_count,
				total_pay = excluded.total_pay,
				total_seconds = excluded.total_seconds,
				notification_id = excluded.notification_id`,
			string(p.ID), string(p.JobID),
			encodeTime(p.Start), encodeTime(p.End),
			p.ShiftCount, encodeDec(p.TotalPay), p.TotalSeconds, p.NotificationID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListPeriods(ctx context.Context, jobID engine.JobID) ([]engine.PayPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, job_id, start_at, end_at, shift_count, total_pay, total_seconds, notification_id
		FROM pay_periods WHERE job_id = ? ORDER BY start_at`, string(jobID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []engine.PayPeriod
	for rows.Next() {
		var (
			p                   engine.PayPeriod
			id, jid, start, end string
			totalPay            string
			notificationID      sql.NullString
		)
		err := rows.Scan(&id, &jid, &start, &end, &p.ShiftCount, &totalPay, &p.TotalSeconds, &notificationID)
		if err != nil {
			return nil, err
		}
		p.ID = engine.PeriodID(id)
		p.JobID = engine.JobID(jid)
		p.Start = decodeTime(start)
		p.End = decodeTime(end)
		p.TotalPay = decodeDec(totalPay)
		p.NotificationID = notificationID.String
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// =============================================================================
// SCHEDULED SHIFTS
// =============================================================================

func (s *Store) SaveScheduled(ctx context.Context, shifts []engine.ScheduledShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, sc := range shifts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scheduled_shifts (id, job_id, start_at, end_at,
				repeat_id, repeating, calendar_event_id, notify_me, reminder_seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				start_at = excluded.start_at,
				end_at = excluded.end_at,
				repeat_id = excluded.repeat_id,
				repeating = excluded.repeating,
				calendar_event_id = excluded.calendar_event_id,
				notify_me = excluded.notify_me,
				reminder_seconds = excluded.reminder_seconds`,
			string(sc.ID), string(sc.JobID),
			encodeTime(sc.Start), encodeTime(sc.End),
			sc.RepeatID, boolInt(sc.Repeating), sc.CalendarEventID,
			boolInt(sc.NotifyMe), int64(sc.ReminderBefore.Seconds()))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

const scheduledColumns = `id, job_id, start_at, end_at, repeat_id, repeating,
	calendar_event_id, notify_me, reminder_seconds`

func (s *Store) GetScheduled(ctx context.Context, id engine.ScheduleID) (engine.ScheduledShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_shifts WHERE id = ?`, string(id))
	sc, err := scanScheduled(row)
	if err == sql.ErrNoRows {
		return engine.ScheduledShift{}, engine.ErrScheduleNotFound
	}
	return sc, err
}

func (s *Store) ListScheduled(ctx context.Context, jobID engine.JobID) ([]engine.ScheduledShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryScheduled(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_shifts WHERE job_id = ? ORDER BY start_at`,
		string(jobID))
}

func (s *Store) ListSeries(ctx context.Context, repeatID string) ([]engine.ScheduledShift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryScheduled(ctx,
		`SELECT `+scheduledColumns+` FROM scheduled_shifts WHERE repeat_id = ? ORDER BY start_at`,
		repeatID)
}

func (s *Store) DeleteScheduled(ctx context.Context, ids []engine.ScheduleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM scheduled_shifts WHERE id = ?`, string(id)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) queryScheduled(ctx context.Context, query string, args ...any) ([]engine.ScheduledShift, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shifts []engine.ScheduledShift
	for rows.Next() {
		sc, err := scanScheduled(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, sc)
	}
	return shifts, rows.Err()
}

func scanScheduled(r rowScanner) (engine.ScheduledShift, error) {
	var (
		sc                        engine.ScheduledShift
		id, jid, start, end       string
		repeatID, calendarEventID sql.NullString
		repeating, notifyMe       int
		reminderSeconds           int64
	)
	err := r.Scan(&id, &jid, &start, &end, &repeatID, &repeating,
		&calendarEventID, &notifyMe, &reminderSeconds)
	if err != nil {
		return engine.ScheduledShift{}, err
	}
	sc.ID = engine.ScheduleID(id)
	sc.JobID = engine.JobID(jid)
	sc.Start = decodeTime(start)
	sc.End = decodeTime(end)
	sc.RepeatID = repeatID.String
	sc.Repeating = repeating == 1
	sc.CalendarEventID = calendarEventID.String
	sc.NotifyMe = notifyMe == 1
	sc.ReminderBefore = time.Duration(reminderSeconds) * time.Second
	return sc, nil
}
