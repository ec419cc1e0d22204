// Package store persists foreplan's planning data in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"foreplan/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

const dateFormat = "2006-01-02"

// Store provides SQLite-backed persistence for projects, phases,
// events, and the capacity configuration.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads all planning data in one consistent view.
func (s *Store) LoadSnapshot() (*model.Snapshot, error) {
	snap := &model.Snapshot{}
	var err error

	if snap.Projects, err = s.Projects(); err != nil {
		return nil, err
	}
	if snap.Phases, err = s.Phases(); err != nil {
		return nil, err
	}
	if snap.Events, err = s.Events(); err != nil {
		return nil, err
	}
	if snap.Slots, err = s.Slots(); err != nil {
		return nil, err
	}
	if snap.Exceptions, err = s.Exceptions(); err != nil {
		return nil, err
	}
	if snap.Holidays, err = s.Holidays(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Projects returns all projects ordered by id.
func (s *Store) Projects() ([]model.Project, error) {
	rows, err := s.db.Query(`SELECT id, name, start_date, end_date, estimated_hours, day_overrides
		FROM projects ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var projects []model.Project
	for rows.Next() {
		var p model.Project
		var start string
		var end, overrides sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &start, &end, &p.EstimatedHours, &overrides); err != nil {
			return nil, err
		}
		if p.StartDate, err = time.Parse(dateFormat, start); err != nil {
			return nil, fmt.Errorf("project %d: %w", p.ID, err)
		}
		if end.Valid && end.String != "" {
			d, err := time.Parse(dateFormat, end.String)
			if err != nil {
				return nil, fmt.Errorf("project %d: %w", p.ID, err)
			}
			p.EndDate = &d
		}
		if overrides.Valid && overrides.String != "" {
			if p.AutoDayOverrides, err = decodeOverrides(overrides.String); err != nil {
				return nil, fmt.Errorf("project %d: %w", p.ID, err)
			}
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// SaveProject inserts or updates a project, returning its id.
func (s *Store) SaveProject(p model.Project) (int64, error) {
	var end any
	if p.EndDate != nil {
		end = p.EndDate.Format(dateFormat)
	}
	var overrides any
	if len(p.AutoDayOverrides) > 0 {
		overrides = encodeOverrides(p.AutoDayOverrides)
	}

	if p.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO projects (name, start_date, end_date, estimated_hours, day_overrides)
			VALUES (?, ?, ?, ?, ?)`,
			p.Name, p.StartDate.Format(dateFormat), end, p.EstimatedHours, overrides)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.Exec(`UPDATE projects SET name = ?, start_date = ?, end_date = ?, estimated_hours = ?, day_overrides = ?
		WHERE id = ?`,
		p.Name, p.StartDate.Format(dateFormat), end, p.EstimatedHours, overrides, p.ID)
	return p.ID, err
}

// UpdateProjectDates rewrites just the project's date range.
func (s *Store) UpdateProjectDates(id int64, start time.Time, end *time.Time) error {
	var endVal any
	if end != nil {
		endVal = end.Format(dateFormat)
	}
	_, err := s.db.Exec(`UPDATE projects SET start_date = ?, end_date = ? WHERE id = ?`,
		start.Format(dateFormat), endVal, id)
	return err
}

// DeleteProject removes a project; phases cascade.
func (s *Store) DeleteProject(id int64) error {
	_, err := s.db.Exec("DELETE FROM projects WHERE id = ?", id)
	return err
}

// Phases returns all phases ordered by project then start date.
func (s *Store) Phases() ([]model.Phase, error) {
	rows, err := s.db.Query(`SELECT id, project_id, name, kind, start_date, end_date, allocation_hours,
		freq, interval, weekdays, month_day, week_of_month, weekday, hours_per_occ
		FROM phases ORDER BY project_id, start_date, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var phases []model.Phase
	for rows.Next() {
		var ph model.Phase
		var kind string
		var start, end, freq, weekdays sql.NullString
		var interval, monthDay, weekOfMonth, weekday sql.NullInt64
		var hoursPerOcc sql.NullFloat64
		if err := rows.Scan(&ph.ID, &ph.ProjectID, &ph.Name, &kind, &start, &end, &ph.AllocationHours,
			&freq, &interval, &weekdays, &monthDay, &weekOfMonth, &weekday, &hoursPerOcc); err != nil {
			return nil, err
		}
		ph.Kind = model.PhaseKind(kind)
		if start.Valid && start.String != "" {
			if ph.StartDate, err = time.Parse(dateFormat, start.String); err != nil {
				return nil, fmt.Errorf("phase %d: %w", ph.ID, err)
			}
		}
		if end.Valid && end.String != "" {
			if ph.EndDate, err = time.Parse(dateFormat, end.String); err != nil {
				return nil, fmt.Errorf("phase %d: %w", ph.ID, err)
			}
		}
		if ph.Kind == model.PhaseRecurring && freq.Valid {
			pat := &model.RecurrencePattern{
				Freq:        model.Frequency(freq.String),
				Interval:    int(interval.Int64),
				MonthDay:    int(monthDay.Int64),
				WeekOfMonth: int(weekOfMonth.Int64),
				Weekday:     time.Weekday(weekday.Int64),
			}
			if hoursPerOcc.Valid {
				pat.HoursPerOccurrence = hoursPerOcc.Float64
			}
			if weekdays.Valid && weekdays.String != "" {
				if pat.Weekdays, err = decodeWeekdays(weekdays.String); err != nil {
					return nil, fmt.Errorf("phase %d: %w", ph.ID, err)
				}
			}
			ph.Pattern = pat
		}
		phases = append(phases, ph)
	}
	return phases, rows.Err()
}

// SavePhase inserts or updates a phase, returning its id.
func (s *Store) SavePhase(ph model.Phase) (int64, error) {
	var start, end any
	if !ph.StartDate.IsZero() {
		start = ph.StartDate.Format(dateFormat)
	}
	if !ph.EndDate.IsZero() {
		end = ph.EndDate.Format(dateFormat)
	}
	var freq, weekdays any
	var interval, monthDay, weekOfMonth, weekday, hoursPerOcc any
	if ph.Pattern != nil {
		freq = string(ph.Pattern.Freq)
		interval = ph.Pattern.Interval
		monthDay = ph.Pattern.MonthDay
		weekOfMonth = ph.Pattern.WeekOfMonth
		weekday = int(ph.Pattern.Weekday)
		hoursPerOcc = ph.Pattern.HoursPerOccurrence
		if len(ph.Pattern.Weekdays) > 0 {
			weekdays = encodeWeekdays(ph.Pattern.Weekdays)
		}
	}

	if ph.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO phases
			(project_id, name, kind, start_date, end_date, allocation_hours,
			 freq, interval, weekdays, month_day, week_of_month, weekday, hours_per_occ)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			ph.ProjectID, ph.Name, string(ph.Kind), start, end, ph.AllocationHours,
			freq, interval, weekdays, monthDay, weekOfMonth, weekday, hoursPerOcc)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.Exec(`UPDATE phases SET
		project_id = ?, name = ?, kind = ?, start_date = ?, end_date = ?, allocation_hours = ?,
		freq = ?, interval = ?, weekdays = ?, month_day = ?, week_of_month = ?, weekday = ?, hours_per_occ = ?
		WHERE id = ?`,
		ph.ProjectID, ph.Name, string(ph.Kind), start, end, ph.AllocationHours,
		freq, interval, weekdays, monthDay, weekOfMonth, weekday, hoursPerOcc, ph.ID)
	return ph.ID, err
}

// DeletePhase removes a phase.
func (s *Store) DeletePhase(id int64) error {
	_, err := s.db.Exec("DELETE FROM phases WHERE id = ?", id)
	return err
}

// Events returns all calendar events ordered by start time.
func (s *Store) Events() ([]model.CalendarEvent, error) {
	rows, err := s.db.Query(`SELECT id, project_id, phase_id, title, start_time, end_time, completed, category
		FROM events ORDER BY start_time, id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []model.CalendarEvent
	for rows.Next() {
		var e model.CalendarEvent
		var projectID, phaseID sql.NullInt64
		var start, end, category string
		var completed int
		if err := rows.Scan(&e.ID, &projectID, &phaseID, &e.Title, &start, &end, &completed, &category); err != nil {
			return nil, err
		}
		e.ProjectID = projectID.Int64
		e.PhaseID = phaseID.Int64
		e.Category = model.EventCategory(category)
		e.Completed = completed != 0
		if e.Start, err = time.Parse(time.RFC3339, start); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		if e.End, err = time.Parse(time.RFC3339, end); err != nil {
			return nil, fmt.Errorf("event %d: %w", e.ID, err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// SaveEvent inserts or updates an event, returning its id.
func (s *Store) SaveEvent(e model.CalendarEvent) (int64, error) {
	completed := 0
	if e.Completed {
		completed = 1
	}
	var projectID, phaseID any
	if e.ProjectID != 0 {
		projectID = e.ProjectID
	}
	if e.PhaseID != 0 {
		phaseID = e.PhaseID
	}

	if e.ID == 0 {
		res, err := s.db.Exec(`INSERT INTO events (project_id, phase_id, title, start_time, end_time, completed, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			projectID, phaseID, e.Title,
			e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
			completed, string(e.Category))
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}

	_, err := s.db.Exec(`UPDATE events SET project_id = ?, phase_id = ?, title = ?, start_time = ?, end_time = ?, completed = ?, category = ?
		WHERE id = ?`,
		projectID, phaseID, e.Title,
		e.Start.UTC().Format(time.RFC3339), e.End.UTC().Format(time.RFC3339),
		completed, string(e.Category), e.ID)
	return e.ID, err
}

// MarkEventCompleted flips an event's completed flag.
func (s *Store) MarkEventCompleted(id int64, completed bool) error {
	val := 0
	if completed {
		val = 1
	}
	_, err := s.db.Exec("UPDATE events SET completed = ? WHERE id = ?", val, id)
	return err
}

// DeleteEvent removes an event.
func (s *Store) DeleteEvent(id int64) error {
	_, err := s.db.Exec("DELETE FROM events WHERE id = ?", id)
	return err
}

// Slots returns all work slots ordered by weekday then start.
func (s *Store) Slots() ([]model.WorkSlot, error) {
	rows, err := s.db.Query("SELECT id, weekday, start_min, end_min FROM work_slots ORDER BY weekday, start_min")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var slots []model.WorkSlot
	for rows.Next() {
		var sl model.WorkSlot
		var weekday int
		if err := rows.Scan(&sl.ID, &weekday, &sl.StartMin, &sl.EndMin); err != nil {
			return nil, err
		}
		sl.Weekday = time.Weekday(weekday)
		slots = append(slots, sl)
	}
	return slots, rows.Err()
}

// SaveSlot inserts or updates a work slot, returning its id.
func (s *Store) SaveSlot(sl model.WorkSlot) (int64, error) {
	if err := sl.Validate(); err != nil {
		return 0, err
	}
	if sl.ID == 0 {
		res, err := s.db.Exec("INSERT INTO work_slots (weekday, start_min, end_min) VALUES (?, ?, ?)",
			int(sl.Weekday), sl.StartMin, sl.EndMin)
		if err != nil {
			return 0, err
		}
		return res.LastInsertId()
	}
	_, err := s.db.Exec("UPDATE work_slots SET weekday = ?, start_min = ?, end_min = ? WHERE id = ?",
		int(sl.Weekday), sl.StartMin, sl.EndMin, sl.ID)
	return sl.ID, err
}

// DeleteSlot removes a work slot; its exceptions cascade.
func (s *Store) DeleteSlot(id int64) error {
	_, err := s.db.Exec("DELETE FROM work_slots WHERE id = ?", id)
	return err
}

// Exceptions returns all work hour exceptions.
func (s *Store) Exceptions() ([]model.WorkHourException, error) {
	rows, err := s.db.Query("SELECT id, date, slot_id, removed, start_min, end_min FROM work_hour_exceptions ORDER BY date")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var exceptions []model.WorkHourException
	for rows.Next() {
		var ex model.WorkHourException
		var date string
		var removed int
		var start, end sql.NullInt64
		if err := rows.Scan(&ex.ID, &date, &ex.SlotID, &removed, &start, &end); err != nil {
			return nil, err
		}
		ex.Removed = removed != 0
		ex.StartMin = int(start.Int64)
		ex.EndMin = int(end.Int64)
		if ex.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("exception %d: %w", ex.ID, err)
		}
		exceptions = append(exceptions, ex)
	}
	return exceptions, rows.Err()
}

// SaveException inserts a work hour exception, returning its id.
func (s *Store) SaveException(ex model.WorkHourException) (int64, error) {
	removed := 0
	if ex.Removed {
		removed = 1
	}
	res, err := s.db.Exec(`INSERT INTO work_hour_exceptions (date, slot_id, removed, start_min, end_min)
		VALUES (?, ?, ?, ?, ?)`,
		ex.Date.Format(dateFormat), ex.SlotID, removed, ex.StartMin, ex.EndMin)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Holidays returns all holidays ordered by start date.
func (s *Store) Holidays() ([]model.Holiday, error) {
	rows, err := s.db.Query("SELECT id, name, start_date, end_date, recurs_annually FROM holidays ORDER BY start_date")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var holidays []model.Holiday
	for rows.Next() {
		var h model.Holiday
		var start, end string
		var recurs int
		if err := rows.Scan(&h.ID, &h.Name, &start, &end, &recurs); err != nil {
			return nil, err
		}
		h.RecursAnnually = recurs != 0
		if h.StartDate, err = time.Parse(dateFormat, start); err != nil {
			return nil, fmt.Errorf("holiday %d: %w", h.ID, err)
		}
		if h.EndDate, err = time.Parse(dateFormat, end); err != nil {
			return nil, fmt.Errorf("holiday %d: %w", h.ID, err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

// SaveHoliday inserts a holiday, returning its id.
func (s *Store) SaveHoliday(h model.Holiday) (int64, error) {
	recurs := 0
	if h.RecursAnnually {
		recurs = 1
	}
	res, err := s.db.Exec(`INSERT INTO holidays (name, start_date, end_date, recurs_annually)
		VALUES (?, ?, ?, ?)`,
		h.Name, h.StartDate.Format(dateFormat), h.EndDate.Format(dateFormat), recurs)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteHoliday removes a holiday.
func (s *Store) DeleteHoliday(id int64) error {
	_, err := s.db.Exec("DELETE FROM holidays WHERE id = ?", id)
	return err
}

// PhaseBounds is a corrective project date range applied alongside a
// phase edit.
type PhaseBounds struct {
	Start time.Time
	End   time.Time
}

// ApplyPhaseEdit persists an accepted phase edit and its corrective
// project bounds in one transaction.
func (s *Store) ApplyPhaseEdit(ph model.Phase, bounds *PhaseBounds) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	id := ph.ID
	var start, end any
	if !ph.StartDate.IsZero() {
		start = ph.StartDate.Format(dateFormat)
	}
	if !ph.EndDate.IsZero() {
		end = ph.EndDate.Format(dateFormat)
	}
	if id == 0 {
		res, err := tx.Exec(`INSERT INTO phases (project_id, name, kind, start_date, end_date, allocation_hours)
			VALUES (?, ?, ?, ?, ?, ?)`,
			ph.ProjectID, ph.Name, string(ph.Kind), start, end, ph.AllocationHours)
		if err != nil {
			return 0, err
		}
		if id, err = res.LastInsertId(); err != nil {
			return 0, err
		}
	} else {
		if _, err := tx.Exec(`UPDATE phases SET name = ?, start_date = ?, end_date = ?, allocation_hours = ? WHERE id = ?`,
			ph.Name, start, end, ph.AllocationHours, ph.ID); err != nil {
			return 0, err
		}
	}

	if bounds != nil {
		var endVal any
		if !bounds.End.IsZero() {
			endVal = bounds.End.Format(dateFormat)
		}
		if _, err := tx.Exec(`UPDATE projects SET start_date = ?, end_date = ? WHERE id = ?`,
			bounds.Start.Format(dateFormat), endVal, ph.ProjectID); err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

func encodeOverrides(m map[time.Weekday]bool) string {
	var parts []string
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		on, ok := m[wd]
		if !ok {
			continue
		}
		v := "0"
		if on {
			v = "1"
		}
		parts = append(parts, fmt.Sprintf("%d:%s", int(wd), v))
	}
	return strings.Join(parts, ",")
}

func decodeOverrides(s string) (map[time.Weekday]bool, error) {
	m := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid day override %q", part)
		}
		wd, err := strconv.Atoi(k)
		if err != nil || wd < 0 || wd > 6 {
			return nil, fmt.Errorf("invalid day override %q", part)
		}
		m[time.Weekday(wd)] = v == "1"
	}
	return m, nil
}

func encodeWeekdays(wds []time.Weekday) string {
	parts := make([]string, len(wds))
	for i, wd := range wds {
		parts[i] = strconv.Itoa(int(wd))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	var wds []time.Weekday
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		wds = append(wds, time.Weekday(n))
	}
	return wds, nil
}
