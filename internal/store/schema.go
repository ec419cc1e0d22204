package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    name             TEXT NOT NULL,
    start_date       TEXT NOT NULL,
    end_date         TEXT,
    estimated_hours  REAL NOT NULL DEFAULT 0,
    day_overrides    TEXT
);

CREATE TABLE IF NOT EXISTS phases (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id       INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
    name             TEXT NOT NULL,
    kind             TEXT NOT NULL,
    start_date       TEXT,
    end_date         TEXT,
    allocation_hours REAL NOT NULL DEFAULT 0,
    freq             TEXT,
    interval         INTEGER,
    weekdays         TEXT,
    month_day        INTEGER,
    week_of_month    INTEGER,
    weekday          INTEGER,
    hours_per_occ    REAL
);

CREATE TABLE IF NOT EXISTS events (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id       INTEGER,
    phase_id         INTEGER,
    title            TEXT NOT NULL,
    start_time       TEXT NOT NULL,
    end_time         TEXT NOT NULL,
    completed        INTEGER NOT NULL DEFAULT 0,
    category         TEXT NOT NULL DEFAULT 'event'
);

CREATE TABLE IF NOT EXISTS work_slots (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    weekday          INTEGER NOT NULL,
    start_min        INTEGER NOT NULL,
    end_min          INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS work_hour_exceptions (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    date             TEXT NOT NULL,
    slot_id          INTEGER NOT NULL REFERENCES work_slots(id) ON DELETE CASCADE,
    removed          INTEGER NOT NULL DEFAULT 0,
    start_min        INTEGER,
    end_min          INTEGER
);

CREATE TABLE IF NOT EXISTS holidays (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    name             TEXT NOT NULL,
    start_date       TEXT NOT NULL,
    end_date         TEXT NOT NULL,
    recurs_annually  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id);
CREATE INDEX IF NOT EXISTS idx_events_project ON events(project_id);
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time);
CREATE INDEX IF NOT EXISTS idx_exceptions_date ON work_hour_exceptions(date);
`
