package model

// Snapshot is a consistent, fully-loaded view of one user's planning
// data. The engine only ever reads snapshots; the store owns mutation.
type Snapshot struct {
	Projects   []Project
	Phases     []Phase
	Events     []CalendarEvent
	Slots      []WorkSlot
	Exceptions []WorkHourException
	Holidays   []Holiday
}

// PhasesOf returns the phases belonging to one project.
func (s *Snapshot) PhasesOf(projectID int64) []Phase {
	var out []Phase
	for _, p := range s.Phases {
		if p.ProjectID == projectID {
			out = append(out, p)
		}
	}
	return out
}

// ProjectByID returns the project with the given ID, or false.
func (s *Snapshot) ProjectByID(id int64) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// PhaseByID returns the phase with the given ID, or false.
func (s *Snapshot) PhaseByID(id int64) (Phase, bool) {
	for _, p := range s.Phases {
		if p.ID == id {
			return p, true
		}
	}
	return Phase{}, false
}
