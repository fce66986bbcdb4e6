package model

import "github.com/google/uuid"

// Problem is the immutable input to the engine: teachers, subjects, groups,
// rooms and the group/subject/teacher assignment table. Built once from
// input and never mutated afterward (spec §3, "Ownership & lifecycle").
type Problem struct {
	// RunID correlates this Problem with a store/metrics/log record. It is
	// an outer-layer concern only — dense integer ids (below) are what the
	// core algorithms index on.
	RunID uuid.UUID `json:"run_id"`

	Teachers []Teacher `json:"teachers"`
	Subjects []Subject `json:"subjects"`
	Groups   []Group   `json:"groups"`
	Rooms    []Room    `json:"rooms"`

	Assignment Assignment `json:"asignaciones"`

	teacherByID map[int]*Teacher
	subjectByID map[int]*Subject
	groupByID   map[int]*Group
	roomByID    map[int]*Room
}

// NewProblem builds a Problem and its lookup indexes. Callers should treat
// the returned value as immutable.
func NewProblem(teachers []Teacher, subjects []Subject, groups []Group, rooms []Room, assignment Assignment) *Problem {
	p := &Problem{
		RunID:      uuid.New(),
		Teachers:   teachers,
		Subjects:   subjects,
		Groups:     groups,
		Rooms:      rooms,
		Assignment: assignment,
	}
	p.reindex()
	return p
}

func (p *Problem) reindex() {
	p.teacherByID = make(map[int]*Teacher, len(p.Teachers))
	for i := range p.Teachers {
		p.teacherByID[p.Teachers[i].ID] = &p.Teachers[i]
	}
	p.subjectByID = make(map[int]*Subject, len(p.Subjects))
	for i := range p.Subjects {
		p.subjectByID[p.Subjects[i].ID] = &p.Subjects[i]
	}
	p.groupByID = make(map[int]*Group, len(p.Groups))
	for i := range p.Groups {
		p.groupByID[p.Groups[i].ID] = &p.Groups[i]
	}
	p.roomByID = make(map[int]*Room, len(p.Rooms))
	for i := range p.Rooms {
		p.roomByID[p.Rooms[i].ID] = &p.Rooms[i]
	}
}

// Teacher returns the teacher with the given id, or nil.
func (p *Problem) Teacher(id int) *Teacher {
	if id < 0 {
		return nil
	}
	return p.teacherByID[id]
}

// Subject returns the subject with the given id, or nil.
func (p *Problem) Subject(id int) *Subject {
	return p.subjectByID[id]
}

// Group returns the group with the given id, or nil.
func (p *Problem) Group(id int) *Group {
	return p.groupByID[id]
}

// Room returns the room with the given id, or nil.
func (p *Problem) Room(id int) *Room {
	if id < 0 {
		return nil
	}
	return p.roomByID[id]
}

// NumTeachers, NumGroups, NumRooms are dense cardinalities,
// used to size occupancy.Index arrays.
func (p *Problem) NumTeachers() int { return len(p.Teachers) }
func (p *Problem) NumGroups() int   { return len(p.Groups) }
func (p *Problem) NumRooms() int    { return len(p.Rooms) }

// EventCount returns Σ over (g, s) of weekly_hours(s), per invariant I2.
func (p *Problem) EventCount() int {
	total := 0
	for _, bySubject := range p.Assignment {
		for subjectID := range bySubject {
			if s := p.Subject(subjectID); s != nil {
				total += s.WeeklyHours
			}
		}
	}
	return total
}

// Solution is the mutable vector of E events, each carrying a slot.
// A single Solution is owned exclusively by one tabu.Engine during Optimize.
type Solution struct {
	Events []Event `json:"eventos"`
}

// Clone performs a deep copy of the events slice.
func (s *Solution) Clone() *Solution {
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return &Solution{Events: events}
}
