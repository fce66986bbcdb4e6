// Package builder constructs a deterministic greedy initial Solution from a
// Problem, in a single pass, before any tabu.Engine is created.
package builder

import (
	"sort"

	"github.com/paiban/horario/pkg/errors"
	"github.com/paiban/horario/pkg/logger"
	"github.com/paiban/horario/pkg/model"
	"github.com/paiban/horario/pkg/occupancy"
)

// demand is one (group, subject) pairing expanded to its weekly_hours copies,
// used to enumerate events in (group_id, subject_id, copy_index) order.
type demand struct {
	groupID   int
	subjectID int
	copies    int
}

// Build validates the Problem and produces a deterministic initial Solution
// plus the occupancy.Index that reflects it. It returns a classified error
// (see pkg/errors) when the Problem is malformed, before any placement is
// attempted.
func Build(problem *model.Problem, log *logger.EngineLogger) (*model.Solution, *occupancy.Index, error) {
	if err := validateProblem(problem); err != nil {
		return nil, nil, err
	}

	demands := enumerateDemands(problem)
	events := make([]model.Event, 0, problem.EventCount())
	sol := &model.Solution{Events: events}
	idx := occupancy.NewIndex(problem)

	eventID := 0
	fallbacks := 0
	for _, d := range demands {
		group := problem.Group(d.groupID)
		for copyIdx := 0; copyIdx < d.copies; copyIdx++ {
			teacherID, _ := problem.Assignment.TeacherFor(d.groupID, d.subjectID)
			e := model.Event{
				ID:        eventID,
				SubjectID: d.subjectID,
				TeacherID: teacherID,
				GroupID:   d.groupID,
				RoomID:    -1,
				Slot:      model.Unassigned,
			}

			slot, usedFallback := placeSlot(idx, e, group)
			e.Slot = slot
			e.RoomID = assignRoom(problem, d.subjectID, d.groupID)
			idx.Apply(model.Event{ID: e.ID, TeacherID: e.TeacherID, GroupID: e.GroupID, RoomID: e.RoomID, Slot: model.Unassigned}, slot)

			sol.Events = append(sol.Events, e)
			eventID++
			if usedFallback {
				fallbacks++
			}
		}
	}

	if log != nil {
		log.BuildComplete(len(sol.Events), fallbacks)
	}
	return sol, idx, nil
}

func enumerateDemands(problem *model.Problem) []demand {
	var demands []demand
	for groupID, subjects := range problem.Assignment {
		for subjectID := range subjects {
			subject := problem.Subject(subjectID)
			copies := 1
			if subject != nil {
				copies = subject.WeeklyHours
			}
			demands = append(demands, demand{groupID: groupID, subjectID: subjectID, copies: copies})
		}
	}
	sort.Slice(demands, func(i, j int) bool {
		if demands[i].groupID != demands[j].groupID {
			return demands[i].groupID < demands[j].groupID
		}
		return demands[i].subjectID < demands[j].subjectID
	})
	return demands
}

// placeSlot scans (d, p) lexicographically within the group's shift window
// first, then the complement window, accepting the first slot for which the
// teacher and group are both free. Absolute fallback: the first slot free
// for the group alone, accepting the teacher collision.
func placeSlot(idx *occupancy.Index, e model.Event, group *model.Group) (model.Slot, bool) {
	if slot, ok := scanWindow(idx, e, group, true); ok {
		return slot, false
	}
	if slot, ok := scanWindow(idx, e, group, false); ok {
		return slot, false
	}
	for day := 0; day < model.NumDays; day++ {
		for period := 0; period < model.NumPeriods; period++ {
			slot := model.Slot{Day: day, Period: period}
			if idx.GroupFree(slot, e.GroupID) {
				return slot, true
			}
		}
	}
	return model.Slot{Day: 0, Period: 0}, true
}

func scanWindow(idx *occupancy.Index, e model.Event, group *model.Group, primary bool) (model.Slot, bool) {
	inWindow := group.InShiftWindow
	if !primary {
		inWindow = func(p int) bool { return !group.InShiftWindow(p) }
	}
	for day := 0; day < model.NumDays; day++ {
		for period := 0; period < model.NumPeriods; period++ {
			if !inWindow(period) {
				continue
			}
			slot := model.Slot{Day: day, Period: period}
			if idx.TeacherFree(slot, e.TeacherID) && idx.GroupFree(slot, e.GroupID) {
				return slot, true
			}
		}
	}
	return model.Slot{}, false
}

// assignRoom picks the first room whose capacity covers the group and whose
// lab flag matches the subject's requirement, or -1 if none qualifies.
func assignRoom(problem *model.Problem, subjectID, groupID int) int {
	subject := problem.Subject(subjectID)
	group := problem.Group(groupID)
	if subject == nil || group == nil {
		return -1
	}
	for _, room := range problem.Rooms {
		if room.Capacity < group.Size {
			continue
		}
		if subject.NeedsLab && !room.IsLab {
			continue
		}
		return room.ID
	}
	return -1
}

func validateProblem(problem *model.Problem) error {
	if problem == nil {
		return errors.New(errors.InputMalformed, "problem is nil")
	}
	if len(problem.Assignment) == 0 {
		return errors.New(errors.InputMalformed, "assignment is empty")
	}
	seenTeacher := make(map[int]bool)
	for _, t := range problem.Teachers {
		if seenTeacher[t.ID] {
			return errors.Newf(errors.InputMalformed, "duplicate teacher_id %d", t.ID)
		}
		seenTeacher[t.ID] = true
	}
	seenGroup := make(map[int]bool)
	for _, g := range problem.Groups {
		if seenGroup[g.ID] {
			return errors.Newf(errors.InputMalformed, "duplicate group_id %d", g.ID)
		}
		seenGroup[g.ID] = true
	}
	for groupID, subjects := range problem.Assignment {
		if problem.Group(groupID) == nil {
			return errors.Newf(errors.InputInconsistent, "assignment references unknown group_id %d", groupID)
		}
		for subjectID, teacherID := range subjects {
			if problem.Subject(subjectID) == nil {
				return errors.Newf(errors.InputInconsistent, "assignment references unknown subject_id %d", subjectID)
			}
			if problem.Teacher(teacherID) == nil {
				return errors.Newf(errors.InputInconsistent, "assignment references unknown teacher_id %d", teacherID)
			}
		}
	}
	return nil
}
