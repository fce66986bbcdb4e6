// Package validation struct-tag-validates the wire payload of a solve
// request before it reaches pkg/builder/pkg/tabu, classifying failures via
// pkg/errors rather than letting the engine fail deep inside Optimize.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/paiban/horario/pkg/errors"
	"github.com/paiban/horario/pkg/model"
)

// TeacherPayload is the wire shape of one teacher in a solve request.
type TeacherPayload struct {
	ID             int    `json:"id" validate:"gte=0"`
	Name           string `json:"name"`
	MaxHours       int    `json:"max_hours" validate:"gte=0"`
	ForbiddenSlots []int  `json:"forbidden_slots" validate:"dive,gte=0,lt=70"`
}

// SubjectPayload is the wire shape of one subject in a solve request.
type SubjectPayload struct {
	ID          int    `json:"id" validate:"gte=0"`
	Name        string `json:"name"`
	WeeklyHours int    `json:"weekly_hours" validate:"gt=0"`
	NeedsLab    bool   `json:"needs_lab"`
}

// GroupPayload is the wire shape of one student group in a solve request.
type GroupPayload struct {
	ID           int    `json:"id" validate:"gte=0"`
	Name         string `json:"name"`
	Size         int    `json:"size" validate:"gte=0"`
	MorningShift bool   `json:"morning_shift"`
}

// RoomPayload is the wire shape of one room in a solve request.
type RoomPayload struct {
	ID       int    `json:"id" validate:"gte=0"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity" validate:"gte=0"`
	IsLab    bool   `json:"is_lab"`
}

// SolveRequest is the full payload accepted by POST /api/v1/solve.
type SolveRequest struct {
	Teachers   []TeacherPayload          `json:"teachers" validate:"required,min=1,dive"`
	Subjects   []SubjectPayload          `json:"subjects" validate:"required,min=1,dive"`
	Groups     []GroupPayload            `json:"groups" validate:"required,min=1,dive"`
	Rooms      []RoomPayload             `json:"rooms" validate:"required,min=1,dive"`
	Assignment map[int]map[int]int       `json:"assignment" validate:"required"`
	MaxIterations int                    `json:"max_iterations" validate:"gte=0"`
	TabuSize      int                    `json:"tabu_size" validate:"gte=0"`
	Seed          int64                  `json:"seed"`
}

// Validator wraps go-playground/validator with the request shapes above.
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator.
func New() *Validator {
	return &Validator{validate: validator.New()}
}

// ValidateSolveRequest struct-tag-validates req and cross-checks that every
// assignment references a declared group and subject id, returning an
// errors.AppError classified as InputMalformed or InputInconsistent.
func (v *Validator) ValidateSolveRequest(req *SolveRequest) error {
	if err := v.validate.Struct(req); err != nil {
		return apperrors.Wrap(err, apperrors.InputMalformed, formatFieldErrors(err))
	}

	groupIDs := make(map[int]bool, len(req.Groups))
	for _, g := range req.Groups {
		groupIDs[g.ID] = true
	}
	subjectIDs := make(map[int]bool, len(req.Subjects))
	for _, s := range req.Subjects {
		subjectIDs[s.ID] = true
	}
	teacherIDs := make(map[int]bool, len(req.Teachers))
	for _, t := range req.Teachers {
		teacherIDs[t.ID] = true
	}

	for groupID, bySubject := range req.Assignment {
		if !groupIDs[groupID] {
			return apperrors.Newf(apperrors.InputInconsistent, "assignment references unknown group id %d", groupID)
		}
		for subjectID, teacherID := range bySubject {
			if !subjectIDs[subjectID] {
				return apperrors.Newf(apperrors.InputInconsistent, "assignment references unknown subject id %d", subjectID)
			}
			if !teacherIDs[teacherID] {
				return apperrors.Newf(apperrors.InputInconsistent, "assignment references unknown teacher id %d", teacherID)
			}
		}
	}

	return nil
}

// ToProblem converts an already-validated SolveRequest into a model.Problem.
func (r *SolveRequest) ToProblem() *model.Problem {
	teachers := make([]model.Teacher, len(r.Teachers))
	for i, t := range r.Teachers {
		teachers[i] = model.Teacher{ID: t.ID, Name: t.Name, MaxHours: t.MaxHours, ForbiddenSlots: t.ForbiddenSlots}
	}
	subjects := make([]model.Subject, len(r.Subjects))
	for i, s := range r.Subjects {
		subjects[i] = model.Subject{ID: s.ID, Name: s.Name, WeeklyHours: s.WeeklyHours, NeedsLab: s.NeedsLab}
	}
	groups := make([]model.Group, len(r.Groups))
	for i, g := range r.Groups {
		groups[i] = model.Group{ID: g.ID, Name: g.Name, Size: g.Size, MorningShift: g.MorningShift}
	}
	rooms := make([]model.Room, len(r.Rooms))
	for i, room := range r.Rooms {
		rooms[i] = model.Room{ID: room.ID, Name: room.Name, Capacity: room.Capacity, IsLab: room.IsLab}
	}
	return model.NewProblem(teachers, subjects, groups, rooms, model.Assignment(r.Assignment))
}

func formatFieldErrors(err error) string {
	valErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "invalid request payload"
	}
	parts := make([]string, 0, len(valErrs))
	for _, fe := range valErrs {
		parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
	}
	return "invalid request payload: " + strings.Join(parts, "; ")
}
