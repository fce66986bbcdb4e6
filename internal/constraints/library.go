// Package constraints describes the catalog of hard and soft constraints
// the tabu-search engine enforces or scores, for display by the API's
// GET /api/v1/constraints endpoint.
package constraints

// Param documents one tunable parameter of a constraint.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // int, float, bool
	Description string `json:"description"`
	Default     string `json:"default,omitempty"`
	Min         string `json:"min,omitempty"`
	Max         string `json:"max,omitempty"`
}

// Definition describes one constraint in the catalog.
type Definition struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Kind        string  `json:"kind"` // hard, soft
	Description string  `json:"description"`
	Params      []Param `json:"params"`
}

// LibraryResponse is the wire shape of the constraints catalog endpoint.
type LibraryResponse struct {
	Library []Definition `json:"library"`
}

// GetLibrary returns the full constraint catalog enforced by pkg/evaluator
// and pkg/validator.
func GetLibrary() []Definition {
	return []Definition{
		// Hard constraints. The three overlap rules are counted in
		// evaluator.Result.HardConflicts; forbidden_slot and max_hours are
		// not counted there and are reported by pkg/validator as warnings.
		{
			Name:        "teacher_overlap",
			DisplayName: "Teacher double-booking",
			Kind:        "hard",
			Description: "A teacher cannot be assigned to two events in the same slot.",
		},
		{
			Name:        "group_overlap",
			DisplayName: "Group double-booking",
			Kind:        "hard",
			Description: "A student group cannot attend two events in the same slot.",
		},
		{
			Name:        "room_overlap",
			DisplayName: "Room double-booking",
			Kind:        "hard",
			Description: "A room cannot host two events in the same slot.",
		},
		{
			Name:        "forbidden_slot",
			DisplayName: "Teacher unavailability",
			Kind:        "hard",
			Description: "Flags events placed in a slot a teacher has marked unavailable; the engine does not block such placements and scores them through employee_preference.",
		},
		{
			Name:        "max_hours",
			DisplayName: "Teacher weekly hour cap",
			Kind:        "hard",
			Description: "Flags teachers whose assigned events exceed their configured weekly hour cap; the builder and the engine do not enforce the cap.",
			Params: []Param{
				{Name: "max_hours", Type: "int", Description: "Maximum weekly teaching hours"},
			},
		},

		// Soft constraints — scored into evaluator.Result.SoftPenalty with
		// the PesoXxx weights in pkg/evaluator.
		{
			Name:        "employee_preference",
			DisplayName: "Teacher slot preferences",
			Kind:        "soft",
			Description: "Penalizes placing a teacher's events in slots they have marked undesirable.",
			Params: []Param{
				{Name: "weight", Type: "float", Description: "Relative scoring weight", Default: "15"},
			},
		},
		{
			Name:        "extreme_hours",
			DisplayName: "Extreme-hour avoidance",
			Kind:        "soft",
			Description: "Penalizes scheduling events in the first or last period of the day (period 0 or 13).",
			Params: []Param{
				{Name: "weight", Type: "float", Description: "Relative scoring weight", Default: "5"},
			},
		},
		{
			Name:        "free_hours",
			DisplayName: "Group free-hour compactness",
			Kind:        "soft",
			Description: "Penalizes each idle period between a group's events on the same day.",
			Params: []Param{
				{Name: "weight", Type: "float", Description: "Relative scoring weight", Default: "10"},
			},
		},
		{
			Name:        "distribution",
			DisplayName: "Even weekly distribution",
			Kind:        "soft",
			Description: "Penalizes each day on which a group has more than 5 events.",
			Params: []Param{
				{Name: "weight", Type: "float", Description: "Relative scoring weight", Default: "8"},
			},
		},
		{
			Name:        "full_days",
			DisplayName: "Full-day avoidance",
			Kind:        "soft",
			Description: "Penalizes each day on which a teacher's events exceed ceil(max_hours/5).",
			Params: []Param{
				{Name: "weight", Type: "float", Description: "Relative scoring weight", Default: "7"},
			},
		},
	}
}
