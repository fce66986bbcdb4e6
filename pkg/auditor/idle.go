package auditor

import (
	"sort"

	"github.com/paiban/horario/pkg/model"
)

// GroupIdle summarizes one group's idle periods within its own shift window:
// gaps between classes, not the hours outside the window (which the group
// was never expected to be occupied during anyway).
type GroupIdle struct {
	GroupID       int `json:"group_id"`
	WindowStart   int `json:"window_start"`
	WindowEnd     int `json:"window_end"`
	TotalIdleSlots int `json:"total_idle_slots"`
	WorstDay      int `json:"worst_day"`
	WorstDayGap   int `json:"worst_day_gap"`
}

// IdleReport is the full per-group idle-gap breakdown.
type IdleReport struct {
	Groups       []GroupIdle `json:"groups"`
	TotalIdleSlots int       `json:"total_idle_slots"`
}

// BuildIdleReport counts, for each group and each day, the empty periods
// strictly between the first and last occupied period of that group's shift
// window (periods outside the window don't count as idle: the group isn't
// expected there). WorstDayGap is the largest such per-day count.
func BuildIdleReport(problem *model.Problem, sol *model.Solution) *IdleReport {
	occupied := make(map[int][model.NumDays][model.NumPeriods]bool)
	for _, g := range problem.Groups {
		occupied[g.ID] = [model.NumDays][model.NumPeriods]bool{}
	}
	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		arr, ok := occupied[e.GroupID]
		if !ok {
			continue
		}
		arr[e.Slot.Day][e.Slot.Period] = true
		occupied[e.GroupID] = arr
	}

	ids := make([]int, 0, len(problem.Groups))
	for _, g := range problem.Groups {
		ids = append(ids, g.ID)
	}
	sort.Ints(ids)

	report := &IdleReport{Groups: make([]GroupIdle, 0, len(ids))}
	for _, id := range ids {
		g := problem.Group(id)
		if g == nil {
			continue
		}
		gi := GroupIdle{GroupID: id, WindowStart: g.ShiftWindowStart(), WindowEnd: g.ShiftWindowEnd()}
		byDay := occupied[id]

		for day := 0; day < model.NumDays; day++ {
			first, last := -1, -1
			for p := gi.WindowStart; p <= gi.WindowEnd; p++ {
				if byDay[day][p] {
					if first == -1 {
						first = p
					}
					last = p
				}
			}
			if first == -1 {
				continue
			}
			idle := 0
			for p := first; p <= last; p++ {
				if !byDay[day][p] {
					idle++
				}
			}
			gi.TotalIdleSlots += idle
			if idle > gi.WorstDayGap {
				gi.WorstDayGap = idle
				gi.WorstDay = day
			}
		}

		report.Groups = append(report.Groups, gi)
		report.TotalIdleSlots += gi.TotalIdleSlots
	}

	return report
}
