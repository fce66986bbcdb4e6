// Package auditor produces read-only, post-hoc reports over a finished
// Solution: per-teacher daily load and per-group idle-gap breakdowns. It is
// independent of pkg/evaluator's bookkeeping — a discrepancy between the
// two is itself a signal worth investigating.
package auditor

import (
	"math"
	"sort"

	"github.com/paiban/horario/pkg/model"
)

// TeacherLoad summarizes one teacher's assigned load across the week.
type TeacherLoad struct {
	TeacherID    int     `json:"teacher_id"`
	TotalEvents  int     `json:"total_events"`
	MaxHours     int     `json:"max_hours"`
	PerDay       [model.NumDays]int `json:"per_day"`
	OverMaxHours bool    `json:"over_max_hours"`
	MaxDailyLoad int     `json:"max_daily_load"`
	OverDailyLoadDays int `json:"over_daily_load_days"`
}

// LoadReport is the full per-teacher load breakdown plus a fairness summary.
type LoadReport struct {
	Teachers    []TeacherLoad `json:"teachers"`
	WorkloadGini float64      `json:"workload_gini"` // 0 = perfectly even, 1 = maximally uneven
	AvgEvents   float64       `json:"avg_events_per_teacher"`
}

// BuildLoadReport computes per-teacher load and an evenness summary.
func BuildLoadReport(problem *model.Problem, sol *model.Solution) *LoadReport {
	byTeacher := make(map[int]*TeacherLoad)
	for _, t := range problem.Teachers {
		byTeacher[t.ID] = &TeacherLoad{TeacherID: t.ID, MaxHours: t.MaxHours, MaxDailyLoad: t.MaxDailyLoad()}
	}

	for _, e := range sol.Events {
		if e.Slot.IsUnassigned() {
			continue
		}
		tl, ok := byTeacher[e.TeacherID]
		if !ok {
			tl = &TeacherLoad{TeacherID: e.TeacherID}
			byTeacher[e.TeacherID] = tl
		}
		tl.TotalEvents++
		tl.PerDay[e.Slot.Day]++
	}

	ids := make([]int, 0, len(byTeacher))
	for id := range byTeacher {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	report := &LoadReport{Teachers: make([]TeacherLoad, 0, len(ids))}
	var total float64
	loads := make([]float64, 0, len(ids))
	for _, id := range ids {
		tl := byTeacher[id]
		if tl.MaxHours > 0 && tl.TotalEvents > tl.MaxHours {
			tl.OverMaxHours = true
		}
		for _, perDay := range tl.PerDay {
			if tl.MaxDailyLoad > 0 && perDay > tl.MaxDailyLoad {
				tl.OverDailyLoadDays++
			}
		}
		report.Teachers = append(report.Teachers, *tl)
		total += float64(tl.TotalEvents)
		loads = append(loads, float64(tl.TotalEvents))
	}

	if len(ids) > 0 {
		report.AvgEvents = total / float64(len(ids))
	}
	report.WorkloadGini = giniCoefficient(loads)
	return report
}

// giniCoefficient computes the Gini coefficient of a non-negative sample.
func giniCoefficient(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sumAbsDiff, sum float64
	for i := 0; i < n; i++ {
		sum += sorted[i]
		for j := 0; j < n; j++ {
			sumAbsDiff += math.Abs(sorted[i] - sorted[j])
		}
	}
	if sum == 0 {
		return 0
	}
	return sumAbsDiff / (2 * float64(n) * sum)
}
