// Package suggest ranks candidate employees to fill or rebalance a shift
// vacancy. Scores are advisory: a score of 0 marks a disqualified candidate
// that is still listed so callers can render it as "not recommended".
package suggest

import (
	"fmt"
	"sort"

	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/compliance"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// Scoring weights. Free candidates start high; move candidates start lower
// and gain with the headcount of the slot they would vacate, because pulling
// from a well-staffed slot is cheaper.
const (
	// ScoreFreeBase is the starting score for an employee with no shift that day
	ScoreFreeBase = 100.0

	// ScoreMoveBase is the starting score for moving an employee off another shift
	ScoreMoveBase = 60.0

	// ScoreMoveHeadcountBonus is added per employee currently on the source slot
	ScoreMoveHeadcountBonus = 10.0

	// ScoreMoveCap bounds the move base so a move never outranks a clean free candidate
	ScoreMoveCap = 90.0

	// ScoreNearBudgetPenalty is the soft penalty when the employee is within
	// NearBudgetWindowHours of their monthly budget ceiling
	ScoreNearBudgetPenalty = 20.0

	// ScoreNeutralSwapBonus rewards moving an at-budget employee when the swap
	// does not grow their hours
	ScoreNeutralSwapBonus = 20.0

	// NearBudgetWindowHours is the distance to the budget ceiling under which
	// the soft penalty applies. Exactly this much headroom is still clean.
	NearBudgetWindowHours = 8.0
)

// Vacancy describes the shift slot that needs filling or rebalancing.
// TemplateID is empty for bespoke shifts with no matching template.
type Vacancy struct {
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM[:SS]
	EndTime      string // HH:MM[:SS]
	BreakMinutes int
	TemplateID   string
}

// Input is the full snapshot the ranker runs over
type Input struct {
	Vacancy      Vacancy
	Employees    []model.Employee
	ActiveShifts []model.Shift
	Absences     []model.Absence
	Assignments  []model.TemplateAssignment
	Templates    []model.ShiftTemplate
	// Hours maps employee ID to their scheduled/required monthly hours
	Hours map[string]model.MonthlyHours
}

// Rank produces the scored candidate list for the vacancy, sorted descending
// by score. Both a free and a move entry may appear for the same employee.
// Employees with malformed shift data are skipped rather than aborting the
// whole ranking.
func Rank(in Input) ([]model.Suggestion, error) {
	targetHours, err := calendar.ShiftHours(in.Vacancy.StartTime, in.Vacancy.EndTime, in.Vacancy.BreakMinutes)
	if err != nil {
		return nil, fmt.Errorf("vacancy: %w", err)
	}
	vacancyDate, err := calendar.ParseDate(in.Vacancy.Date)
	if err != nil {
		return nil, fmt.Errorf("vacancy: %w", err)
	}
	prevDate := calendar.FormatDate(calendar.AddDays(vacancyDate, -1))

	slotCounts := countSlots(in.ActiveShifts)

	var suggestions []model.Suggestion
	for _, employee := range in.Employees {
		// Hard excludes: absent employees and employees the template
		// allow-list rules out are not listed at all
		if compliance.IsAbsent(employee.ID, in.Vacancy.Date, in.Absences) {
			continue
		}
		if in.Vacancy.TemplateID != "" {
			if !compliance.IsPermitted(employee.ID, in.Vacancy.TemplateID, in.Assignments) {
				continue
			}
		} else if compliance.HasRestrictions(employee.ID, in.Assignments) {
			// Bespoke shift with no identifiable template: skip
			// restricted employees defensively
			continue
		}

		hours := in.Hours[employee.ID]

		var sameDay, prevDay []model.Shift
		for _, s := range in.ActiveShifts {
			if s.EmployeeID != employee.ID {
				continue
			}
			switch s.Date {
			case in.Vacancy.Date:
				sameDay = append(sameDay, s)
			case prevDate:
				prevDay = append(prevDay, s)
			}
		}

		if len(sameDay) == 0 {
			s, err := rankFree(employee, in.Vacancy, targetHours, hours, prevDay)
			if err != nil {
				continue
			}
			suggestions = append(suggestions, s)
			continue
		}

		for _, source := range sameDay {
			s, ok, err := rankMove(employee, source, targetHours, hours, slotCounts, in.Templates)
			if err != nil {
				continue
			}
			if ok {
				suggestions = append(suggestions, s)
			}
		}
	}

	// Stable sort keeps natural roster order between equal scores
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Score > suggestions[j].Score
	})

	return suggestions, nil
}

// rankFree scores an employee with no shift on the vacancy date
func rankFree(employee model.Employee, vacancy Vacancy, targetHours float64, hours model.MonthlyHours, prevDay []model.Shift) (model.Suggestion, error) {
	suggestion := model.Suggestion{
		Employee:       employee,
		Kind:           model.SuggestionFree,
		Score:          ScoreFreeBase,
		Reason:         "free on this day",
		ProjectedHours: hours.Scheduled + targetHours,
	}

	if suggestion.ProjectedHours > hours.Required {
		suggestion.Score = 0
		suggestion.Overtime = true
		suggestion.Reason = fmt.Sprintf("would exceed monthly budget (%.1fh of %.1fh)", suggestion.ProjectedHours, hours.Required)
		return suggestion, nil
	}

	for _, prev := range prevDay {
		gap, err := calendar.RestHours(prev.Date, prev.StartTime, prev.EndTime, vacancy.Date, vacancy.StartTime)
		if err != nil {
			return model.Suggestion{}, err
		}
		if gap >= 0 && gap < compliance.MinDailyRestHours {
			suggestion.Score = 0
			suggestion.Reason = fmt.Sprintf("only %.1fh rest after the previous shift", gap)
			return suggestion, nil
		}
	}

	if hours.Required-hours.Scheduled < NearBudgetWindowHours {
		suggestion.Score -= ScoreNearBudgetPenalty
		suggestion.Reason = "free, but close to monthly budget"
	}

	return suggestion, nil
}

// rankMove scores moving an employee off one of their same-day shifts onto
// the vacancy. Returns ok=false when vacating the source would understaff it.
func rankMove(employee model.Employee, source model.Shift, targetHours float64, hours model.MonthlyHours, slotCounts map[slotKey]int, templates []model.ShiftTemplate) (model.Suggestion, bool, error) {
	sourceHours, err := calendar.ShiftHours(source.StartTime, source.EndTime, source.BreakMinutes)
	if err != nil {
		return model.Suggestion{}, false, err
	}
	start, err := calendar.NormalizeClock(source.StartTime)
	if err != nil {
		return model.Suggestion{}, false, err
	}
	end, err := calendar.NormalizeClock(source.EndTime)
	if err != nil {
		return model.Suggestion{}, false, err
	}

	headcount := slotCounts[slotKey{date: source.Date, start: start, end: end}]

	// Assume a minimum of one when the source slot has no identifiable template
	minRequired := 1
	if template, ok := matchSlotTemplate(source.Date, start, end, templates); ok {
		minRequired = template.MinEmployees
	}
	if headcount-1 < minRequired {
		return model.Suggestion{}, false, nil
	}

	score := ScoreMoveBase + ScoreMoveHeadcountBonus*float64(headcount)
	if score > ScoreMoveCap {
		score = ScoreMoveCap
	}

	src := source
	suggestion := model.Suggestion{
		Employee:          employee,
		Kind:              model.SuggestionMove,
		Score:             score,
		Reason:            fmt.Sprintf("can move from the %s-%s shift", start, end),
		ProjectedHours:    hours.Scheduled - sourceHours + targetHours,
		SourceShift:       &src,
		SourceStaffBefore: headcount,
		SourceStaffAfter:  headcount - 1,
	}

	if suggestion.ProjectedHours > hours.Required {
		suggestion.Score = 0
		suggestion.Overtime = true
		suggestion.Reason = fmt.Sprintf("move would exceed monthly budget (%.1fh of %.1fh)", suggestion.ProjectedHours, hours.Required)
		return suggestion, true, nil
	}

	if hours.Scheduled >= hours.Required && targetHours <= sourceHours {
		suggestion.Score += ScoreNeutralSwapBonus
		suggestion.NeutralSwap = true
		suggestion.Reason = "neutral swap for an employee already at budget"
	}

	return suggestion, true, nil
}

type slotKey struct {
	date  string
	start string
	end   string
}

// countSlots counts assigned employees per (date, start, end) slot
func countSlots(shifts []model.Shift) map[slotKey]int {
	counts := make(map[slotKey]int)
	for _, s := range shifts {
		start, err := calendar.NormalizeClock(s.StartTime)
		if err != nil {
			continue
		}
		end, err := calendar.NormalizeClock(s.EndTime)
		if err != nil {
			continue
		}
		counts[slotKey{date: s.Date, start: start, end: end}]++
	}
	return counts
}

// matchSlotTemplate finds the first template matching the slot's start/end
// that applies on the slot's weekday
func matchSlotTemplate(date, start, end string, templates []model.ShiftTemplate) (model.ShiftTemplate, bool) {
	day, err := calendar.ParseDate(date)
	if err != nil {
		return model.ShiftTemplate{}, false
	}
	for _, t := range templates {
		tStart, err := calendar.NormalizeClock(t.StartTime)
		if err != nil {
			continue
		}
		tEnd, err := calendar.NormalizeClock(t.EndTime)
		if err != nil {
			continue
		}
		if tStart == start && tEnd == end && t.AppliesOn(day.Weekday()) {
			return t, true
		}
	}
	return model.ShiftTemplate{}, false
}
