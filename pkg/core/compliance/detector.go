package compliance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zmiana/zmiana/pkg/core/calendar"
	"github.com/zmiana/zmiana/pkg/core/model"
)

// DetectInput is the full schedule snapshot the detector runs over.
// Shifts must already be filtered to active (non-deleted) instances.
type DetectInput struct {
	Shifts    []model.Shift
	Employees []model.Employee
	Absences  []model.Absence
	Templates []model.ShiftTemplate
	Rules     Rules
}

// Report is the outcome of a schedule-wide scan. DataErrors carry
// per-employee input problems that were isolated instead of aborting the
// scan for everyone else.
type Report struct {
	Violations []model.Violation
	DataErrors []model.DataError
}

// parsedShift caches the date/clock math for one shift so each rule walks
// ready-made values instead of re-parsing strings
type parsedShift struct {
	shift model.Shift
	date  time.Time
	hours float64
}

// Detect runs the complete violation scan over the active shift set:
// absence conflicts, daily rest (11h), daily and weekly hour limits,
// weekly rest (35h), consecutive work days, and per-slot staffing bounds.
//
// The result is an unordered list. Identical (kind, employee, details)
// findings from overlapping week windows collapse to one entry.
func Detect(in DetectInput) Report {
	report := Report{Violations: []model.Violation{}}

	employeesByID := make(map[string]model.Employee, len(in.Employees))
	for _, e := range in.Employees {
		employeesByID[e.ID] = e
	}

	// Group shifts by employee, keeping roster order for deterministic output
	shiftsByEmployee := make(map[string][]model.Shift)
	employeeOrder := []string{}
	for _, s := range in.Shifts {
		if _, seen := shiftsByEmployee[s.EmployeeID]; !seen {
			employeeOrder = append(employeeOrder, s.EmployeeID)
		}
		shiftsByEmployee[s.EmployeeID] = append(shiftsByEmployee[s.EmployeeID], s)
	}

	for _, employeeID := range employeeOrder {
		employee, ok := employeesByID[employeeID]
		if !ok {
			// Shift references an unknown employee; still scan it so
			// staffing and self-consistency findings are not lost
			employee = model.Employee{ID: employeeID, FirstName: employeeID}
		}

		violations, err := scanEmployee(employee, shiftsByEmployee[employeeID], in.Absences, in.Rules)
		if err != nil {
			report.DataErrors = append(report.DataErrors, model.DataError{EmployeeID: employeeID, Err: err})
			continue
		}
		report.Violations = append(report.Violations, violations...)
	}

	staffing, dataErrs := scanStaffing(in.Shifts, in.Templates)
	report.Violations = append(report.Violations, staffing...)
	report.DataErrors = append(report.DataErrors, dataErrs...)

	report.Violations = dedupe(report.Violations)
	return report
}

// scanEmployee runs all per-employee rules over that employee's shifts
func scanEmployee(employee model.Employee, shifts []model.Shift, absences []model.Absence, rules Rules) ([]model.Violation, error) {
	parsed := make([]parsedShift, 0, len(shifts))
	for _, s := range shifts {
		date, err := calendar.ParseDate(s.Date)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", s.ID, err)
		}
		hours, err := calendar.ShiftHours(s.StartTime, s.EndTime, s.BreakMinutes)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", s.ID, err)
		}
		parsed = append(parsed, parsedShift{shift: s, date: date, hours: hours})
	}

	// Sort by date then end time; every rule below relies on this order
	sort.SliceStable(parsed, func(i, j int) bool {
		if parsed[i].shift.Date != parsed[j].shift.Date {
			return parsed[i].shift.Date < parsed[j].shift.Date
		}
		return parsed[i].shift.EndTime < parsed[j].shift.EndTime
	})

	var violations []model.Violation
	name := employee.FullName()

	// Absence conflicts, per shift
	for _, p := range parsed {
		if IsAbsent(employee.ID, p.shift.Date, absences) {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationAbsence,
				EmployeeID:   employee.ID,
				EmployeeName: name,
				Details:      fmt.Sprintf("scheduled on %s during an absence", p.shift.Date),
				Dates:        []string{p.shift.Date},
			})
		}
	}

	// Daily overtime warning, per shift
	for _, p := range parsed {
		if p.hours > MaxDailyHours {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationDailyHours,
				EmployeeID:   employee.ID,
				EmployeeName: name,
				Details:      fmt.Sprintf("%.1fh worked on %s exceeds %.0fh (overtime)", p.hours, p.shift.Date, MaxDailyHours),
				Dates:        []string{p.shift.Date},
			})
		}
	}

	// Daily rest between adjacent shift pairs
	restViolations, err := scanDailyRest(employee, parsed)
	if err != nil {
		return nil, err
	}
	violations = append(violations, restViolations...)

	// Weekly rules over Mon-Sun groups
	weekViolations, err := scanWeeks(employee, parsed)
	if err != nil {
		return nil, err
	}
	violations = append(violations, weekViolations...)

	// Consecutive work-day runs
	violations = append(violations, scanConsecutiveDays(employee, parsed, rules.MaxConsecutiveDays)...)

	return violations, nil
}

// scanDailyRest flags adjacent shift pairs with less than 11h between the end
// of one and the start of the next. Negative gaps mean overlapping input data
// and are skipped here so they are not double-penalized as rest violations.
func scanDailyRest(employee model.Employee, parsed []parsedShift) ([]model.Violation, error) {
	var violations []model.Violation
	for i := 0; i+1 < len(parsed); i++ {
		prev, next := parsed[i], parsed[i+1]
		gap, err := calendar.RestHours(prev.shift.Date, prev.shift.StartTime, prev.shift.EndTime, next.shift.Date, next.shift.StartTime)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", next.shift.ID, err)
		}
		if gap >= 0 && gap < MinDailyRestHours {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationRest11h,
				EmployeeID:   employee.ID,
				EmployeeName: employee.FullName(),
				Details:      fmt.Sprintf("only %.1fh rest between %s and %s (minimum %.0fh)", gap, prev.shift.Date, next.shift.Date, MinDailyRestHours),
				Dates:        []string{prev.shift.Date, next.shift.Date},
			})
		}
	}
	return violations, nil
}

// scanWeeks groups the sorted shifts into ISO Mon-Sun weeks and applies the
// weekly hour cap and the 35h weekly rest rule
func scanWeeks(employee model.Employee, parsed []parsedShift) ([]model.Violation, error) {
	weekKeys := []string{}
	weeks := make(map[string][]parsedShift)
	for _, p := range parsed {
		key := calendar.FormatDate(calendar.WeekStart(p.date))
		if _, seen := weeks[key]; !seen {
			weekKeys = append(weekKeys, key)
		}
		weeks[key] = append(weeks[key], p)
	}

	var violations []model.Violation
	name := employee.FullName()

	for _, key := range weekKeys {
		week := weeks[key]

		total := 0.0
		dates := []string{}
		distinctDates := map[string]bool{}
		for _, p := range week {
			total += p.hours
			dates = append(dates, p.shift.Date)
			distinctDates[p.shift.Date] = true
		}

		if total > MaxWeeklyHours {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationWeeklyHours,
				EmployeeID:   employee.ID,
				EmployeeName: name,
				Details:      fmt.Sprintf("%.1fh worked in week of %s exceeds %.0fh", total, key, MaxWeeklyHours),
				Dates:        dates,
			})
		}

		// Weekly rest: only the worked-all-7-days case is flagged. Six-day
		// weeks are evaluated but deliberately left unreported; cross-week
		// gap logic stays out of scope.
		if len(distinctDates) == 7 {
			hasLongGap := false
			for i := 0; i+1 < len(week); i++ {
				gap, err := calendar.RestHours(week[i].shift.Date, week[i].shift.StartTime, week[i].shift.EndTime, week[i+1].shift.Date, week[i+1].shift.StartTime)
				if err != nil {
					return nil, fmt.Errorf("shift %s: %w", week[i+1].shift.ID, err)
				}
				if gap >= MinWeeklyRestHours {
					hasLongGap = true
					break
				}
			}
			if !hasLongGap {
				violations = append(violations, model.Violation{
					Kind:         model.ViolationRest35h,
					EmployeeID:   employee.ID,
					EmployeeName: name,
					Details:      fmt.Sprintf("no %.0fh continuous rest in week of %s", MinWeeklyRestHours, key),
					Dates:        dates,
				})
			}
		}
	}

	return violations, nil
}

// scanConsecutiveDays walks the distinct sorted work dates and reports each
// calendar-contiguous run longer than the recommended maximum, once per run.
// Multiple shifts on the same day do not extend the run.
func scanConsecutiveDays(employee model.Employee, parsed []parsedShift, maxDays int) []model.Violation {
	if maxDays <= 0 {
		maxDays = DefaultMaxConsecutiveDays
	}

	var violations []model.Violation
	var run []parsedShift

	flush := func() {
		if len(run) > maxDays {
			dates := make([]string, len(run))
			for i, p := range run {
				dates[i] = p.shift.Date
			}
			violations = append(violations, model.Violation{
				Kind:         model.ViolationConsecutiveDays,
				EmployeeID:   employee.ID,
				EmployeeName: employee.FullName(),
				Details:      fmt.Sprintf("%d consecutive work days starting %s (recommended maximum %d)", len(run), run[0].shift.Date, maxDays),
				Dates:        dates,
			})
		}
		run = nil
	}

	for _, p := range parsed {
		if len(run) == 0 {
			run = append(run, p)
			continue
		}
		last := run[len(run)-1]
		delta := calendar.DaysBetween(last.date, p.date)
		switch {
		case delta == 0:
			// Same-day second shift, run length unchanged
		case delta == 1:
			run = append(run, p)
		default:
			flush()
			run = append(run, p)
		}
	}
	flush()

	return violations
}

// slotKey identifies a (date, start, end) staffing slot
type slotKey struct {
	date  string
	start string
	end   string
}

// scanStaffing groups all active shifts by (date, start, end) slot, matches
// each slot against a template and reports headcounts outside the template's
// min/max bounds. Computed once globally, not per employee.
func scanStaffing(shifts []model.Shift, templates []model.ShiftTemplate) ([]model.Violation, []model.DataError) {
	counts := make(map[slotKey]int)
	slotOrder := []slotKey{}
	var dataErrs []model.DataError

	for _, s := range shifts {
		start, err := calendar.NormalizeClock(s.StartTime)
		if err != nil {
			dataErrs = append(dataErrs, model.DataError{EmployeeID: s.EmployeeID, Err: fmt.Errorf("shift %s: %w", s.ID, err)})
			continue
		}
		end, err := calendar.NormalizeClock(s.EndTime)
		if err != nil {
			dataErrs = append(dataErrs, model.DataError{EmployeeID: s.EmployeeID, Err: fmt.Errorf("shift %s: %w", s.ID, err)})
			continue
		}
		key := slotKey{date: s.Date, start: start, end: end}
		if _, seen := counts[key]; !seen {
			slotOrder = append(slotOrder, key)
		}
		counts[key]++
	}

	var violations []model.Violation
	for _, key := range slotOrder {
		template, ok := matchTemplate(key, templates)
		if !ok {
			continue // bespoke slot, no staffing bounds to enforce
		}

		count := counts[key]
		if count < template.MinEmployees {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationStaffingMin,
				EmployeeName: model.SystemEmployeeName,
				Details:      fmt.Sprintf("%s %s-%s has %d of %d required employees", key.date, key.start, key.end, count, template.MinEmployees),
				Dates:        []string{key.date},
			})
		}
		if template.MaxEmployees != nil && count > *template.MaxEmployees {
			violations = append(violations, model.Violation{
				Kind:         model.ViolationStaffingMax,
				EmployeeName: model.SystemEmployeeName,
				Details:      fmt.Sprintf("%s %s-%s has %d employees, maximum is %d", key.date, key.start, key.end, count, *template.MaxEmployees),
				Dates:        []string{key.date},
			})
		}
	}

	return violations, dataErrs
}

// matchTemplate finds the first template whose start/end match the slot
// exactly and which applies on the slot's weekday
func matchTemplate(key slotKey, templates []model.ShiftTemplate) (model.ShiftTemplate, bool) {
	date, err := calendar.ParseDate(key.date)
	if err != nil {
		return model.ShiftTemplate{}, false
	}
	for _, t := range templates {
		start, err := calendar.NormalizeClock(t.StartTime)
		if err != nil {
			continue
		}
		end, err := calendar.NormalizeClock(t.EndTime)
		if err != nil {
			continue
		}
		if start == key.start && end == key.end && t.AppliesOn(date.Weekday()) {
			return t, true
		}
	}
	return model.ShiftTemplate{}, false
}

// dedupe collapses identical (kind, employee name, details) findings that
// overlapping week windows would otherwise report twice
func dedupe(violations []model.Violation) []model.Violation {
	seen := make(map[string]bool, len(violations))
	out := violations[:0]
	for _, v := range violations {
		key := strings.Join([]string{string(v.Kind), v.EmployeeName, v.Details}, "|")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
