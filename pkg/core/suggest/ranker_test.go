package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmiana/zmiana/pkg/core/model"
)

var (
	anna  = model.Employee{ID: "e1", FirstName: "Anna", LastName: "Kowalska", EmploymentType: model.EmploymentFull}
	piotr = model.Employee{ID: "e2", FirstName: "Piotr", LastName: "Nowak", EmploymentType: model.EmploymentFull}

	eveningVacancy = Vacancy{
		Date:       "2026-02-11",
		StartTime:  "14:00",
		EndTime:    "22:00",
		TemplateID: "t-evening",
	}
)

func fullBudget(scheduled float64) map[string]model.MonthlyHours {
	return map[string]model.MonthlyHours{
		"e1": {Scheduled: scheduled, Required: 168},
		"e2": {Scheduled: scheduled, Required: 168},
	}
}

func suggestionFor(suggestions []model.Suggestion, employeeID string) (model.Suggestion, bool) {
	for _, s := range suggestions {
		if s.Employee.ID == employeeID {
			return s, true
		}
	}
	return model.Suggestion{}, false
}

func TestRank_FreeCandidateFullScore(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		Hours:     fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, model.SuggestionFree, s.Kind)
	assert.Equal(t, ScoreFreeBase, s.Score)
	assert.False(t, s.Overtime)
	assert.Equal(t, 108.0, s.ProjectedHours)
}

func TestRank_AbsentEmployeeExcluded(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		Absences: []model.Absence{
			{EmployeeID: "e1", StartDate: "2026-02-11", EndDate: "2026-02-11", Type: model.AbsenceSickLeave},
		},
		Hours: fullBudget(100),
	})
	require.NoError(t, err)
	assert.Empty(t, suggestions, "absent employees are not listed at all")
}

func TestRank_RestrictedEmployeeExcluded(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna, piotr},
		Assignments: []model.TemplateAssignment{
			{EmployeeID: "e1", TemplateID: "t-day"},
		},
		Hours: fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "e2", suggestions[0].Employee.ID, "e1 is restricted to another template")
}

func TestRank_BespokeVacancySkipsRestrictedDefensively(t *testing.T) {
	bespoke := Vacancy{Date: "2026-02-11", StartTime: "10:00", EndTime: "15:00"}

	suggestions, err := Rank(Input{
		Vacancy:   bespoke,
		Employees: []model.Employee{anna, piotr},
		Assignments: []model.TemplateAssignment{
			{EmployeeID: "e1", TemplateID: "t-day"},
		},
		Hours: fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "e2", suggestions[0].Employee.ID)
}

func TestRank_OvertimeZeroScoreStillListed(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 165, Required: 168}, // +8h target would hit 173
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, 0.0, s.Score)
	assert.True(t, s.Overtime)
}

func TestRank_ShortRestZeroScore(t *testing.T) {
	// Previous day's shift ends 22:00; a 06:00 start leaves only 8h
	suggestions, err := Rank(Input{
		Vacancy:   Vacancy{Date: "2026-02-11", StartTime: "06:00", EndTime: "14:00"},
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-10", StartTime: "14:00", EndTime: "22:00"},
		},
		Hours: fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, 0.0, s.Score)
	assert.False(t, s.Overtime)
	assert.Contains(t, s.Reason, "rest")
}

func TestRank_NearBudgetSoftPenalty(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 160, Required: 168}, // exactly 8h headroom is still clean
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, ScoreFreeBase, suggestions[0].Score)

	// A shorter 4h vacancy fits inside 5h of headroom but is close enough to
	// the ceiling for the soft penalty
	suggestions, err = Rank(Input{
		Vacancy:   Vacancy{Date: "2026-02-11", StartTime: "14:00", EndTime: "18:00"},
		Employees: []model.Employee{anna},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 163, Required: 168},
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, ScoreFreeBase-ScoreNearBudgetPenalty, s.Score)
	assert.False(t, s.Overtime)
	assert.Equal(t, 167.0, s.ProjectedHours)
}

func TestRank_MoveCandidate(t *testing.T) {
	two := 2
	dayTemplate := model.ShiftTemplate{
		ID: "t-day", StartTime: "08:00", EndTime: "16:00", MinEmployees: 1, MaxEmployees: &two,
	}

	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
			{ID: "s2", EmployeeID: "e2", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
		},
		Templates: []model.ShiftTemplate{dayTemplate},
		Hours:     fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, model.SuggestionMove, s.Kind)
	// base 60 + 10 * 2 on the source slot
	assert.Equal(t, 80.0, s.Score)
	require.NotNil(t, s.SourceShift)
	assert.Equal(t, "s1", s.SourceShift.ID)
	assert.Equal(t, 2, s.SourceStaffBefore)
	assert.Equal(t, 1, s.SourceStaffAfter)
}

func TestRank_MoveBlockedByMinStaffing(t *testing.T) {
	dayTemplate := model.ShiftTemplate{
		ID: "t-day", StartTime: "08:00", EndTime: "16:00", MinEmployees: 1,
	}

	// Anna is alone on the source slot; vacating it would understaff it
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
		},
		Templates: []model.ShiftTemplate{dayTemplate},
		Hours:     fullBudget(100),
	})
	require.NoError(t, err)
	assert.Empty(t, suggestions, "understaffing moves are not proposed at all")
}

func TestRank_MoveScoreCap(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
			{ID: "s2", EmployeeID: "x1", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
			{ID: "s3", EmployeeID: "x2", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
			{ID: "s4", EmployeeID: "x3", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
		},
		Hours: fullBudget(100),
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	// base 60 + 10*4 = 100 capped at 90; a move never outranks a clean free candidate
	assert.Equal(t, ScoreMoveCap, suggestions[0].Score)
}

func TestRank_NeutralSwapBonus(t *testing.T) {
	// Anna is at budget; swapping an 8h source for an 8h target is neutral
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
			{ID: "s2", EmployeeID: "e2", Date: "2026-02-11", StartTime: "08:00", EndTime: "16:00"},
		},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 168, Required: 168},
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.True(t, s.NeutralSwap)
	// base 60 + 10*2 + neutral swap bonus
	assert.Equal(t, 100.0, s.Score)
	assert.Equal(t, 168.0, s.ProjectedHours)
}

func TestRank_MoveOverBudgetZeroScore(t *testing.T) {
	// Source is a 4h shift, target is 8h: projected 172 > 168
	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{anna},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00", EndTime: "12:00"},
			{ID: "s2", EmployeeID: "e2", Date: "2026-02-11", StartTime: "08:00", EndTime: "12:00"},
		},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 168, Required: 168},
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	assert.Equal(t, 0.0, s.Score)
	assert.True(t, s.Overtime)
	assert.Equal(t, 172.0, s.ProjectedHours)
}

func TestRank_SortedDescending(t *testing.T) {
	overloaded := model.Employee{ID: "e3", FirstName: "Ewa", LastName: "Wiśniewska", EmploymentType: model.EmploymentFull}

	suggestions, err := Rank(Input{
		Vacancy:   eveningVacancy,
		Employees: []model.Employee{overloaded, anna},
		Hours: map[string]model.MonthlyHours{
			"e1": {Scheduled: 100, Required: 168},
			"e3": {Scheduled: 168, Required: 168}, // over budget, score 0
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, "e1", suggestions[0].Employee.ID)
	assert.Equal(t, "e3", suggestions[1].Employee.ID)

	zero, ok := suggestionFor(suggestions, "e3")
	require.True(t, ok, "score-0 candidates stay in the list")
	assert.True(t, zero.Overtime)
}

// End-to-end scenario: full-timer at 160h of 168h with a day shift on the
// 10th is a clean free candidate for the 14:00-22:00 vacancy on the 11th.
func TestRank_EndToEndFreeCandidate(t *testing.T) {
	suggestions, err := Rank(Input{
		Vacancy: Vacancy{Date: "2026-02-11", StartTime: "14:00", EndTime: "22:00", TemplateID: "t-evening"},
		Employees: []model.Employee{
			{ID: "E1", FirstName: "Jan", LastName: "Kowalski", EmploymentType: model.EmploymentFull},
		},
		ActiveShifts: []model.Shift{
			{ID: "s1", EmployeeID: "E1", Date: "2026-02-10", StartTime: "08:00", EndTime: "16:00"},
		},
		Templates: []model.ShiftTemplate{
			{ID: "t-evening", StartTime: "14:00", EndTime: "22:00", MinEmployees: 1},
		},
		Hours: map[string]model.MonthlyHours{
			"E1": {Scheduled: 160, Required: 168},
		},
	})
	require.NoError(t, err)
	require.Len(t, suggestions, 1)

	s := suggestions[0]
	// 22h rest since the shift on the 10th, projected hours land exactly on
	// the budget: a clean free candidate
	assert.Equal(t, model.SuggestionFree, s.Kind)
	assert.Equal(t, ScoreFreeBase, s.Score)
	assert.False(t, s.Overtime)
	assert.Equal(t, 168.0, s.ProjectedHours)
}
