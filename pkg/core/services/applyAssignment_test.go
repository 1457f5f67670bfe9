package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zmiana/zmiana/pkg/core/model"
)

func assignmentStore() *mockStore {
	return &mockStore{
		employees: []model.Employee{
			{ID: "e1", FirstName: "Anna", LastName: "Kowalska", EmploymentType: model.EmploymentFull},
		},
		templates: []model.ShiftTemplate{
			{ID: "t-day", Name: "Day", StartTime: "08:00", EndTime: "16:00", MinEmployees: 1},
			{ID: "t-morning", Name: "Morning", StartTime: "06:00", EndTime: "14:00", MinEmployees: 1},
		},
	}
}

func TestApplyAssignment_Saved(t *testing.T) {
	store := assignmentStore()

	result, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e1", "2026-02-11", "t-day")
	require.NoError(t, err)
	require.NotNil(t, result.Shift)
	assert.Nil(t, result.Blocked)
	assert.Nil(t, result.Warning)
	assert.False(t, result.NoOp)
	assert.NotEmpty(t, result.Shift.ID)
	assert.Equal(t, "08:00", result.Shift.StartTime)

	require.Len(t, store.applied, 1)
	require.Len(t, store.applied[0].Inserts, 1)
	assert.Equal(t, "2026-02-11", store.applied[0].Inserts[0].Date)
}

func TestApplyAssignment_BlockedByAbsence(t *testing.T) {
	store := assignmentStore()
	store.absences = []model.Absence{
		{EmployeeID: "e1", StartDate: "2026-02-10", EndDate: "2026-02-12", Type: model.AbsenceVacation},
	}

	result, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e1", "2026-02-11", "t-day")
	require.NoError(t, err)
	require.NotNil(t, result.Blocked)
	assert.Equal(t, model.ViolationAbsence, result.Blocked.Kind)
	assert.Nil(t, result.Shift)
	assert.Empty(t, store.applied, "a blocked assignment writes nothing")
}

func TestApplyAssignment_SameCellNoOp(t *testing.T) {
	store := assignmentStore()
	store.shifts = []model.Shift{
		// Stored with seconds, the cell check normalizes
		{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "08:00:00", EndTime: "16:00:00"},
	}

	result, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e1", "2026-02-11", "t-day")
	require.NoError(t, err)
	assert.True(t, result.NoOp)
	assert.Nil(t, result.Blocked)
	assert.Empty(t, store.applied)
}

func TestApplyAssignment_RestWarningStillSaves(t *testing.T) {
	store := assignmentStore()
	store.shifts = []model.Shift{
		{ID: "s1", EmployeeID: "e1", Date: "2026-02-10", StartTime: "14:00", EndTime: "22:00"},
	}

	// 06:00 start after a 22:00 finish leaves 8h of rest
	result, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e1", "2026-02-11", "t-morning")
	require.NoError(t, err)
	require.NotNil(t, result.Warning)
	assert.Equal(t, model.ViolationRest11h, result.Warning.Kind)
	require.NotNil(t, result.Shift, "the advisory never blocks the write")
	assert.Len(t, store.applied, 1)
}

func TestApplyAssignment_UnknownEmployee(t *testing.T) {
	store := assignmentStore()

	_, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e9", "2026-02-11", "t-day")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "e9")
}

func TestApplyAssignment_MalformedDate(t *testing.T) {
	store := assignmentStore()

	_, err := ApplyAssignment(context.Background(), store, nil, zap.NewNop(), "e1", "11/02/2026", "t-day")
	assert.Error(t, err)
}
