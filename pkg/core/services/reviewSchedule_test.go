package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zmiana/zmiana/internal/config"
	"github.com/zmiana/zmiana/pkg/core/model"
)

func TestReviewSchedule_FindsViolations(t *testing.T) {
	store := &mockStore{
		employees: []model.Employee{
			{ID: "e1", FirstName: "Anna", LastName: "Kowalska", EmploymentType: model.EmploymentFull},
		},
		shifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2026-02-11", StartTime: "06:00", EndTime: "18:00"},
		},
	}

	result, err := ReviewSchedule(context.Background(), store, nil, zap.NewNop(), 2026, 2)
	require.NoError(t, err)
	assert.Equal(t, 2026, result.Year)
	assert.Equal(t, 1, result.ShiftCount)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, model.ViolationDailyHours, result.Violations[0].Kind)
	assert.Empty(t, result.DataErrors)
}

func TestReviewSchedule_AppliesRuleOverrides(t *testing.T) {
	// Five consecutive days trip a config lowered to 4
	shifts := []model.Shift{}
	for i, date := range []string{"2026-02-09", "2026-02-10", "2026-02-11", "2026-02-12", "2026-02-13"} {
		shifts = append(shifts, model.Shift{
			ID: string(rune('a' + i)), EmployeeID: "e1", Date: date, StartTime: "09:00", EndTime: "15:00",
		})
	}
	store := &mockStore{
		employees: []model.Employee{
			{ID: "e1", FirstName: "Anna", LastName: "Kowalska", EmploymentType: model.EmploymentFull},
		},
		shifts: shifts,
	}
	cfg := &config.Config{Rules: config.RulesConfig{MaxConsecutiveDays: 4}}

	result, err := ReviewSchedule(context.Background(), store, cfg, zap.NewNop(), 2026, 2)
	require.NoError(t, err)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, model.ViolationConsecutiveDays, result.Violations[0].Kind)
}

func TestReviewSchedule_StoreError(t *testing.T) {
	store := &mockStore{getShiftsErr: errors.New("connection refused")}

	_, err := ReviewSchedule(context.Background(), store, nil, zap.NewNop(), 2026, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schedule snapshot")
}
